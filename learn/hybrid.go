package learn

import (
	"github.com/hupe1980/spikego/spike"
)

// Hybrid combines the other policies in similarity tiers. At capacity:
// very high similarity merges into a prototype, medium similarity blends
// (Hebbian strengthening), and low similarity evicts the least-used slot.
// Below capacity it always appends.
type Hybrid struct {
	cfg    Config
	usage  []int
	merges []int

	// Stats, exposed for introspection.
	adds, mergesTotal, blends, prunes int
}

func newHybrid(cfg Config) *Hybrid {
	return &Hybrid{cfg: cfg}
}

// Name returns "hybrid".
func (h *Hybrid) Name() string { return "hybrid" }

// Stats returns the counts of append, merge, blend, and prune decisions.
func (h *Hybrid) Stats() (adds, merges, blends, prunes int) {
	return h.adds, h.mergesTotal, h.blends, h.prunes
}

// Update implements Policy.
func (h *Hybrid) Update(patterns []spike.Train, incoming spike.Train, sim SimilarityFunc) []spike.Train {
	h.syncCounters(len(patterns))

	if len(patterns) < h.cfg.MaxPatterns {
		h.usage = append(h.usage, 0)
		h.merges = append(h.merges, 0)
		h.adds++
		return append(patterns, incoming.Clone())
	}

	bestIdx, bestSim := findMostSimilar(patterns, incoming, sim)
	if bestIdx < 0 {
		h.usage = append(h.usage, 0)
		h.merges = append(h.merges, 0)
		h.adds++
		return append(patterns, incoming.Clone())
	}

	switch {
	case bestSim >= h.cfg.MergeThreshold:
		patterns[bestIdx] = spike.Blend(patterns[bestIdx], incoming, h.cfg.MergeWeight)
		h.merges[bestIdx]++
		h.usage[bestIdx]++
		h.mergesTotal++

	case bestSim >= h.cfg.SimilarityThreshold:
		patterns[bestIdx] = spike.Blend(patterns[bestIdx], incoming, h.cfg.BlendAlpha)
		h.usage[bestIdx]++
		h.blends++

	default:
		worst := h.leastUsed()
		patterns[worst] = incoming.Clone()
		h.usage[worst] = 0
		h.merges[worst] = 0
		h.prunes++
	}

	return patterns
}

func (h *Hybrid) syncCounters(n int) {
	for len(h.usage) < n {
		h.usage = append(h.usage, 0)
	}
	h.usage = h.usage[:n]
	for len(h.merges) < n {
		h.merges = append(h.merges, 0)
	}
	h.merges = h.merges[:n]
}

func (h *Hybrid) leastUsed() int {
	worst := 0
	for i, u := range h.usage {
		if u < h.usage[worst] {
			worst = i
		}
	}
	return worst
}
