package learn

import (
	"github.com/hupe1980/spikego/spike"
)

// ReplaceWorst tracks how often each exemplar is reinforced and, when a
// novel pattern arrives at capacity, evicts the least-used slot instead of a
// random one. Patterns similar to an existing exemplar are blended into it,
// which counts as a use.
type ReplaceWorst struct {
	cfg   Config
	usage []int
}

func newReplaceWorst(cfg Config) *ReplaceWorst {
	return &ReplaceWorst{cfg: cfg}
}

// Name returns "replace_worst".
func (r *ReplaceWorst) Name() string { return "replace_worst" }

// Usage returns the reinforcement count for the exemplar at index i.
func (r *ReplaceWorst) Usage(i int) int {
	if i < 0 || i >= len(r.usage) {
		return 0
	}
	return r.usage[i]
}

// ResetUsage zeroes all reinforcement counters.
func (r *ReplaceWorst) ResetUsage() {
	for i := range r.usage {
		r.usage[i] = 0
	}
}

// Update implements Policy.
func (r *ReplaceWorst) Update(patterns []spike.Train, incoming spike.Train, sim SimilarityFunc) []spike.Train {
	r.syncCounters(len(patterns))

	if len(patterns) < r.cfg.MaxPatterns {
		r.usage = append(r.usage, 0)
		return append(patterns, incoming.Clone())
	}

	bestIdx, bestSim := findMostSimilar(patterns, incoming, sim)
	if bestIdx >= 0 && bestSim >= r.cfg.SimilarityThreshold {
		patterns[bestIdx] = spike.Blend(patterns[bestIdx], incoming, r.cfg.BlendAlpha)
		r.usage[bestIdx]++
		return patterns
	}

	worst := r.leastUsed()
	patterns[worst] = incoming.Clone()
	r.usage[worst] = 0
	return patterns
}

func (r *ReplaceWorst) syncCounters(n int) {
	for len(r.usage) < n {
		r.usage = append(r.usage, 0)
	}
	r.usage = r.usage[:n]
}

func (r *ReplaceWorst) leastUsed() int {
	worst := 0
	for i, u := range r.usage {
		if u < r.usage[worst] {
			worst = i
		}
	}
	return worst
}
