package learn

import (
	"github.com/hupe1980/spikego/spike"
)

// MergeSimilar consolidates similar patterns into prototypes regardless of
// remaining capacity: anything above the similarity threshold is merged into
// its nearest exemplar. Novel patterns are appended while room remains; at
// capacity the least representative exemplar (lowest average similarity to
// its peers) is evicted.
type MergeSimilar struct {
	cfg    Config
	merges []int
}

func newMergeSimilar(cfg Config) *MergeSimilar {
	return &MergeSimilar{cfg: cfg}
}

// Name returns "merge_similar".
func (m *MergeSimilar) Name() string { return "merge_similar" }

// MergeCount returns how many patterns have been folded into exemplar i.
func (m *MergeSimilar) MergeCount(i int) int {
	if i < 0 || i >= len(m.merges) {
		return 0
	}
	return m.merges[i]
}

// Update implements Policy.
func (m *MergeSimilar) Update(patterns []spike.Train, incoming spike.Train, sim SimilarityFunc) []spike.Train {
	m.syncCounters(len(patterns))

	if len(patterns) == 0 {
		m.merges = append(m.merges, 0)
		return append(patterns, incoming.Clone())
	}

	bestIdx, bestSim := findMostSimilar(patterns, incoming, sim)
	if bestSim >= m.cfg.SimilarityThreshold {
		patterns[bestIdx] = spike.Blend(patterns[bestIdx], incoming, m.cfg.MergeWeight)
		m.merges[bestIdx]++
		return patterns
	}

	if len(patterns) < m.cfg.MaxPatterns {
		m.merges = append(m.merges, 0)
		return append(patterns, incoming.Clone())
	}

	worst := findLeastRepresentative(patterns, sim)
	patterns[worst] = incoming.Clone()
	m.merges[worst] = 0
	return patterns
}

func (m *MergeSimilar) syncCounters(n int) {
	for len(m.merges) < n {
		m.merges = append(m.merges, 0)
	}
	m.merges = m.merges[:n]
}
