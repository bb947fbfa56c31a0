// Package learn provides pattern-update policies that decide what happens to
// a neuron's bounded exemplar memory when a new pattern is committed. All
// policies honor the capacity bound by construction: they merge, blend, or
// replace on overflow, never grow past it.
package learn

import (
	"fmt"
	"strings"

	"github.com/hupe1980/spikego/spike"
)

// SimilarityFunc computes the similarity of two trains in [0, 1].
type SimilarityFunc func(a, b spike.Train) float64

// Policy decides how a committed pattern enters a bounded exemplar store.
// Policies may carry per-slot bookkeeping (usage or merge counters) and are
// not safe for concurrent use; each neuron owns its own policy instance.
type Policy interface {
	// Update folds incoming into patterns and returns the updated slice.
	// The returned slice never exceeds the configured capacity.
	Update(patterns []spike.Train, incoming spike.Train, sim SimilarityFunc) []spike.Train

	// Name returns the policy's stable name.
	Name() string
}

// Config holds the shared policy parameters.
type Config struct {
	// MaxPatterns caps the exemplar store. Must be positive.
	MaxPatterns int

	// SimilarityThreshold gates blending versus replacement at capacity.
	SimilarityThreshold float64

	// BlendAlpha is the EMA factor used when folding an incoming pattern
	// into its nearest stored exemplar.
	BlendAlpha float64

	// MergeWeight is the EMA factor for prototype consolidation in the
	// merge-similar and hybrid policies.
	MergeWeight float64

	// MergeThreshold is the high-similarity tier of the hybrid policy.
	// Clamped to at least SimilarityThreshold.
	MergeThreshold float64

	// Seed drives the deterministic random replacement fallback.
	Seed int64
}

// DefaultConfig returns the policy defaults used by neurons when no
// explicit configuration is given.
func DefaultConfig(maxPatterns int, threshold float64) Config {
	return Config{
		MaxPatterns:         maxPatterns,
		SimilarityThreshold: threshold,
		BlendAlpha:          0.2,
		MergeWeight:         0.3,
		MergeThreshold:      0.85,
		Seed:                1,
	}
}

func (c *Config) applyDefaults() {
	if c.BlendAlpha <= 0 {
		c.BlendAlpha = 0.2
	}
	if c.MergeWeight <= 0 {
		c.MergeWeight = 0.3
	}
	if c.MergeThreshold <= 0 {
		c.MergeThreshold = 0.85
	}
	if c.MergeThreshold < c.SimilarityThreshold {
		c.MergeThreshold = c.SimilarityThreshold + 0.1
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// New creates a policy by its stable name. Unknown names fail descriptively;
// there is no fallback policy.
func New(name string, cfg Config) (Policy, error) {
	if cfg.MaxPatterns <= 0 {
		return nil, fmt.Errorf("learn: max patterns must be positive, got %d", cfg.MaxPatterns)
	}
	cfg.applyDefaults()

	switch strings.ToLower(name) {
	case "append":
		return newAppend(cfg), nil
	case "replace_worst":
		return newReplaceWorst(cfg), nil
	case "merge_similar":
		return newMergeSimilar(cfg), nil
	case "hybrid":
		return newHybrid(cfg), nil
	default:
		return nil, fmt.Errorf("learn: unknown pattern update policy %q (available: %s)",
			name, strings.Join(Available(), ", "))
	}
}

// Available lists the registered policy names.
func Available() []string {
	return []string{"append", "replace_worst", "merge_similar", "hybrid"}
}

// findMostSimilar returns the index and similarity of the stored pattern
// closest to incoming, or (-1, -1) when the store is empty.
func findMostSimilar(patterns []spike.Train, incoming spike.Train, sim SimilarityFunc) (int, float64) {
	bestIdx := -1
	bestSim := -1.0
	for i, p := range patterns {
		if s := sim(p, incoming); s > bestSim {
			bestSim = s
			bestIdx = i
		}
	}
	return bestIdx, bestSim
}

// findLeastRepresentative returns the index of the pattern with the lowest
// average similarity to all other stored patterns (the outlier).
func findLeastRepresentative(patterns []spike.Train, sim SimilarityFunc) int {
	if len(patterns) == 0 {
		return -1
	}
	if len(patterns) == 1 {
		return 0
	}

	worstIdx := 0
	worstAvg := 2.0
	for i := range patterns {
		avg := 0.0
		for j := range patterns {
			if i != j {
				avg += sim(patterns[i], patterns[j])
			}
		}
		avg /= float64(len(patterns) - 1)
		if avg < worstAvg {
			worstAvg = avg
			worstIdx = i
		}
	}
	return worstIdx
}
