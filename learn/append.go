package learn

import (
	"math/rand"

	"github.com/hupe1980/spikego/spike"
)

// Append is the baseline policy and the default at-capacity behavior:
// below capacity it appends; at capacity it blends the incoming pattern into
// its nearest exemplar when similar enough, otherwise it replaces a random
// exemplar to make room for the novel pattern.
type Append struct {
	cfg Config
	rng *rand.Rand
}

func newAppend(cfg Config) *Append {
	return &Append{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Name returns "append".
func (a *Append) Name() string { return "append" }

// Update implements Policy.
func (a *Append) Update(patterns []spike.Train, incoming spike.Train, sim SimilarityFunc) []spike.Train {
	if len(patterns) < a.cfg.MaxPatterns {
		return append(patterns, incoming.Clone())
	}

	bestIdx, bestSim := findMostSimilar(patterns, incoming, sim)
	if bestIdx >= 0 && bestSim >= a.cfg.SimilarityThreshold {
		patterns[bestIdx] = spike.Blend(patterns[bestIdx], incoming, a.cfg.BlendAlpha)
		return patterns
	}

	// Novel pattern with no close exemplar: evict a random slot.
	patterns[a.rng.Intn(len(patterns))] = incoming.Clone()
	return patterns
}
