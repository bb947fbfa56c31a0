package encoding

import (
	"math/rand"

	"github.com/hupe1980/spikego/spike"
)

// Temporal refines latency coding with a quadratic intensity mapping, an
// optional second spike and deterministic timing jitter. The quadratic
// curve compresses latencies for strong features, increasing their
// temporal separation from weak ones.
type Temporal struct {
	cfg Config
}

var _ Strategy = (*Temporal)(nil)

// Encode maps intensity to one or two spike times.
func (t *Temporal) Encode(intensity float64, featureIndex int) spike.Train {
	if intensity <= 0 {
		return nil
	}

	intensity = clamp01(intensity)

	first := t.cfg.BaselineTime + (1.0-intensity*intensity)*t.cfg.IntensityScale
	first = t.jitter(first, featureIndex)
	if first < 0 || first > t.cfg.TemporalWindow {
		return nil
	}

	train := spike.Train{first}

	if t.cfg.DualSpike {
		second := first + t.cfg.MinSpikeInterval + (1.0-intensity)*t.cfg.IntensityScale*0.3
		second = t.jitter(second, featureIndex+1)
		if second > first && second <= t.cfg.TemporalWindow {
			train = append(train, second)
		}
	}

	return train
}

// jitter adds deterministic Gaussian noise keyed by the feature index, so
// repeated encodings of the same feature stay reproducible.
func (t *Temporal) jitter(time float64, featureIndex int) float64 {
	if t.cfg.TimingJitter <= 0 {
		return time
	}

	rng := rand.New(rand.NewSource(int64(featureIndex)*2654435761 + 1)) //nolint:gosec // reproducibility over randomness quality

	return time + rng.NormFloat64()*t.cfg.TimingJitter
}

// NeuronsPerFeature returns 1; temporal coding maps features 1:1 onto neurons.
func (t *Temporal) NeuronsPerFeature() int { return 1 }

// Name returns the strategy name.
func (t *Temporal) Name() string { return "temporal" }
