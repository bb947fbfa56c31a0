package encoding

import (
	"math"

	"github.com/hupe1980/spikego/spike"
)

// Population distributes each feature across a small population of neurons
// with Gaussian tuning curves: each neuron has a preferred intensity, and
// neurons whose preference lies close to the input respond early while the
// rest respond late or stay silent.
type Population struct {
	cfg Config
}

var _ Strategy = (*Population)(nil)

// Encode returns one entry per population neuron. Silent neurons emit the
// NoSpike placeholder so the i-th entry always belongs to the i-th neuron.
func (p *Population) Encode(intensity float64, _ int) spike.Train {
	if intensity <= 0 {
		return nil
	}

	intensity = clamp01(intensity)

	train := make(spike.Train, p.cfg.PopulationSize)

	for i := 0; i < p.cfg.PopulationSize; i++ {
		preferred := p.preferredValue(i)

		diff := intensity - preferred
		response := math.Exp(-(diff * diff) / (2.0 * p.cfg.TuningWidth * p.cfg.TuningWidth))

		if response < p.cfg.MinResponse {
			train[i] = NoSpike
			continue
		}

		t := p.cfg.BaselineTime + (1.0-response)*p.cfg.IntensityScale
		if t < 0 || t > p.cfg.TemporalWindow {
			train[i] = NoSpike
			continue
		}

		train[i] = t
	}

	return train
}

// preferredValue returns the i-th neuron's preferred intensity, evenly
// spaced over [0, 1].
func (p *Population) preferredValue(i int) float64 {
	if p.cfg.PopulationSize == 1 {
		return 0.5
	}

	return float64(i) / float64(p.cfg.PopulationSize-1)
}

// NeuronsPerFeature returns the population size.
func (p *Population) NeuronsPerFeature() int { return p.cfg.PopulationSize }

// Name returns the strategy name.
func (p *Population) Name() string { return "population" }
