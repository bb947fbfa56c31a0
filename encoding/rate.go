package encoding

import "github.com/hupe1980/spikego/spike"

// Rate implements classic latency coding: one spike whose time decreases
// linearly with intensity, so stronger features fire earlier.
type Rate struct {
	cfg Config
}

var _ Strategy = (*Rate)(nil)

// Encode maps intensity to a single spike at
// BaselineTime + (1-intensity)*IntensityScale.
func (r *Rate) Encode(intensity float64, _ int) spike.Train {
	if intensity <= 0 {
		return nil
	}

	t := r.cfg.BaselineTime + (1.0-clamp01(intensity))*r.cfg.IntensityScale
	if t < 0 || t > r.cfg.TemporalWindow {
		return nil
	}

	return spike.Train{t}
}

// NeuronsPerFeature returns 1; rate coding maps features 1:1 onto neurons.
func (r *Rate) NeuronsPerFeature() int { return 1 }

// Name returns the strategy name.
func (r *Rate) Name() string { return "rate" }
