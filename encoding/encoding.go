// Package encoding converts normalized feature strengths into spike times
// within a bounded temporal window (latency coding: stronger features spike
// earlier and/or more often).
package encoding

import (
	"fmt"
	"strings"

	"github.com/hupe1980/spikego/spike"
)

// NoSpike is the placeholder emitted by the population encoder for neurons
// whose response stays below the minimum, preserving positional alignment
// between spikes and population neurons.
const NoSpike = -1.0

// Strategy converts one feature strength into spike times.
type Strategy interface {
	// Encode maps an intensity in [0, 1] to spike times in
	// [0, TemporalWindow]. Intensities at or below zero, and mapped
	// times outside the window, yield an empty train.
	Encode(intensity float64, featureIndex int) spike.Train

	// NeuronsPerFeature returns how many lattice neurons one feature
	// occupies. Callers must size their lattices by this count rather
	// than assume a 1:1 mapping.
	NeuronsPerFeature() int

	// Name returns the strategy's stable name.
	Name() string
}

// Config holds the encoder parameters. Encoder-specific fields are ignored
// by encoders that do not use them.
type Config struct {
	// TemporalWindow is the duration of the encoding window in
	// milliseconds. Spikes mapped outside it are dropped.
	TemporalWindow float64

	// BaselineTime is the earliest spike time (full-intensity latency).
	BaselineTime float64

	// IntensityScale stretches the latency range: zero intensity maps to
	// BaselineTime + IntensityScale.
	IntensityScale float64

	// Temporal encoder parameters.
	DualSpike        bool    // emit a second spike packing extra information
	TimingJitter     float64 // stddev of deterministic Gaussian jitter, 0 disables
	MinSpikeInterval float64 // minimum gap before the second spike

	// Population encoder parameters.
	PopulationSize int     // tuned neurons per feature
	TuningWidth    float64 // Gaussian tuning curve width
	MinResponse    float64 // below this, a neuron stays silent
}

// DefaultConfig contains the default encoder configuration.
var DefaultConfig = Config{
	TemporalWindow:   100.0,
	BaselineTime:     10.0,
	IntensityScale:   80.0,
	MinSpikeInterval: 5.0,
	PopulationSize:   5,
	TuningWidth:      0.3,
	MinResponse:      0.1,
}

func (c *Config) applyDefaults() {
	if c.TemporalWindow <= 0 {
		c.TemporalWindow = DefaultConfig.TemporalWindow
	}
	if c.IntensityScale <= 0 {
		c.IntensityScale = DefaultConfig.IntensityScale
	}
	if c.MinSpikeInterval <= 0 {
		c.MinSpikeInterval = DefaultConfig.MinSpikeInterval
	}
	if c.PopulationSize < 1 {
		c.PopulationSize = DefaultConfig.PopulationSize
	}
	if c.TuningWidth <= 0 {
		c.TuningWidth = DefaultConfig.TuningWidth
	}
	if c.MinResponse <= 0 {
		c.MinResponse = DefaultConfig.MinResponse
	}
}

// New creates an encoding strategy by its stable name. Unknown names fail
// descriptively; there is no fallback strategy.
func New(name string, cfg Config) (Strategy, error) {
	cfg.applyDefaults()

	switch strings.ToLower(name) {
	case "rate", "rate_coding":
		return &Rate{cfg: cfg}, nil
	case "temporal", "temporal_coding":
		return &Temporal{cfg: cfg}, nil
	case "population", "population_coding":
		return &Population{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("encoding: unknown strategy %q (available: %s)",
			name, strings.Join(Available(), ", "))
	}
}

// Available lists the registered strategy names.
func Available() []string {
	return []string{"rate", "temporal", "population"}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
