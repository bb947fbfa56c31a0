// Package neuron implements a temporal pattern store and matcher. A Neuron
// keeps a rolling buffer of observed spike times and a capacity-bounded
// vocabulary of learned reference patterns, and answers "how similar is the
// current input to what I have learned".
//
// Neurons replace weight-based learning with exemplar memory: learning
// commits the current buffer into the pattern store, and recognition is the
// best similarity across stored exemplars under the configured metric.
package neuron

import (
	"fmt"

	"github.com/hupe1980/spikego/learn"
	"github.com/hupe1980/spikego/spike"
)

// UnlearnedSimilarity is the sentinel returned by BestSimilarity when the
// neuron has nothing to compare: no learned patterns, or an empty buffer.
const UnlearnedSimilarity = -1.0

// Options configures a Neuron.
type Options struct {
	// WindowSize bounds, in milliseconds, the temporal extent considered
	// by the binned similarity metrics. It does not evict spikes from the
	// current buffer; callers clear the buffer explicitly between samples.
	WindowSize float64

	// Threshold is the similarity that a stored pattern must reach for
	// the neuron to fire.
	Threshold float64

	// MaxPatterns caps the reference pattern store. The cap is enforced
	// by the update policy on every learn, never by external truncation.
	MaxPatterns int

	// Metric selects the train similarity metric.
	Metric spike.Metric

	// Policy decides what happens to the pattern store at capacity.
	// When nil, the append policy with default parameters is used: blend
	// into the nearest exemplar when similar enough, otherwise replace a
	// random one.
	Policy learn.Policy
}

// DefaultOptions returns the neuron defaults used by the retina lattice.
var DefaultOptions = Options{
	WindowSize:  200.0,
	Threshold:   0.7,
	MaxPatterns: 100,
	Metric:      spike.MetricCosine,
}

// Neuron owns a current spike buffer and a bounded set of learned reference
// patterns. It carries no internal synchronization: a neuron is exclusively
// owned by one lattice slot, and concurrent mutation must be serialized by
// the caller.
type Neuron struct {
	id uint64

	windowSize  float64
	threshold   float64
	maxPatterns int

	sim    spike.Func
	metric spike.Metric
	policy learn.Policy

	buffer   spike.Train
	patterns []spike.Train

	// Connectivity is expressed as identifiers, never embedded
	// references, so larger compositions can wire lattices by index.
	axonID    uint64
	dendrites []uint64
}

// New creates a Neuron. It fails only on invalid configuration: a
// non-positive capacity, an out-of-range threshold, or an unknown metric.
func New(id uint64, opts Options) (*Neuron, error) {
	if opts.MaxPatterns <= 0 {
		return nil, fmt.Errorf("neuron %d: max patterns must be positive, got %d", id, opts.MaxPatterns)
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("neuron %d: threshold must be in [0,1], got %g", id, opts.Threshold)
	}
	if opts.WindowSize <= 0 {
		return nil, fmt.Errorf("neuron %d: window size must be positive, got %g", id, opts.WindowSize)
	}

	sim, err := spike.Provider(opts.Metric, opts.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("neuron %d: %w", id, err)
	}

	policy := opts.Policy
	if policy == nil {
		policy, err = learn.New("append", learn.DefaultConfig(opts.MaxPatterns, opts.Threshold))
		if err != nil {
			return nil, fmt.Errorf("neuron %d: %w", id, err)
		}
	}

	return &Neuron{
		id:          id,
		windowSize:  opts.WindowSize,
		threshold:   opts.Threshold,
		maxPatterns: opts.MaxPatterns,
		sim:         sim,
		metric:      opts.Metric,
		policy:      policy,
	}, nil
}

// ID returns the neuron's identifier.
func (n *Neuron) ID() uint64 { return n.id }

// WindowSize returns the temporal window in milliseconds.
func (n *Neuron) WindowSize() float64 { return n.windowSize }

// Threshold returns the firing similarity threshold.
func (n *Neuron) Threshold() float64 { return n.threshold }

// MaxPatterns returns the pattern store capacity.
func (n *Neuron) MaxPatterns() int { return n.maxPatterns }

// Metric returns the configured train similarity metric.
func (n *Neuron) Metric() spike.Metric { return n.metric }

// InsertSpike appends one spike time to the current buffer. The window size
// is a similarity-computation bound, not an eviction trigger: spikes stay in
// the buffer until ClearSpikes.
func (n *Neuron) InsertSpike(t float64) {
	n.buffer = append(n.buffer, t)
}

// ClearSpikes resets the current buffer. Callers must invoke this between
// samples; omission accumulates spikes across unrelated observations.
func (n *Neuron) ClearSpikes() {
	n.buffer = n.buffer[:0]
}

// CurrentBuffer returns a copy of the current spike buffer.
func (n *Neuron) CurrentBuffer() spike.Train {
	return n.buffer.Clone()
}

// LearnCurrentPattern commits the current buffer to the pattern store via
// the update policy. An empty buffer is a no-op. The store never exceeds
// MaxPatterns.
func (n *Neuron) LearnCurrentPattern() {
	if n.buffer.IsEmpty() {
		return
	}
	n.patterns = n.policy.Update(n.patterns, n.buffer.Clone(), learn.SimilarityFunc(n.sim))
}

// BestSimilarity returns the maximum similarity between the current buffer
// and any stored pattern under the configured metric. It returns
// UnlearnedSimilarity when there is nothing to compare.
func (n *Neuron) BestSimilarity() float64 {
	if n.buffer.IsEmpty() || len(n.patterns) == 0 {
		return UnlearnedSimilarity
	}

	best := UnlearnedSimilarity
	for _, p := range n.patterns {
		if p.IsEmpty() {
			continue
		}
		if s := n.sim(n.buffer, p); s > best {
			best = s
		}
	}
	return best
}

// ShouldFire reports whether the best similarity reaches the threshold.
func (n *Neuron) ShouldFire() bool {
	return n.BestSimilarity() >= n.threshold
}

// PatternCount returns the number of learned reference patterns.
func (n *Neuron) PatternCount() int {
	return len(n.patterns)
}

// Patterns returns a deep copy of the stored reference patterns.
func (n *Neuron) Patterns() []spike.Train {
	out := make([]spike.Train, len(n.patterns))
	for i, p := range n.patterns {
		out[i] = p.Clone()
	}
	return out
}

// RestorePatterns replaces the stored patterns, typically when loading a
// snapshot. It fails if the set exceeds the capacity bound.
func (n *Neuron) RestorePatterns(patterns []spike.Train) error {
	if len(patterns) > n.maxPatterns {
		return fmt.Errorf("neuron %d: %d patterns exceed capacity %d", n.id, len(patterns), n.maxPatterns)
	}
	n.patterns = make([]spike.Train, len(patterns))
	for i, p := range patterns {
		n.patterns[i] = p.Clone()
	}
	return nil
}

// SetPolicy replaces the pattern update policy. Passing nil is ignored.
func (n *Neuron) SetPolicy(p learn.Policy) {
	if p != nil {
		n.policy = p
	}
}

// SetAxon records the outgoing connection identifier (0 = unset).
func (n *Neuron) SetAxon(id uint64) { n.axonID = id }

// Axon returns the outgoing connection identifier.
func (n *Neuron) Axon() uint64 { return n.axonID }

// AddDendrite records an incoming connection identifier. Duplicates are
// ignored.
func (n *Neuron) AddDendrite(id uint64) {
	for _, d := range n.dendrites {
		if d == id {
			return
		}
	}
	n.dendrites = append(n.dendrites, id)
}

// RemoveDendrite removes an incoming connection identifier and reports
// whether it was present.
func (n *Neuron) RemoveDendrite(id uint64) bool {
	for i, d := range n.dendrites {
		if d == id {
			n.dendrites = append(n.dendrites[:i], n.dendrites[i+1:]...)
			return true
		}
	}
	return false
}

// Dendrites returns a copy of the incoming connection identifiers.
func (n *Neuron) Dendrites() []uint64 {
	out := make([]uint64, len(n.dendrites))
	copy(out, n.dendrites)
	return out
}
