package spikego

import (
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/spikego/edge"
	"github.com/hupe1980/spikego/encoding"
	"github.com/hupe1980/spikego/learn"
	"github.com/hupe1980/spikego/neuron"
	"github.com/hupe1980/spikego/snapshot"
	"github.com/hupe1980/spikego/spike"
)

// Retina converts grayscale images into spike activity on a neural lattice.
//
// The image is divided into gridSize x gridSize regions. Each region passes
// through an edge operator producing one strength per orientation, and each
// strength is encoded into spike times on the region's neurons. The lattice
// holds gridSize * gridSize * orientations * neuronsPerFeature neurons.
type Retina struct {
	gridSize     int
	orientations int
	perFeature   int
	operator     edge.Operator
	strategy     encoding.Strategy
	neurons      []*neuron.Neuron
}

// NewRetina creates a retina with the given grid size.
func NewRetina(gridSize int, optFns ...Option) (*Retina, error) {
	if gridSize < 1 {
		return nil, fmt.Errorf("grid size must be positive, got %d", gridSize)
	}

	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	operator, err := edge.New(opts.edgeName, opts.edgeConfig)
	if err != nil {
		return nil, err
	}

	strategy, err := encoding.New(opts.encodingName, opts.encodingConfig)
	if err != nil {
		return nil, err
	}

	r := &Retina{
		gridSize:     gridSize,
		orientations: operator.Orientations(),
		perFeature:   strategy.NeuronsPerFeature(),
		operator:     operator,
		strategy:     strategy,
	}

	count := gridSize * gridSize * r.orientations * r.perFeature
	r.neurons = make([]*neuron.Neuron, count)

	for i := range r.neurons {
		nopts := opts.neuronOptions

		// Policies carry per-neuron state (usage and merge counters), so
		// each neuron gets its own instance.
		if opts.policyName != "" {
			pcfg := opts.policyConfig
			if pcfg.MaxPatterns == 0 {
				pcfg.MaxPatterns = opts.neuronOptions.MaxPatterns
			}
			if pcfg.SimilarityThreshold == 0 {
				pcfg.SimilarityThreshold = opts.neuronOptions.Threshold
			}

			policy, err := learn.New(opts.policyName, pcfg)
			if err != nil {
				return nil, err
			}
			nopts.Policy = policy
		}

		n, err := neuron.New(uint64(i), nopts)
		if err != nil {
			return nil, err
		}

		r.neurons[i] = n
	}

	return r, nil
}

// GridSize returns the number of regions per image side.
func (r *Retina) GridSize() int { return r.gridSize }

// Orientations returns the edge operator's orientation count.
func (r *Retina) Orientations() int { return r.orientations }

// NeuronsPerFeature returns how many neurons encode one feature.
func (r *Retina) NeuronsPerFeature() int { return r.perFeature }

// Size returns the total number of lattice neurons.
func (r *Retina) Size() int { return len(r.neurons) }

// Operator returns the edge operator.
func (r *Retina) Operator() edge.Operator { return r.operator }

// Strategy returns the encoding strategy.
func (r *Retina) Strategy() encoding.Strategy { return r.strategy }

// ProcessData encodes a square grayscale image into spike activity,
// replacing any previous spike buffers. The image side is inferred from the
// pixel count and must be a perfect square covering the grid. Returns the
// number of spikes inserted.
func (r *Retina) ProcessData(pixels []uint8) (int, error) {
	if len(pixels) == 0 {
		return 0, ErrEmptySample
	}

	side := int(math.Sqrt(float64(len(pixels))))
	if side*side != len(pixels) || side < r.gridSize {
		return 0, &ErrInvalidImage{Pixels: len(pixels), GridSize: r.gridSize}
	}

	// Trailing rows and columns beyond regionSize*gridSize are ignored.
	regionSize := side / r.gridSize

	r.ClearNeuronStates()

	region := make([]uint8, regionSize*regionSize)
	spikes := 0

	for row := 0; row < r.gridSize; row++ {
		for col := 0; col < r.gridSize; col++ {
			for y := 0; y < regionSize; y++ {
				src := (row*regionSize+y)*side + col*regionSize
				copy(region[y*regionSize:(y+1)*regionSize], pixels[src:src+regionSize])
			}

			features := r.operator.ExtractEdges(region, regionSize)

			for orient, strength := range features {
				featureIndex := (row*r.gridSize+col)*r.orientations + orient
				train := r.strategy.Encode(strength, featureIndex)
				base := featureIndex * r.perFeature

				if r.perFeature == 1 {
					// Single-neuron encodings may emit several spikes
					// into the same neuron (e.g. dual-spike temporal).
					for _, t := range train {
						if t < 0 {
							continue
						}
						r.neurons[base].InsertSpike(t)
						spikes++
					}
					continue
				}

				// Population encodings align entry i with neuron i;
				// negative entries are silence placeholders.
				for i, t := range train {
					if i >= r.perFeature {
						break
					}
					if t < 0 {
						continue
					}
					r.neurons[base+i].InsertSpike(t)
					spikes++
				}
			}
		}
	}

	return spikes, nil
}

// Learn stores the current spike buffers as reference patterns. Neurons with
// empty buffers are unaffected.
func (r *Retina) Learn() {
	for _, n := range r.neurons {
		n.LearnCurrentPattern()
	}
}

// ActivationPattern returns each neuron's best similarity to its learned
// patterns, clamped to be non-negative. The result always has Size()
// elements in lattice order.
func (r *Retina) ActivationPattern() []float64 {
	pattern := make([]float64, len(r.neurons))

	for i, n := range r.neurons {
		s := n.BestSimilarity()
		if s < 0 {
			s = 0
		}
		pattern[i] = s
	}

	return pattern
}

// ClearNeuronStates clears all spike buffers, keeping learned patterns.
func (r *Retina) ClearNeuronStates() {
	for _, n := range r.neurons {
		n.ClearSpikes()
	}
}

// NeuronAt returns the neuron for a grid cell, orientation and population
// index.
func (r *Retina) NeuronAt(row, col, orientation, sub int) (*neuron.Neuron, error) {
	if row < 0 || row >= r.gridSize || col < 0 || col >= r.gridSize {
		return nil, fmt.Errorf("cell (%d,%d) outside %dx%d grid", row, col, r.gridSize, r.gridSize)
	}
	if orientation < 0 || orientation >= r.orientations {
		return nil, fmt.Errorf("orientation %d outside [0,%d)", orientation, r.orientations)
	}
	if sub < 0 || sub >= r.perFeature {
		return nil, fmt.Errorf("population index %d outside [0,%d)", sub, r.perFeature)
	}

	idx := ((row*r.gridSize+col)*r.orientations+orientation)*r.perFeature + sub

	return r.neurons[idx], nil
}

// Snapshot captures the learned reference patterns of all neurons.
func (r *Retina) Snapshot() *snapshot.Snapshot {
	snap := &snapshot.Snapshot{
		CreatedAt:         time.Now().UTC(),
		GridSize:          r.gridSize,
		Orientations:      r.orientations,
		NeuronsPerFeature: r.perFeature,
		Neurons:           make([]snapshot.NeuronState, len(r.neurons)),
	}

	for i, n := range r.neurons {
		patterns := n.Patterns()

		state := snapshot.NeuronState{
			ID:       int(n.ID()),
			Patterns: make([][]float64, len(patterns)),
		}
		for j, p := range patterns {
			state.Patterns[j] = p
		}

		snap.Neurons[i] = state
	}

	return snap
}

// RestoreSnapshot replaces all learned patterns with the snapshot's. The
// snapshot's lattice shape must match the retina.
func (r *Retina) RestoreSnapshot(snap *snapshot.Snapshot) error {
	if snap.GridSize != r.gridSize {
		return &ErrSnapshotMismatch{Field: "grid_size", Expected: r.gridSize, Actual: snap.GridSize}
	}
	if snap.Orientations != r.orientations {
		return &ErrSnapshotMismatch{Field: "orientations", Expected: r.orientations, Actual: snap.Orientations}
	}
	if snap.NeuronsPerFeature != r.perFeature {
		return &ErrSnapshotMismatch{Field: "neurons_per_feature", Expected: r.perFeature, Actual: snap.NeuronsPerFeature}
	}
	if len(snap.Neurons) != len(r.neurons) {
		return &ErrSnapshotMismatch{Field: "neurons", Expected: len(r.neurons), Actual: len(snap.Neurons)}
	}

	for i, state := range snap.Neurons {
		patterns := make([]spike.Train, len(state.Patterns))
		for j, p := range state.Patterns {
			patterns[j] = spike.Train(p)
		}

		if err := r.neurons[i].RestorePatterns(patterns); err != nil {
			return fmt.Errorf("neuron %d: %w", i, err)
		}
	}

	return nil
}
