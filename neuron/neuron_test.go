package neuron

import (
	"testing"

	"github.com/hupe1980/spikego/learn"
	"github.com/hupe1980/spikego/spike"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNeuron(t *testing.T, opts Options) *Neuron {
	t.Helper()

	n, err := New(1, opts)
	require.NoError(t, err)

	return n
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "zero capacity", opts: Options{WindowSize: 100, Threshold: 0.5}},
		{name: "negative threshold", opts: Options{WindowSize: 100, Threshold: -0.1, MaxPatterns: 10}},
		{name: "threshold above one", opts: Options{WindowSize: 100, Threshold: 1.1, MaxPatterns: 10}},
		{name: "zero window", opts: Options{Threshold: 0.5, MaxPatterns: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(1, tt.opts)
			require.Error(t, err)
		})
	}
}

func TestInsertSpikeNeverEvicts(t *testing.T) {
	n := newTestNeuron(t, DefaultOptions)

	// Spikes beyond the window stay buffered; the window only bounds the
	// similarity metrics.
	for i := 0; i < 1000; i++ {
		n.InsertSpike(float64(i))
	}

	assert.Len(t, n.CurrentBuffer(), 1000)
}

func TestClearSpikesKeepsPatterns(t *testing.T) {
	n := newTestNeuron(t, DefaultOptions)

	n.InsertSpike(5)
	n.LearnCurrentPattern()
	n.ClearSpikes()

	assert.True(t, n.CurrentBuffer().IsEmpty())
	assert.Equal(t, 1, n.PatternCount())
}

func TestLearnEmptyBufferIsNoop(t *testing.T) {
	n := newTestNeuron(t, DefaultOptions)

	n.LearnCurrentPattern()
	assert.Equal(t, 0, n.PatternCount())
}

func TestBestSimilaritySentinel(t *testing.T) {
	n := newTestNeuron(t, DefaultOptions)

	// Nothing learned.
	n.InsertSpike(5)
	assert.Equal(t, UnlearnedSimilarity, n.BestSimilarity())

	// Learned but empty buffer.
	n.LearnCurrentPattern()
	n.ClearSpikes()
	assert.Equal(t, UnlearnedSimilarity, n.BestSimilarity())
}

func TestExactRecall(t *testing.T) {
	n := newTestNeuron(t, DefaultOptions)

	for _, s := range []float64{5, 10, 15} {
		n.InsertSpike(s)
	}
	n.LearnCurrentPattern()

	// Re-presenting the learned pattern yields maximal similarity.
	assert.InDelta(t, 1.0, n.BestSimilarity(), 1e-12)
	assert.True(t, n.ShouldFire())
}

func TestRecognitionScenario(t *testing.T) {
	opts := DefaultOptions
	opts.WindowSize = 50
	opts.Threshold = 0.6
	opts.MaxPatterns = 20

	n := newTestNeuron(t, opts)

	// Learn pattern A.
	for _, s := range []float64{5, 10, 15} {
		n.InsertSpike(s)
	}
	n.LearnCurrentPattern()
	n.ClearSpikes()

	// A similar pattern fires.
	for _, s := range []float64{5, 10, 16} {
		n.InsertSpike(s)
	}
	assert.True(t, n.ShouldFire())
	n.ClearSpikes()

	// A pattern at the far end of the window does not.
	for _, s := range []float64{45, 48, 49} {
		n.InsertSpike(s)
	}
	assert.False(t, n.ShouldFire())
}

func TestCapacityInvariant(t *testing.T) {
	opts := DefaultOptions
	opts.MaxPatterns = 10

	n := newTestNeuron(t, opts)

	for i := 0; i < 100; i++ {
		n.ClearSpikes()
		n.InsertSpike(float64(i % 200))
		n.LearnCurrentPattern()
		assert.LessOrEqual(t, n.PatternCount(), 10)
	}
}

func TestPatternsDeepCopy(t *testing.T) {
	n := newTestNeuron(t, DefaultOptions)

	n.InsertSpike(5)
	n.LearnCurrentPattern()

	patterns := n.Patterns()
	patterns[0][0] = 99

	assert.Equal(t, spike.Train{5}, n.Patterns()[0])
}

func TestRestorePatterns(t *testing.T) {
	opts := DefaultOptions
	opts.MaxPatterns = 2

	n := newTestNeuron(t, opts)

	err := n.RestorePatterns([]spike.Train{{5}, {10}})
	require.NoError(t, err)
	assert.Equal(t, 2, n.PatternCount())

	err = n.RestorePatterns([]spike.Train{{5}, {10}, {15}})
	require.Error(t, err)
}

func TestCustomPolicy(t *testing.T) {
	policy, err := learn.New("hybrid", learn.DefaultConfig(5, 0.6))
	require.NoError(t, err)

	opts := DefaultOptions
	opts.Policy = policy

	n := newTestNeuron(t, opts)

	n.InsertSpike(5)
	n.LearnCurrentPattern()
	assert.Equal(t, 1, n.PatternCount())
}

func TestConnectivity(t *testing.T) {
	n := newTestNeuron(t, DefaultOptions)

	n.SetAxon(7)
	assert.Equal(t, uint64(7), n.Axon())

	n.AddDendrite(3)
	n.AddDendrite(4)
	n.AddDendrite(3) // duplicate is ignored
	assert.Equal(t, []uint64{3, 4}, n.Dendrites())

	assert.True(t, n.RemoveDendrite(3))
	assert.False(t, n.RemoveDendrite(3))
	assert.Equal(t, []uint64{4}, n.Dendrites())
}
