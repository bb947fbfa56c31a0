package spikego

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spikego/edge"
	"github.com/hupe1980/spikego/encoding"
	"github.com/hupe1980/spikego/testutil"
)

func TestNewRetina(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := NewRetina(4)
		require.NoError(t, err)

		assert.Equal(t, 4, r.GridSize())
		assert.Equal(t, 8, r.Orientations())
		assert.Equal(t, 1, r.NeuronsPerFeature())
		assert.Equal(t, 4*4*8, r.Size())
		assert.Equal(t, "sobel", r.Operator().Name())
		assert.Equal(t, "rate", r.Strategy().Name())
	})

	t.Run("invalid grid size", func(t *testing.T) {
		_, err := NewRetina(0)
		require.Error(t, err)
	})

	t.Run("unknown edge operator", func(t *testing.T) {
		_, err := NewRetina(2, WithEdgeOperator("canny", edge.DefaultConfig))
		require.Error(t, err)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := NewRetina(2, WithEncoding("phase", encoding.DefaultConfig))
		require.Error(t, err)
	})

	t.Run("population encoding widens the lattice", func(t *testing.T) {
		cfg := encoding.DefaultConfig
		cfg.PopulationSize = 3

		r, err := NewRetina(2, WithEncoding("population", cfg))
		require.NoError(t, err)

		assert.Equal(t, 3, r.NeuronsPerFeature())
		assert.Equal(t, 2*2*8*3, r.Size())
	})
}

func TestProcessData(t *testing.T) {
	r, err := NewRetina(1)
	require.NoError(t, err)

	t.Run("empty sample", func(t *testing.T) {
		_, err := r.ProcessData(nil)
		assert.ErrorIs(t, err, ErrEmptySample)
	})

	t.Run("non square pixel count", func(t *testing.T) {
		_, err := r.ProcessData(make([]uint8, 10))

		var invalid *ErrInvalidImage
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 10, invalid.Pixels)
	})

	t.Run("image smaller than grid", func(t *testing.T) {
		big, err := NewRetina(4)
		require.NoError(t, err)

		_, err = big.ProcessData(make([]uint8, 4)) // 2x2 image, 4x4 grid

		var invalid *ErrInvalidImage
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("uniform image produces no spikes", func(t *testing.T) {
		spikes, err := r.ProcessData(testutil.Uniform(8, 128))
		require.NoError(t, err)
		assert.Zero(t, spikes)
	})

	t.Run("edges produce spikes", func(t *testing.T) {
		spikes, err := r.ProcessData(testutil.VerticalStep(8, 0, 255))
		require.NoError(t, err)
		assert.Positive(t, spikes)
	})

	t.Run("buffers reset between samples", func(t *testing.T) {
		first, err := r.ProcessData(testutil.VerticalStep(8, 0, 255))
		require.NoError(t, err)

		second, err := r.ProcessData(testutil.VerticalStep(8, 0, 255))
		require.NoError(t, err)

		assert.Equal(t, first, second)

		// A vertical step leaves the horizontal-gradient neuron silent.
		n, err := r.NeuronAt(0, 0, 4, 0)
		require.NoError(t, err)
		assert.Empty(t, n.CurrentBuffer())
	})
}

func TestActivationPattern(t *testing.T) {
	r, err := NewRetina(1)
	require.NoError(t, err)

	t.Run("length matches lattice before any input", func(t *testing.T) {
		pattern := r.ActivationPattern()
		require.Len(t, pattern, r.Size())

		for _, v := range pattern {
			assert.Zero(t, v)
		}
	})

	t.Run("exact recall", func(t *testing.T) {
		sample := testutil.VerticalStep(8, 0, 255)

		_, err := r.ProcessData(sample)
		require.NoError(t, err)
		r.Learn()

		_, err = r.ProcessData(sample)
		require.NoError(t, err)

		pattern := r.ActivationPattern()
		require.Len(t, pattern, r.Size())

		// Re-encoding the learned sample reproduces its spike trains, so
		// every spiking neuron reports perfect similarity.
		n, err := r.NeuronAt(0, 0, 0, 0)
		require.NoError(t, err)
		require.NotEmpty(t, n.CurrentBuffer())
		assert.InDelta(t, 1.0, pattern[0], 1e-9)

		// Values stay in [0, 1]; unlearned neurons clamp to zero.
		for _, v := range pattern {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	})

	t.Run("clearing buffers zeroes the pattern", func(t *testing.T) {
		r.ClearNeuronStates()

		for _, v := range r.ActivationPattern() {
			assert.Zero(t, v)
		}
	})
}

func TestLearnSkipsSilentNeurons(t *testing.T) {
	r, err := NewRetina(1)
	require.NoError(t, err)

	_, err = r.ProcessData(testutil.VerticalStep(8, 0, 255))
	require.NoError(t, err)
	r.Learn()

	active, err := r.NeuronAt(0, 0, 0, 0)
	require.NoError(t, err)
	assert.Positive(t, active.PatternCount())

	silent, err := r.NeuronAt(0, 0, 4, 0)
	require.NoError(t, err)
	assert.Zero(t, silent.PatternCount())
}

func TestOrientationSelectiveActivation(t *testing.T) {
	ecfg := edge.DefaultConfig
	ecfg.Orientations = 2
	ecfg.Threshold = 0.0

	scfg := encoding.DefaultConfig
	scfg.TemporalWindow = 50.0

	r, err := NewRetina(2,
		WithEdgeOperator("sobel", ecfg),
		WithEncoding("rate", scfg),
	)
	require.NoError(t, err)
	require.Equal(t, 2*2*2, r.Size())

	// Vertical stripes put a sharp vertical step inside every 4x4 region.
	img := make([]uint8, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x%4 >= 2 {
				img[y*8+x] = 255
			}
		}
	}

	_, err = r.ProcessData(img)
	require.NoError(t, err)
	r.Learn()

	_, err = r.ProcessData(img)
	require.NoError(t, err)

	pattern := r.ActivationPattern()
	require.Len(t, pattern, r.Size())

	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			aligned := pattern[(row*2+col)*2]
			orthogonal := pattern[(row*2+col)*2+1]

			assert.Positive(t, aligned, "region (%d,%d)", row, col)
			assert.Greater(t, aligned, orthogonal, "region (%d,%d)", row, col)
		}
	}
}

func TestNeuronAt(t *testing.T) {
	r, err := NewRetina(2)
	require.NoError(t, err)

	t.Run("lattice order", func(t *testing.T) {
		seen := make(map[uint64]bool)

		for row := 0; row < 2; row++ {
			for col := 0; col < 2; col++ {
				for orient := 0; orient < 8; orient++ {
					n, err := r.NeuronAt(row, col, orient, 0)
					require.NoError(t, err)
					assert.False(t, seen[n.ID()])
					seen[n.ID()] = true
				}
			}
		}

		assert.Len(t, seen, r.Size())
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := r.NeuronAt(2, 0, 0, 0)
		assert.Error(t, err)

		_, err = r.NeuronAt(0, -1, 0, 0)
		assert.Error(t, err)

		_, err = r.NeuronAt(0, 0, 8, 0)
		assert.Error(t, err)

		_, err = r.NeuronAt(0, 0, 0, 1)
		assert.Error(t, err)
	})
}

func TestRetinaSnapshotRoundTrip(t *testing.T) {
	r, err := NewRetina(1)
	require.NoError(t, err)

	sample := testutil.VerticalStep(8, 0, 255)

	_, err = r.ProcessData(sample)
	require.NoError(t, err)
	r.Learn()

	snap := r.Snapshot()
	assert.Equal(t, 1, snap.GridSize)
	assert.Equal(t, 8, snap.Orientations)
	assert.Equal(t, 1, snap.NeuronsPerFeature)
	require.Len(t, snap.Neurons, r.Size())

	restored, err := NewRetina(1)
	require.NoError(t, err)
	require.NoError(t, restored.RestoreSnapshot(snap))

	// The restored lattice recognizes the sample it never saw directly.
	_, err = restored.ProcessData(sample)
	require.NoError(t, err)

	_, err = r.ProcessData(sample)
	require.NoError(t, err)

	assert.Equal(t, r.ActivationPattern(), restored.ActivationPattern())
}

func TestRestoreSnapshotMismatch(t *testing.T) {
	r, err := NewRetina(2)
	require.NoError(t, err)

	snap := r.Snapshot()

	other, err := NewRetina(3)
	require.NoError(t, err)

	var mismatch *ErrSnapshotMismatch
	require.ErrorAs(t, other.RestoreSnapshot(snap), &mismatch)
	assert.Equal(t, "grid_size", mismatch.Field)
}
