package spike

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainClone(t *testing.T) {
	train := Train{5, 10, 15}
	clone := train.Clone()

	clone[0] = 99
	assert.Equal(t, 5.0, train[0])
}

func TestTrainSorted(t *testing.T) {
	train := Train{15, 5, 10}
	sorted := train.Sorted()

	assert.Equal(t, Train{5, 10, 15}, sorted)
	assert.Equal(t, Train{15, 5, 10}, train, "original must not be modified")
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name  string
		dst   Train
		src   Train
		alpha float64
		want  Train
	}{
		{
			name:  "equal length",
			dst:   Train{10, 20},
			src:   Train{20, 30},
			alpha: 0.5,
			want:  Train{15, 25},
		},
		{
			name:  "surplus in dst is kept",
			dst:   Train{10, 20, 40},
			src:   Train{20},
			alpha: 0.5,
			want:  Train{15, 20, 40},
		},
		{
			name:  "surplus in src is ignored",
			dst:   Train{10},
			src:   Train{20, 30, 40},
			alpha: 0.5,
			want:  Train{15},
		},
		{
			name:  "alpha zero keeps dst",
			dst:   Train{10, 20},
			src:   Train{90, 95},
			alpha: 0,
			want:  Train{10, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(tt.dst, tt.src, tt.alpha)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestHistogram(t *testing.T) {
	train := Train{5, 15, 15, 95}

	h := train.Histogram(100, 10)
	require.Len(t, h, 10)

	assert.InDelta(t, 0.25, h[0], 1e-12)
	assert.InDelta(t, 0.5, h[1], 1e-12)
	assert.InDelta(t, 0.25, h[9], 1e-12)

	sum := 0.0
	for _, v := range h {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestHistogramEmptyAndOutOfWindow(t *testing.T) {
	assert.Equal(t, make([]float64, 5), Train{}.Histogram(100, 5))

	// Spikes outside [0, window) are skipped.
	h := Train{-1, 150}.Histogram(100, 5)
	assert.Equal(t, make([]float64, 5), h)
}

func TestVictorPurpura(t *testing.T) {
	t.Run("identical trains cost zero", func(t *testing.T) {
		assert.Equal(t, 0.0, VictorPurpura(Train{5, 10, 15}, Train{5, 10, 15}, DefaultShiftCost))
	})

	t.Run("small shift is cheaper than delete-insert", func(t *testing.T) {
		cost := VictorPurpura(Train{10}, Train{12}, DefaultShiftCost)
		assert.InDelta(t, 1.0, cost, 1e-12) // 2ms * 0.5
		assert.Less(t, cost, deleteInsertCost)
	})

	t.Run("distant spikes pay delete-insert", func(t *testing.T) {
		// The a spike is deleted and re-inserted, the b spike stays unmatched.
		cost := VictorPurpura(Train{0}, Train{100}, DefaultShiftCost)
		assert.InDelta(t, deleteInsertCost+unmatchedCost, cost, 1e-12)
	})

	t.Run("unmatched surplus spikes are charged", func(t *testing.T) {
		cost := VictorPurpura(Train{10, 20}, Train{10}, DefaultShiftCost)
		assert.InDelta(t, unmatchedCost, cost, 1e-12)
	})
}

func TestProvider(t *testing.T) {
	window := 200.0

	t.Run("cosine identical", func(t *testing.T) {
		fn, err := Provider(MetricCosine, window)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, fn(Train{5, 10, 15}, Train{5, 10, 15}), 1e-12)
	})

	t.Run("spike distance converts cost to similarity", func(t *testing.T) {
		fn, err := Provider(MetricSpikeDistance, window)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, fn(Train{5, 10}, Train{5, 10}), 1e-12)
		assert.Greater(t, fn(Train{5, 10}, Train{5, 10}), fn(Train{5, 10}, Train{50, 100}))
	})

	t.Run("histogram disjoint yields zero", func(t *testing.T) {
		fn, err := Provider(MetricHistogram, window)
		require.NoError(t, err)
		assert.Equal(t, 0.0, fn(Train{1}, Train{199}))
	})
}

func TestMetricByName(t *testing.T) {
	m, err := MetricByName("spike_distance")
	require.NoError(t, err)
	assert.Equal(t, MetricSpikeDistance, m)

	_, err = MetricByName("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown spike metric")
}
