package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spikego/spike"
)

func TestNew(t *testing.T) {
	t.Run("available strategies", func(t *testing.T) {
		for _, name := range Available() {
			s, err := New(name, DefaultConfig)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name())
		}
	})

	t.Run("coding aliases", func(t *testing.T) {
		for _, alias := range []string{"rate_coding", "temporal_coding", "population_coding"} {
			s, err := New(alias, DefaultConfig)
			require.NoError(t, err)
			assert.NotEmpty(t, s.Name())
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := New("phase", DefaultConfig)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "available")
	})
}

func TestRateEncode(t *testing.T) {
	enc, err := New("rate", DefaultConfig)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		intensity float64
		expected  spike.Train
	}{
		{name: "zero intensity", intensity: 0, expected: nil},
		{name: "negative intensity", intensity: -0.5, expected: nil},
		{name: "full intensity fires at baseline", intensity: 1.0, expected: spike.Train{10.0}},
		{name: "half intensity", intensity: 0.5, expected: spike.Train{50.0}},
		{name: "weak intensity fires late", intensity: 0.125, expected: spike.Train{80.0}},
		{name: "above one clamps to baseline", intensity: 1.5, expected: spike.Train{10.0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tc.expected, enc.Encode(tc.intensity, 0), 1e-9)
		})
	}
}

func TestRateStrongerFiresEarlier(t *testing.T) {
	enc, err := New("rate", DefaultConfig)
	require.NoError(t, err)

	prev := -1.0

	for _, intensity := range []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		train := enc.Encode(intensity, 0)
		require.Len(t, train, 1)

		if prev >= 0 {
			assert.Less(t, train[0], prev, "intensity %f should fire earlier", intensity)
		}

		prev = train[0]
	}
}

func TestRateOutOfWindow(t *testing.T) {
	cfg := DefaultConfig
	cfg.BaselineTime = 90.0

	enc, err := New("rate", cfg)
	require.NoError(t, err)

	// 90 + 0.9*80 = 162 falls outside the 100ms window.
	assert.Empty(t, enc.Encode(0.1, 0))

	// 90 + 0*80 = 90 still fits.
	assert.Len(t, enc.Encode(1.0, 0), 1)
}

func TestTemporalEncode(t *testing.T) {
	t.Run("single spike", func(t *testing.T) {
		enc, err := New("temporal", DefaultConfig)
		require.NoError(t, err)

		assert.Empty(t, enc.Encode(0, 0))
		assert.InDeltaSlice(t, spike.Train{10.0}, enc.Encode(1.0, 0), 1e-9)

		// 10 + (1 - 0.25)*80 = 70
		assert.InDeltaSlice(t, spike.Train{70.0}, enc.Encode(0.5, 0), 1e-9)
	})

	t.Run("quadratic curve delays intermediate intensities", func(t *testing.T) {
		temporal, err := New("temporal", DefaultConfig)
		require.NoError(t, err)

		rate, err := New("rate", DefaultConfig)
		require.NoError(t, err)

		// Intensity enters squared, so intermediate features fire later
		// than under linear rate coding and strong features pull ahead.
		tt := temporal.Encode(0.5, 0)
		rt := rate.Encode(0.5, 0)
		require.Len(t, tt, 1)
		require.Len(t, rt, 1)
		assert.Less(t, rt[0], tt[0])
	})
}

func TestTemporalDualSpike(t *testing.T) {
	cfg := DefaultConfig
	cfg.DualSpike = true

	enc, err := New("temporal", cfg)
	require.NoError(t, err)

	t.Run("second spike trails the first", func(t *testing.T) {
		// First at 10, second at 10 + 5 + 0*24 = 15.
		train := enc.Encode(1.0, 0)
		require.Len(t, train, 2)
		assert.InDelta(t, 10.0, train[0], 1e-9)
		assert.InDelta(t, 15.0, train[1], 1e-9)
	})

	t.Run("second spike dropped outside window", func(t *testing.T) {
		// First at 10 + 0.99*80 = 89.2, second at 89.2 + 5 + 21.6 > 100.
		train := enc.Encode(0.1, 0)
		require.Len(t, train, 1)
		assert.InDelta(t, 89.2, train[0], 1e-9)
	})
}

func TestTemporalJitterDeterministic(t *testing.T) {
	cfg := DefaultConfig
	cfg.TimingJitter = 2.0

	enc, err := New("temporal", cfg)
	require.NoError(t, err)

	t.Run("repeatable per feature", func(t *testing.T) {
		first := enc.Encode(0.8, 3)
		second := enc.Encode(0.8, 3)
		assert.Equal(t, first, second)
	})

	t.Run("varies across features", func(t *testing.T) {
		a := enc.Encode(0.8, 0)
		b := enc.Encode(0.8, 1)
		require.Len(t, a, 1)
		require.Len(t, b, 1)
		assert.NotEqual(t, a[0], b[0])
	})
}

func TestPopulationEncode(t *testing.T) {
	enc, err := New("population", DefaultConfig)
	require.NoError(t, err)

	t.Run("zero intensity", func(t *testing.T) {
		assert.Empty(t, enc.Encode(0, 0))
	})

	t.Run("positional alignment", func(t *testing.T) {
		train := enc.Encode(1.0, 0)
		require.Len(t, train, DefaultConfig.PopulationSize)

		// The neuron preferring 1.0 responds maximally and fires at the
		// baseline; the neuron preferring 0.0 stays silent.
		assert.InDelta(t, 10.0, train[4], 1e-9)
		assert.Equal(t, NoSpike, train[0])
	})

	t.Run("nearest neuron fires earliest", func(t *testing.T) {
		train := enc.Encode(0.5, 0)
		require.Len(t, train, DefaultConfig.PopulationSize)

		// Preferred values are evenly spaced over [0, 1], so index 2
		// prefers exactly 0.5.
		for i, ts := range train {
			if i == 2 || ts == NoSpike {
				continue
			}

			assert.Less(t, train[2], ts)
		}
	})
}

func TestPopulationSingleNeuron(t *testing.T) {
	cfg := DefaultConfig
	cfg.PopulationSize = 1

	enc, err := New("population", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, enc.NeuronsPerFeature())

	// A lone neuron prefers 0.5.
	train := enc.Encode(0.5, 0)
	require.Len(t, train, 1)
	assert.InDelta(t, 10.0, train[0], 1e-9)
}

func TestNeuronsPerFeature(t *testing.T) {
	for _, name := range []string{"rate", "temporal"} {
		enc, err := New(name, DefaultConfig)
		require.NoError(t, err)
		assert.Equal(t, 1, enc.NeuronsPerFeature())
	}

	enc, err := New("population", DefaultConfig)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig.PopulationSize, enc.NeuronsPerFeature())
}
