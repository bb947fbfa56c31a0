package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	type state struct {
		ID       int         `json:"id"`
		Patterns [][]float64 `json:"patterns"`
	}

	in := state{
		ID:       3,
		Patterns: [][]float64{{5.0, 10.0, 15.0}, {2.5}},
	}

	data, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out state
	require.NoError(t, JSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "json", Default.Name())
}

func TestMustMarshal(t *testing.T) {
	t.Run("nil codec falls back to default", func(t *testing.T) {
		data := MustMarshal(nil, map[string]int{"a": 1})
		assert.JSONEq(t, `{"a":1}`, string(data))
	})

	t.Run("panics on unmarshalable value", func(t *testing.T) {
		assert.Panics(t, func() {
			MustMarshal(JSON{}, make(chan int))
		})
	})
}
