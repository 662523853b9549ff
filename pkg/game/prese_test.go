package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreseMarshalPairs(t *testing.T) {
	prese := Prese{"p2": 2, "p1": 0, "p3": 1}

	data, err := json.Marshal(prese)
	require.NoError(t, err)
	assert.JSONEq(t, `[["p1",0],["p2",2],["p3",1]]`, string(data))
}

func TestPreseMarshalDeterministic(t *testing.T) {
	prese := Prese{"b": 1, "a": 2, "c": 0}

	first, err := json.Marshal(prese)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(prese)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestPreseRoundTrip(t *testing.T) {
	cases := map[string]Prese{
		"empty":     {},
		"singleton": {"p1": 3},
		"multi":     {"p1": 0, "p2": 2, "p3": 1},
	}

	for name, prese := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(prese)
			require.NoError(t, err)

			var decoded Prese
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, prese, decoded)
		})
	}
}

func TestPreseUnmarshalRejectsMalformed(t *testing.T) {
	var prese Prese
	assert.Error(t, json.Unmarshal([]byte(`{"p1":2}`), &prese))
	assert.Error(t, json.Unmarshal([]byte(`[[2,"p1"]]`), &prese))
}

func TestPreseTotal(t *testing.T) {
	assert.Equal(t, 3, Prese{"p1": 0, "p2": 2, "p3": 1}.Total())
	assert.Equal(t, 0, Prese{}.Total())
}
