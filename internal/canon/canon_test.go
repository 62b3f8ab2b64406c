package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name    string
		factory string
		params  map[string]any
		want    string
	}{
		{name: "no params", factory: "not_empty", params: nil, want: "not_empty"},
		{name: "sorted names", factory: "size", params: map[string]any{"to": 5, "from": 1}, want: `size({"from":1,"to":5})`},
		{name: "string value", factory: "pattern", params: map[string]any{"regexp": "^a$"}, want: `pattern({"regexp":"^a$"})`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Key(tt.factory, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKey_NumericTypesCompareByValue(t *testing.T) {
	a, err := Key("size", map[string]any{"from": 1, "to": int64(5)})
	require.NoError(t, err)
	b, err := Key("size", map[string]any{"from": float64(1), "to": uint8(5)})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Key("size", map[string]any{"from": 2, "to": 5})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestKey_UnencodableValue(t *testing.T) {
	_, err := Key("custom", map[string]any{"fn": func() {}})
	assert.Error(t, err)
}
