package utils

import (
	"os"
	"path/filepath"
	"testing"

	dexscreener_entity "pair_screener/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStrings(t *testing.T) {
	tests := []struct {
		name      string
		items     []string
		batchSize int
		want      [][]string
	}{
		{"empty", nil, 3, [][]string{}},
		{"exact", []string{"a", "b", "c", "d"}, 2, [][]string{{"a", "b"}, {"c", "d"}}},
		{"remainder", []string{"a", "b", "c"}, 2, [][]string{{"a", "b"}, {"c"}}},
		{"non-positive size means one batch", []string{"a", "b", "c"}, 0, [][]string{{"a", "b", "c"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BatchStrings(tt.items, tt.batchSize))
		})
	}
}

func TestSafeDerefFloat64(t *testing.T) {
	usd := func(l dexscreener_entity.DEXLiquidity) float64 { return l.Usd }
	assert.Equal(t, 0.0, SafeDerefFloat64(nil, usd))
	assert.Equal(t, 12.5, SafeDerefFloat64(&dexscreener_entity.DEXLiquidity{Usd: 12.5}, usd))
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"a":1},{"a":2}]`), 0o600))

	got, err := LoadJSONFile[[]map[string]int](path)
	require.NoError(t, err)
	assert.Equal(t, []map[string]int{{"a": 1}, {"a": 2}}, got)

	_, err = LoadJSONFile[[]int](filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = LoadJSONFile[[]int](path)
	assert.Error(t, err)
}
