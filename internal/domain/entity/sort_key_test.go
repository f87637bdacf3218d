package entity

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	for _, k := range SortKeys {
		got, err := ParseSortKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	for _, raw := range []string{"", "Volume", "pool_size", "oldest"} {
		_, err := ParseSortKey(raw)
		assert.True(t, errors.Is(err, ErrInvalidSortKey), "raw=%q", raw)
	}
}

func TestSortKey_CompareDescending(t *testing.T) {
	now := time.Now()
	older := PairRecord{Address: "a", PoolSize: 1, PriceChange: -5, Volume24h: 10, CreatedAt: now.Add(-time.Hour)}
	newer := PairRecord{Address: "b", PoolSize: 2, PriceChange: 3, Volume24h: 20, CreatedAt: now}

	for _, k := range SortKeys {
		assert.Negative(t, k.Compare(newer, older), "key=%s", k)
		assert.Positive(t, k.Compare(older, newer), "key=%s", k)
		assert.Zero(t, k.Compare(older, older), "key=%s", k)
	}
}

func TestSortKey_StableWithSortStableFunc(t *testing.T) {
	recs := []PairRecord{
		{Address: "A", Volume24h: 10},
		{Address: "B", Volume24h: 100},
		{Address: "C", Volume24h: 10},
		{Address: "D", Volume24h: 50},
	}

	slices.SortStableFunc(recs, SortVolume.Compare)

	var got []string
	for _, r := range recs {
		got = append(got, r.Address)
	}
	assert.Equal(t, []string{"B", "D", "A", "C"}, got)
}
