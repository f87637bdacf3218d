package entity

import (
	"cmp"
	"fmt"
)

// SortKey selects the attribute the filtered view is ordered by.
// Every key sorts descending.
type SortKey string

const (
	SortNewest      SortKey = "newest"
	SortPoolSize    SortKey = "poolSize"
	SortPriceChange SortKey = "priceChange"
	SortVolume      SortKey = "volume"
)

// DefaultSortKey is used by a freshly created feed.
const DefaultSortKey = SortNewest

// SortKeys lists the closed set of accepted keys.
var SortKeys = []SortKey{SortNewest, SortPoolSize, SortPriceChange, SortVolume}

// Valid reports whether k is one of SortKeys.
func (k SortKey) Valid() bool {
	switch k {
	case SortNewest, SortPoolSize, SortPriceChange, SortVolume:
		return true
	}
	return false
}

// ParseSortKey converts a raw string into a SortKey.
func ParseSortKey(raw string) (SortKey, error) {
	k := SortKey(raw)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, raw)
	}
	return k, nil
}

// Compare orders a before b when a should appear first, i.e. it returns a
// negative number when a has the larger key value. It is meant for a stable
// sort so equal keys keep their relative order.
func (k SortKey) Compare(a, b PairRecord) int {
	switch k {
	case SortPoolSize:
		return cmp.Compare(b.PoolSize, a.PoolSize)
	case SortPriceChange:
		return cmp.Compare(b.PriceChange, a.PriceChange)
	case SortVolume:
		return cmp.Compare(b.Volume24h, a.Volume24h)
	default:
		return b.CreatedAt.Compare(a.CreatedAt)
	}
}
