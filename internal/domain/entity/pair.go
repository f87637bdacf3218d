package entity

import (
	"fmt"
	"math"
	"time"
)

// RiskLevel is the optional risk classification of a pair.
// The zero value means the pair has not been classified.
type RiskLevel string

const (
	RiskUnset  RiskLevel = ""
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Valid reports whether r is unset or one of the three known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskUnset, RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// PairRecord is one tradable token pair discovered by a data source.
type PairRecord struct {
	Address     string    `json:"address"`
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	PairedAsset string    `json:"pairedAsset"`
	Verified    bool      `json:"verified"`
	PoolSize    float64   `json:"poolSize"`
	Price       float64   `json:"price"`
	PriceChange float64   `json:"priceChange"`
	Volume24h   float64   `json:"volume24h"`
	CreatedAt   time.Time `json:"createdAt"`
	Risk        RiskLevel `json:"risk,omitempty"`

	ChainID string `json:"chainId,omitempty"`
	DexID   string `json:"dexId,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Age returns how old the pair is at the given instant.
func (p PairRecord) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}

// ValidatePairRecords checks the invariants of a freshly fetched record set:
// addresses are present and unique, numeric fields are finite, monetary
// amounts are non-negative and the risk level belongs to the closed enum.
func ValidatePairRecords(records []PairRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		if rec.Address == "" {
			return fmt.Errorf("record %d: empty address", i)
		}
		if _, dup := seen[rec.Address]; dup {
			return fmt.Errorf("record %d: duplicate address %s", i, rec.Address)
		}
		seen[rec.Address] = struct{}{}

		if !finite(rec.PoolSize) || !finite(rec.Price) || !finite(rec.Volume24h) || !finite(rec.PriceChange) {
			return fmt.Errorf("record %d (%s): non-finite pool size, price, price change or volume", i, rec.Address)
		}
		if rec.PoolSize < 0 || rec.Price < 0 || rec.Volume24h < 0 {
			return fmt.Errorf("record %d (%s): negative pool size, price or volume", i, rec.Address)
		}
		if !rec.Risk.Valid() {
			return fmt.Errorf("record %d (%s): unknown risk level %q", i, rec.Address, rec.Risk)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
