package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePairRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []PairRecord
		wantErr bool
	}{
		{"empty set", nil, false},
		{"valid", []PairRecord{{Address: "a", Risk: RiskLow}, {Address: "b"}}, false},
		{"empty address", []PairRecord{{Address: ""}}, true},
		{"duplicate", []PairRecord{{Address: "a"}, {Address: "a"}}, true},
		{"negative pool", []PairRecord{{Address: "a", PoolSize: -1}}, true},
		{"negative price", []PairRecord{{Address: "a", Price: -0.1}}, true},
		{"negative volume", []PairRecord{{Address: "a", Volume24h: -3}}, true},
		{"bad risk", []PairRecord{{Address: "a", Risk: "EXTREME"}}, true},
		{"NaN pool", []PairRecord{{Address: "a", PoolSize: math.NaN()}}, true},
		{"NaN price", []PairRecord{{Address: "a", Price: math.NaN()}}, true},
		{"NaN volume", []PairRecord{{Address: "a", Volume24h: math.NaN()}}, true},
		{"infinite pool", []PairRecord{{Address: "a", PoolSize: math.Inf(1)}}, true},
		{"infinite price change", []PairRecord{{Address: "a", PriceChange: math.Inf(-1)}}, true},
		{"negative price change allowed", []PairRecord{{Address: "a", PriceChange: -80}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePairRecords(tt.records)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
