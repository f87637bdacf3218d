package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"pair_screener/internal/app/port"
	"pair_screener/internal/domain/entity"
)

// ErrMockFailure is returned by the mock source when a simulated failure triggers.
var ErrMockFailure = errors.New("mock data source: simulated network error")

var (
	mockBaseSymbols = []struct{ symbol, name string }{
		{"PEPE2", "Pepe Reborn"}, {"MOON", "MoonShot"}, {"FROG", "Frog Finance"},
		{"BONKZ", "Bonkz"}, {"DOGEAI", "Doge AI"}, {"WIFX", "Wif Extended"},
		{"GROK3", "Grok Three"}, {"CATZ", "Catz Protocol"}, {"TRUMPY", "Trumpy"},
		{"NEIRO", "Neiro Labs"}, {"SHRUB", "Shrub"}, {"ZKAPE", "zkApe"},
	}
	mockPairedAssets = []string{"WETH", "USDC", "SOL", "USDT", "WBNB"}
	mockRiskLevels   = []entity.RiskLevel{entity.RiskUnset, entity.RiskLow, entity.RiskMedium, entity.RiskHigh}
)

// MockPairSourceOptions configures the simulated feed.
type MockPairSourceOptions struct {
	Count int
	// FailureRate in [0,1] is the probability that a call fails.
	FailureRate float64
	Latency     time.Duration
	// MaxAge bounds how far in the past generated pairs were created.
	MaxAge time.Duration
	Seed   uint64
	Now    func() time.Time
}

// mockPairSource generates random pair records, standing in for a real feed in demos and tests.
type mockPairSource struct {
	opts MockPairSourceOptions
	mu   sync.Mutex
	rng  *rand.Rand
}

// NewMockPairSource creates a randomized port.PairSource.
func NewMockPairSource(opts MockPairSourceOptions) port.PairSource {
	if opts.Count <= 0 {
		opts.Count = 25
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 72 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &mockPairSource{
		opts: opts,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// ListPairs implements port.PairSource.
func (m *mockPairSource) ListPairs(ctx context.Context) ([]entity.PairRecord, error) {
	if m.opts.Latency > 0 {
		if err := sleepContext(ctx, m.opts.Latency); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.opts.FailureRate > 0 && m.rng.Float64() < m.opts.FailureRate {
		return nil, ErrMockFailure
	}

	now := m.opts.Now()
	records := make([]entity.PairRecord, 0, m.opts.Count)
	seen := make(map[string]struct{}, m.opts.Count)
	for len(records) < m.opts.Count {
		rec := m.randomPair(now)
		if _, dup := seen[rec.Address]; dup {
			continue
		}
		seen[rec.Address] = struct{}{}
		records = append(records, rec)
	}
	return records, nil
}

func (m *mockPairSource) randomPair(now time.Time) entity.PairRecord {
	base := mockBaseSymbols[m.rng.IntN(len(mockBaseSymbols))]
	age := time.Duration(m.rng.Int64N(int64(m.opts.MaxAge)))

	return entity.PairRecord{
		Address:     fmt.Sprintf("0x%016x%016x%08x", m.rng.Uint64(), m.rng.Uint64(), m.rng.Uint32()),
		Symbol:      base.symbol,
		Name:        base.name,
		PairedAsset: mockPairedAssets[m.rng.IntN(len(mockPairedAssets))],
		Verified:    m.rng.Float64() < 0.4,
		PoolSize:    math.Round(m.rng.Float64()*500_000*100) / 100,
		// Log-uniform between 1e-10 and 1 to mimic freshly launched tokens.
		Price:       math.Pow(10, -10*m.rng.Float64()),
		PriceChange: math.Round((m.rng.Float64()*590-90)*100) / 100,
		Volume24h:   math.Round(m.rng.Float64()*2_000_000*100) / 100,
		CreatedAt:   now.Add(-age).Truncate(time.Second),
		Risk:        mockRiskLevels[m.rng.IntN(len(mockRiskLevels))],
	}
}
