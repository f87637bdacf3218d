package service

import (
	"context"
	"testing"
	"time"

	"pair_screener/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockPairSource_GeneratesValidRecords(t *testing.T) {
	src := NewMockPairSource(MockPairSourceOptions{Count: 40, Seed: 7, Now: fixedClock, MaxAge: 48 * time.Hour})

	got, err := src.ListPairs(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 40)
	require.NoError(t, entity.ValidatePairRecords(got))

	for _, r := range got {
		assert.Len(t, r.Address, 42)
		assert.Contains(t, mockPairedAssets, r.PairedAsset)
		assert.False(t, r.CreatedAt.After(testNow))
		assert.LessOrEqual(t, r.Age(testNow), 48*time.Hour)
		assert.GreaterOrEqual(t, r.PriceChange, -90.0)
	}
}

func TestMockPairSource_SeedIsDeterministic(t *testing.T) {
	a, err := NewMockPairSource(MockPairSourceOptions{Seed: 42, Now: fixedClock}).ListPairs(context.Background())
	require.NoError(t, err)
	b, err := NewMockPairSource(MockPairSourceOptions{Seed: 42, Now: fixedClock}).ListPairs(context.Background())
	require.NoError(t, err)

	assert.Len(t, a, 25)
	assert.Equal(t, a, b)
}

func TestMockPairSource_FailureRate(t *testing.T) {
	src := NewMockPairSource(MockPairSourceOptions{FailureRate: 1, Seed: 1})
	_, err := src.ListPairs(context.Background())
	assert.ErrorIs(t, err, ErrMockFailure)
}

func TestMockPairSource_LatencyHonoursContext(t *testing.T) {
	src := NewMockPairSource(MockPairSourceOptions{Latency: time.Hour, Seed: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := src.ListPairs(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
