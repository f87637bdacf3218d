package provider

import (
	"errors"
	"testing"

	"pair_screener/internal/domain/entity"
	"pair_screener/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls int
	err   error
}

func (c *countingLoader) GetTokensByNetwork([]entity.NetworkDefinition) (map[string][]entity.TokenInfo, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return map[string][]entity.TokenInfo{
		"ethereum": {{ChainID: "ethereum", Address: "0xabc", Symbol: "AAA"}},
	}, nil
}

func TestTokenProvider_CachesFirstSuccess(t *testing.T) {
	loader := &countingLoader{}
	p := NewTokenProvider(loader, logger.NewSlogAdapter())

	first, err := p.GetTokensByNetwork(nil)
	require.NoError(t, err)
	first["ethereum"][0].Symbol = "MUTATED"

	second, err := p.GetTokensByNetwork(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, "AAA", second["ethereum"][0].Symbol)
}

func TestTokenProvider_DoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{err: errors.New("disk gone")}
	p := NewTokenProvider(loader, logger.NewSlogAdapter())

	_, err := p.GetTokensByNetwork(nil)
	require.Error(t, err)

	loader.err = nil
	got, err := p.GetTokensByNetwork(nil)
	require.NoError(t, err)
	assert.Len(t, got["ethereum"], 1)
	assert.Equal(t, 2, loader.calls)
}
