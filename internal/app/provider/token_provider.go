package provider

import (
	"slices"
	"sync"

	"pair_screener/internal/app/port"
	"pair_screener/internal/domain/entity"
)

type tokenProviderImpl struct {
	loader      port.TokenProvider
	logger      port.Logger
	mu          sync.Mutex
	tokensCache map[string][]entity.TokenInfo
}

// NewTokenProvider wraps loader and caches its result after the first successful load.
func NewTokenProvider(loader port.TokenProvider, logger port.Logger) port.TokenProvider {
	return &tokenProviderImpl{
		loader: loader,
		logger: logger,
	}
}

// GetTokensByNetwork implements port.TokenProvider.
func (p *tokenProviderImpl) GetTokensByNetwork(activeNetworkDefs []entity.NetworkDefinition) (map[string][]entity.TokenInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tokensCache == nil {
		p.logger.Debug("Loading watchlist from disk")
		tokens, err := p.loader.GetTokensByNetwork(activeNetworkDefs)
		if err != nil {
			p.logger.Error("Failed to load tokens", "error", err)
			return nil, err
		}
		p.tokensCache = tokens
		p.logger.Info("Tokens loaded and cached successfully", "total_networks_with_tokens", len(tokens))
	}

	out := make(map[string][]entity.TokenInfo, len(p.tokensCache))
	for chainID, tokens := range p.tokensCache {
		out[chainID] = slices.Clone(tokens)
	}
	return out, nil
}
