package port

import "pair_screener/internal/domain/entity"

// TokenProvider defines the interface for fetching the token watchlist.
type TokenProvider interface {
	// GetTokensByNetwork returns a map of DEXScreener chain ID to the watched tokens of that chain.
	GetTokensByNetwork(activeNetworkDefs []entity.NetworkDefinition) (map[string][]entity.TokenInfo, error)
}
