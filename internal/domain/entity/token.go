package entity

// TokenInfo is one watchlist entry: a base token whose pairs are tracked.
type TokenInfo struct {
	ChainID  string `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Verified bool   `json:"verified"`
}
