package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"pair_screener/internal/domain/entity"
	"pair_screener/internal/infrastructure/network/definition"
	"pair_screener/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		format  entity.AddressFormat
		want    string
		wantErr bool
	}{
		{"evm lower is checksummed", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", entity.AddressFormatEVM, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"evm short", "0x1234", entity.AddressFormatEVM, "", true},
		{"evm empty", "  ", entity.AddressFormatEVM, "", true},
		{"solana mint", "So11111111111111111111111111111111111111112", entity.AddressFormatBase58, "So11111111111111111111111111111111111111112", false},
		{"solana bad alphabet", "0OIl0OIl", entity.AddressFormatBase58, "", true},
		{"solana wrong length", "abc", entity.AddressFormatBase58, "", true},
		{"unknown format", "x", entity.AddressFormat("tron"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAddress(tt.addr, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetTokensByNetwork(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ethereum.json", `[
		{"address": "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "symbol": "AAA", "verified": true},
		{"address": "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", "symbol": "AAA-dup"},
		{"address": "not-an-address", "symbol": "BAD"},
		{"chainId": "bsc", "address": "0xfb6115445bff7b52feb98650c87f44907e58f802", "symbol": "WRONGCHAIN"}
	]`)
	writeFile(t, dir, "solana.json", `[{"chainId": "solana", "address": "So11111111111111111111111111111111111111112", "symbol": "SOL"}]`)
	writeFile(t, dir, "base.json", `{broken`)

	loader := NewTokenLoader(dir, logger.NewSlogAdapter())
	got, err := loader.GetTokensByNetwork([]entity.NetworkDefinition{
		networkdefinition.Ethereum, networkdefinition.Solana, networkdefinition.Base,
	})
	require.NoError(t, err)

	require.Len(t, got["ethereum"], 1)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", got["ethereum"][0].Address)
	assert.Equal(t, "ethereum", got["ethereum"][0].ChainID)
	assert.True(t, got["ethereum"][0].Verified)

	require.Len(t, got["solana"], 1)
	assert.NotContains(t, got, "base")
}

func TestGetTokensByNetwork_MissingDirectory(t *testing.T) {
	loader := NewTokenLoader(filepath.Join(t.TempDir(), "nope"), logger.NewSlogAdapter())
	_, err := loader.GetTokensByNetwork([]entity.NetworkDefinition{networkdefinition.Ethereum})
	assert.Error(t, err)
}
