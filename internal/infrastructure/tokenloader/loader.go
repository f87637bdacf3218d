package tokenloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pair_screener/internal/app/port"
	"pair_screener/internal/domain/entity"
	"pair_screener/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

const defaultTokenDirectoryPath = "data/tokens"

// solanaPubkeyLen is the decoded size of a Solana account address.
const solanaPubkeyLen = 32

// TokenFileLoader implements port.TokenProvider over per-chain JSON watchlists.
type TokenFileLoader struct {
	tokenDirPath string
	logger       port.Logger
}

// NewTokenLoader creates a new TokenFileLoader. An empty tokenDir falls back to data/tokens.
func NewTokenLoader(tokenDir string, logger port.Logger) *TokenFileLoader {
	if tokenDir == "" {
		tokenDir = defaultTokenDirectoryPath
	}
	return &TokenFileLoader{
		tokenDirPath: tokenDir,
		logger:       logger,
	}
}

// GetTokensByNetwork reads <identifier>.json for every active network, validates
// each entry and returns the survivors keyed by DEXScreener chain id.
// Malformed entries are skipped; an unreadable directory is an error.
func (l *TokenFileLoader) GetTokensByNetwork(activeNetworkDefs []entity.NetworkDefinition) (map[string][]entity.TokenInfo, error) {
	tokensByChainID := make(map[string][]entity.TokenInfo)

	if _, err := os.Stat(l.tokenDirPath); err != nil {
		return nil, fmt.Errorf("failed to read token directory %s: %w", l.tokenDirPath, err)
	}

	for _, networkDef := range activeNetworkDefs {
		filePath := filepath.Join(l.tokenDirPath, networkDef.Identifier+".json")

		tokensInFile, err := utils.LoadJSONFile[[]entity.TokenInfo](filePath)
		if err != nil {
			l.logger.Warn("Failed to load watchlist file, skipping network", "network", networkDef.Identifier, "error", err)
			continue
		}

		seen := make(map[string]struct{}, len(tokensInFile))
		valid := make([]entity.TokenInfo, 0, len(tokensInFile))
		for _, token := range tokensInFile {
			if token.ChainID == "" {
				token.ChainID = networkDef.DEXScreenerChainID
			}
			if token.ChainID != networkDef.DEXScreenerChainID {
				l.logger.Warn("Token has mismatched chain id in file, skipping token",
					"file", filePath, "token_symbol", token.Symbol,
					"token_chain_id", token.ChainID,
					"expected_chain_id", networkDef.DEXScreenerChainID)
				continue
			}

			normalized, err := NormalizeAddress(token.Address, networkDef.AddressFormat)
			if err != nil {
				l.logger.Warn("Invalid token address in watchlist, skipping token",
					"file", filePath, "token_symbol", token.Symbol, "error", err)
				continue
			}
			token.Address = normalized

			key := strings.ToLower(normalized)
			if _, dup := seen[key]; dup {
				l.logger.Debug("Duplicate watchlist entry, skipping", "file", filePath, "address", normalized)
				continue
			}
			seen[key] = struct{}{}
			valid = append(valid, token)
		}

		if len(valid) == 0 {
			l.logger.Info("No valid tokens in watchlist file", "network", networkDef.Identifier, "file", filePath)
			continue
		}
		tokensByChainID[networkDef.DEXScreenerChainID] = append(tokensByChainID[networkDef.DEXScreenerChainID], valid...)
		l.logger.Info("Loaded watchlist for network",
			"network", networkDef.Identifier,
			"file", filepath.Base(filePath),
			"count", len(valid))
	}

	if len(tokensByChainID) == 0 && len(activeNetworkDefs) > 0 {
		l.logger.Warn("No tokens were loaded for any active network", "token_directory", l.tokenDirPath)
	}

	return tokensByChainID, nil
}

// NormalizeAddress validates addr for the given format. EVM addresses come
// back EIP-55 checksummed; base58 addresses are returned unchanged.
func NormalizeAddress(addr string, format entity.AddressFormat) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("empty address")
	}

	switch format {
	case entity.AddressFormatEVM, "":
		if !common.IsHexAddress(addr) {
			return "", fmt.Errorf("not a hex address: %q", addr)
		}
		return common.HexToAddress(addr).Hex(), nil
	case entity.AddressFormatBase58:
		decoded, err := base58.Decode(addr)
		if err != nil {
			return "", fmt.Errorf("not a base58 address %q: %w", addr, err)
		}
		if len(decoded) != solanaPubkeyLen {
			return "", fmt.Errorf("base58 address %q decodes to %d bytes, want %d", addr, len(decoded), solanaPubkeyLen)
		}
		return addr, nil
	default:
		return "", fmt.Errorf("unknown address format %q", format)
	}
}
