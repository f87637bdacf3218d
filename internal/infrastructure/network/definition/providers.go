package networkdefinition

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"pair_screener/internal/app/port"
	"pair_screener/internal/domain/entity"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger            port.Logger
	allNetworkDefs    map[string]entity.NetworkDefinition
	activeNetworkDefs []entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		Identifier:         "ethereum",
		Name:               "Ethereum Mainnet",
		DEXScreenerChainID: "ethereum",
		NativeSymbol:       "ETH",
		WrappedNative:      "WETH",
		AddressFormat:      entity.AddressFormatEVM,
		BlockExplorerURL:   "https://etherscan.io",
	}
	BSC = entity.NetworkDefinition{
		Identifier:         "bsc",
		Name:               "BNB Smart Chain",
		DEXScreenerChainID: "bsc",
		NativeSymbol:       "BNB",
		WrappedNative:      "WBNB",
		AddressFormat:      entity.AddressFormatEVM,
		BlockExplorerURL:   "https://bscscan.com",
	}
	Base = entity.NetworkDefinition{
		Identifier:         "base",
		Name:               "Base Mainnet",
		DEXScreenerChainID: "base",
		NativeSymbol:       "ETH",
		WrappedNative:      "WETH",
		AddressFormat:      entity.AddressFormatEVM,
		BlockExplorerURL:   "https://basescan.org",
	}
	Arbitrum = entity.NetworkDefinition{
		Identifier:         "arbitrum",
		Name:               "Arbitrum One",
		DEXScreenerChainID: "arbitrum",
		NativeSymbol:       "ETH",
		WrappedNative:      "WETH",
		AddressFormat:      entity.AddressFormatEVM,
		BlockExplorerURL:   "https://arbiscan.io",
	}
	Polygon = entity.NetworkDefinition{
		Identifier:         "polygon",
		Name:               "Polygon PoS",
		DEXScreenerChainID: "polygon",
		NativeSymbol:       "POL",
		WrappedNative:      "WPOL",
		AddressFormat:      entity.AddressFormatEVM,
		BlockExplorerURL:   "https://polygonscan.com",
	}
	Avalanche = entity.NetworkDefinition{
		Identifier:         "avalanche",
		Name:               "Avalanche C-Chain",
		DEXScreenerChainID: "avalanche",
		NativeSymbol:       "AVAX",
		WrappedNative:      "WAVAX",
		AddressFormat:      entity.AddressFormatEVM,
		BlockExplorerURL:   "https://snowtrace.io",
	}
	Optimism = entity.NetworkDefinition{
		Identifier:         "optimism",
		Name:               "OP Mainnet",
		DEXScreenerChainID: "optimism",
		NativeSymbol:       "ETH",
		WrappedNative:      "WETH",
		AddressFormat:      entity.AddressFormatEVM,
		BlockExplorerURL:   "https://optimistic.etherscan.io",
	}
	Solana = entity.NetworkDefinition{
		Identifier:         "solana",
		Name:               "Solana",
		DEXScreenerChainID: "solana",
		NativeSymbol:       "SOL",
		WrappedNative:      "SOL",
		AddressFormat:      entity.AddressFormatBase58,
		BlockExplorerURL:   "https://solscan.io",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Ethereum.Identifier:  Ethereum,
	BSC.Identifier:       BSC,
	Base.Identifier:      Base,
	Arbitrum.Identifier:  Arbitrum,
	Polygon.Identifier:   Polygon,
	Avalanche.Identifier: Avalanche,
	Optimism.Identifier:  Optimism,
	Solana.Identifier:    Solana,
}

// KnownDefinition looks a network up among all hardcoded definitions, active or not.
func KnownDefinition(identifier string) (entity.NetworkDefinition, bool) {
	def, ok := allKnownDefinitions[strings.ToLower(identifier)]
	return def, ok
}

// NewNetworkDefinitionProvider creates a provider whose active networks are the
// ones having a watchlist file <identifier>.json in tokenDataDir.
func NewNetworkDefinitionProvider(log port.Logger, tokenDataDir string) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:            log,
		allNetworkDefs:    allKnownDefinitions,
		activeNetworkDefs: make([]entity.NetworkDefinition, 0),
	}

	files, err := os.ReadDir(tokenDataDir)
	if err != nil {
		p.logger.Error(fmt.Sprintf("Failed to read token data directory: %s", tokenDataDir), "error", err)
		return p
	}

	activeIdentifiers := make(map[string]struct{})

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".json") {
			continue
		}

		identifier := strings.TrimSuffix(strings.ToLower(file.Name()), ".json")

		if _, alreadyActive := activeIdentifiers[identifier]; alreadyActive {
			p.logger.Warn("Duplicate watchlist file for network, skipping", "identifier", identifier)
			continue
		}

		def, ok := p.allNetworkDefs[identifier]
		if !ok {
			p.logger.Warn("Watchlist file found for unknown network, skipping", "identifier", identifier, "file", file.Name())
			continue
		}

		p.activeNetworkDefs = append(p.activeNetworkDefs, def)
		activeIdentifiers[identifier] = struct{}{}
		p.logger.Debug("Network activated by watchlist file", "network", def.Name, "file", file.Name())
	}

	sort.Slice(p.activeNetworkDefs, func(i, j int) bool {
		return p.activeNetworkDefs[i].Identifier < p.activeNetworkDefs[j].Identifier
	})

	if len(p.activeNetworkDefs) == 0 {
		p.logger.Warn("No watchlist files matched a known network. No networks will be active.", "directory", tokenDataDir)
	} else {
		p.logger.Info("NetworkDefinitionProvider initialized", "active_networks", len(p.activeNetworkDefs))
	}

	return p
}

// GetAllNetworkDefinitions returns the list of active (tracked) network definitions.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defsCopy := make([]entity.NetworkDefinition, len(p.activeNetworkDefs))
	copy(defsCopy, p.activeNetworkDefs)
	return defsCopy
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier if it's active.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.activeNetworkDefs {
		if def.Identifier == identifier {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}
