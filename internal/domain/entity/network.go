package entity

// AddressFormat describes how token and pair addresses are encoded on a chain.
type AddressFormat string

const (
	AddressFormatEVM    AddressFormat = "evm"
	AddressFormatBase58 AddressFormat = "base58"
)

// NetworkDefinition describes a chain the screener can pull pairs from.
type NetworkDefinition struct {
	Identifier         string        `json:"identifier" yaml:"identifier"` // e.g. "ethereum", "bsc"
	Name               string        `json:"name" yaml:"name"`
	DEXScreenerChainID string        `json:"dexScreenerChainId" yaml:"dexScreenerChainId"`
	NativeSymbol       string        `json:"nativeSymbol" yaml:"nativeSymbol"`
	WrappedNative      string        `json:"wrappedNative" yaml:"wrappedNative"`
	AddressFormat      AddressFormat `json:"addressFormat" yaml:"addressFormat"`
	BlockExplorerURL   string        `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}
