package orchestrator

import "fmt"

const (
	bridgePrefix = "BRIDGE_"

	// TokenBridge is the fungible token bridge, the only kind that gets
	// counterparty tokens and seed liquidity
	TokenBridge = bridgePrefix + "20"
)

// BridgeName maps a token standard number to its bridge contract name
func BridgeName(kind string) string {
	return bridgePrefix + kind
}

// Pair is one (network, bridge contract) unit of work
type Pair struct {
	// NetworkIndex is the position of the network in the selection
	NetworkIndex int
	ChainID      uint64
	Contract     string
}

func (p Pair) String() string {
	return fmt.Sprintf("%s@%d", p.Contract, p.ChainID)
}

// Plan expands a selection network-major: every contract of the first network,
// then every contract of the second, and so on.
func Plan(sel Selection) []Pair {
	pairs := make([]Pair, 0, len(sel.Networks)*len(sel.Kinds))
	for i, chainID := range sel.Networks {
		for _, kind := range sel.Kinds {
			pairs = append(pairs, Pair{NetworkIndex: i, ChainID: chainID, Contract: BridgeName(kind)})
		}
	}
	return pairs
}
