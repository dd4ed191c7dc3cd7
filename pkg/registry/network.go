package registry

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownNetwork is returned when a chain ID has no network descriptor
var ErrUnknownNetwork = errors.New("unknown network")

// Network describes one chain the tool can talk to. Fee is the cross-chain fee
// charged when relaying toward this network.
type Network struct {
	ChainID uint64
	Name    string
	RPCURL  string
	Fee     int64
}

// NetworkRegistry is an immutable set of networks keyed by chain ID
type NetworkRegistry struct {
	byID map[uint64]Network
}

func NewNetworkRegistry(networks ...Network) (*NetworkRegistry, error) {
	byID := make(map[uint64]Network, len(networks))
	for _, n := range networks {
		if n.ChainID == 0 {
			return nil, fmt.Errorf("network %q: chain id must be set", n.Name)
		}
		if _, dup := byID[n.ChainID]; dup {
			return nil, fmt.Errorf("network %d declared twice", n.ChainID)
		}
		if n.Name == "" {
			n.Name = fmt.Sprintf("chain-%d", n.ChainID)
		}
		byID[n.ChainID] = n
	}
	return &NetworkRegistry{byID: byID}, nil
}

func (r *NetworkRegistry) Lookup(chainID uint64) (Network, error) {
	n, ok := r.byID[chainID]
	if !ok {
		return Network{}, fmt.Errorf("%w: %d", ErrUnknownNetwork, chainID)
	}
	return n, nil
}

// Name returns the display name of a chain, falling back to its numeric ID
func (r *NetworkRegistry) Name(chainID uint64) string {
	if n, ok := r.byID[chainID]; ok {
		return n.Name
	}
	return fmt.Sprintf("chain-%d", chainID)
}

// All returns the networks ordered by chain ID
func (r *NetworkRegistry) All() []Network {
	out := make([]Network, 0, len(r.byID))
	for _, n := range r.byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}
