package registry

import (
	"errors"
	"fmt"
	"maps"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnknownContract is returned for a logical contract name missing from the registry
	ErrUnknownContract = errors.New("unknown contract")

	// ErrNoAddress is returned when a contract has no deployment on the requested chain
	ErrNoAddress = errors.New("contract not deployed on chain")
)

// Contract is a logical contract: its interface plus where it lives on each chain
type Contract struct {
	Name      string
	ABI       abi.ABI
	Addresses map[uint64]common.Address
}

func (c Contract) AddressOn(chainID uint64) (common.Address, error) {
	addr, ok := c.Addresses[chainID]
	if !ok || addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s on %d", ErrNoAddress, c.Name, chainID)
	}
	return addr, nil
}

type ContractRegistry struct {
	byName map[string]Contract
}

func NewContractRegistry(contracts ...Contract) (*ContractRegistry, error) {
	byName := make(map[string]Contract, len(contracts))
	for _, c := range contracts {
		if c.Name == "" {
			return nil, errors.New("contract name must be set")
		}
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("contract %q declared twice", c.Name)
		}
		addrs := make(map[uint64]common.Address, len(c.Addresses))
		for id, a := range c.Addresses {
			addrs[id] = a
		}
		c.Addresses = addrs
		byName[c.Name] = c
	}
	return &ContractRegistry{byName: byName}, nil
}

func (r *ContractRegistry) Lookup(name string) (Contract, error) {
	c, ok := r.byName[name]
	if !ok {
		return Contract{}, fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	c.Addresses = maps.Clone(c.Addresses)
	return c, nil
}

// Names returns the registered contract names in lexical order
func (r *ContractRegistry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
