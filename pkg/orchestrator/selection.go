package orchestrator

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

const (
	ContractsFlag = "--contracts"
	NetworksFlag  = "--networks"
)

// ErrMissingFlag matches every MissingFlagError
var ErrMissingFlag = errors.New("missing required option")

// MissingFlagError names the option absent from the command line
type MissingFlagError struct {
	Flag string
}

func (e *MissingFlagError) Error() string {
	return "Please provide the option " + e.Flag
}

func (e *MissingFlagError) Is(target error) bool {
	return target == ErrMissingFlag
}

// Selection is what setup-contracts was asked to touch: contract kinds
// ("20", "721", "1155") and chain ids, both in command-line order.
type Selection struct {
	Kinds    []string
	Networks []uint64
}

// ParseSelection reads "--contracts <kind...> --networks <chainId...>" in
// either order. The values of the first flag run up to the second flag, the
// values of the second run to the end of args.
func ParseSelection(args []string) (Selection, error) {
	contractIdx := slices.Index(args, ContractsFlag)
	if contractIdx < 0 {
		return Selection{}, &MissingFlagError{Flag: ContractsFlag}
	}
	networkIdx := slices.Index(args, NetworksFlag)
	if networkIdx < 0 {
		return Selection{}, &MissingFlagError{Flag: NetworksFlag}
	}

	var kinds, networks []string
	if contractIdx > networkIdx {
		networks = args[networkIdx+1 : contractIdx]
		kinds = args[contractIdx+1:]
	} else {
		kinds = args[contractIdx+1 : networkIdx]
		networks = args[networkIdx+1:]
	}

	if len(kinds) == 0 {
		return Selection{}, fmt.Errorf("option %s needs at least one contract standard", ContractsFlag)
	}
	if len(networks) == 0 {
		return Selection{}, fmt.Errorf("option %s needs at least one chain id", NetworksFlag)
	}

	sel := Selection{Kinds: append([]string(nil), kinds...)}
	for _, n := range networks {
		id, err := strconv.ParseUint(n, 10, 64)
		if err != nil || id == 0 {
			return Selection{}, fmt.Errorf("invalid chain id %q for %s", n, NetworksFlag)
		}
		sel.Networks = append(sel.Networks, id)
	}
	return sel, nil
}

// ContractNames returns the bridge contract name of every selected kind
func (s Selection) ContractNames() []string {
	names := make([]string, 0, len(s.Kinds))
	for _, k := range s.Kinds {
		names = append(names, BridgeName(k))
	}
	return names
}
