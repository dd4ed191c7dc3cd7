package commands

import (
	"fmt"
	"strings"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/registry"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Fragments for the admin calls, used when no --artifact is given
const (
	operatorABIJSON = `[{"type":"function","name":"setOperators","stateMutability":"nonpayable",
		"inputs":[{"name":"operators","type":"address[]"},{"name":"isOperators","type":"bool[]"}],"outputs":[]}]`

	ownableABIJSON = `[
		{"type":"function","name":"transferOwnership","stateMutability":"nonpayable",
			"inputs":[{"name":"newOwner","type":"address"}],"outputs":[]},
		{"type":"function","name":"owner","stateMutability":"view",
			"inputs":[],"outputs":[{"name":"","type":"address"}]}]`
)

var (
	operatorABI = mustParseABI(operatorABIJSON)
	ownableABI  = mustParseABI(ownableABIJSON)
)

func mustParseABI(data string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in abi: %v", err))
	}
	return parsed
}

// abiFor returns the ABI of the artifact at path, or fallback when path is empty
func abiFor(path string, fallback abi.ABI) (abi.ABI, error) {
	if path == "" {
		return fallback, nil
	}
	art, err := registry.LoadArtifact(path)
	if err != nil {
		return abi.ABI{}, err
	}
	return art.ABI, nil
}
