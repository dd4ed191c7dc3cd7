package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is the subset of a hardhat build artifact this tool needs
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

type rawArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	art, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return art, nil
}

func ParseArtifact(data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact has no abi")
	}
	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}

	art := &Artifact{ContractName: raw.ContractName, ABI: parsed}
	if raw.Bytecode != "" && raw.Bytecode != "0x" {
		code, err := hexutil.Decode(raw.Bytecode)
		if err != nil {
			return nil, fmt.Errorf("decode bytecode: %w", err)
		}
		art.Bytecode = code
	}
	return art, nil
}
