package farming

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
)

// FarmsFile is the Farming-contracts.json layout consumed by ownership transfers
type FarmsFile struct {
	Farms []FarmSet `json:"Farms"`
}

type FarmSet struct {
	LPToken       string        `json:"LpToken,omitempty"`
	SavingFarming []FarmAddress `json:"SavingFarming"`
	LockFarming   []FarmAddress `json:"LockFarming"`
}

type FarmAddress struct {
	Address string `json:"Address"`
}

// NewFarmsFile converts the pools found by ApproveRewards
func NewFarmsFile(pools []Pool) FarmsFile {
	out := FarmsFile{Farms: make([]FarmSet, 0, len(pools))}
	for _, p := range pools {
		set := FarmSet{LPToken: p.LPToken.Hex(), LockFarming: []FarmAddress{}}
		if p.SavingFarming != (common.Address{}) {
			set.SavingFarming = []FarmAddress{{Address: p.SavingFarming.Hex()}}
		} else {
			set.SavingFarming = []FarmAddress{}
		}
		for _, l := range p.LockFarming {
			set.LockFarming = append(set.LockFarming, FarmAddress{Address: l.Hex()})
		}
		out.Farms = append(out.Farms, set)
	}
	return out
}

func LoadFarmsFile(path string) (FarmsFile, error) {
	var f FarmsFile
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("failed to read farms file: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse farms file %s: %w", path, err)
	}
	return f, nil
}

func (f FarmsFile) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Farm is one farm contract listed in a farms file
type Farm struct {
	Kind    string
	Address common.Address
}

// Contracts flattens the file: per LP token, its SavingFarming then its LockFarming contracts
func (f FarmsFile) Contracts() ([]Farm, error) {
	var out []Farm
	for _, set := range f.Farms {
		for _, group := range []struct {
			kind  string
			addrs []FarmAddress
		}{
			{"SavingFarming", set.SavingFarming},
			{"LockFarming", set.LockFarming},
		} {
			for _, a := range group.addrs {
				if !common.IsHexAddress(a.Address) {
					return nil, fmt.Errorf("invalid %s address %q", group.kind, a.Address)
				}
				out = append(out, Farm{Kind: group.kind, Address: common.HexToAddress(a.Address)})
			}
		}
	}
	return out, nil
}
