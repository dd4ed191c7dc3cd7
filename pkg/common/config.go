package common

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/defi-vn/Farming-Smart-Contract/config"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/registry"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when --config is not given and the file exists
var DefaultConfigPath = filepath.Join("config", "opskit.yaml")

type NetworkConfig struct {
	ChainID uint64 `json:"chain_id" yaml:"chain_id" toml:"chain_id"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	RPCURL  string `json:"rpc_url" yaml:"rpc_url" toml:"rpc_url"`
	Fee     int64  `json:"fee" yaml:"fee" toml:"fee"`
}

type ContractConfig struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Artifact string `json:"artifact" yaml:"artifact" toml:"artifact"`
	// Addresses maps a decimal chain id to the deployed (proxy) address
	Addresses map[string]string `json:"addresses" yaml:"addresses" toml:"addresses"`
}

type BridgeConfig struct {
	TokenContract string `json:"token_contract" yaml:"token_contract" toml:"token_contract"`
	SeedLiquidity string `json:"seed_liquidity" yaml:"seed_liquidity" toml:"seed_liquidity"`
}

type LPToken struct {
	Pair   string `json:"pair" yaml:"pair" toml:"pair"`
	Router string `json:"router" yaml:"router" toml:"router"`
}

type FarmingConfig struct {
	FactoryArtifact     string    `json:"factory_artifact" yaml:"factory_artifact" toml:"factory_artifact"`
	TokenArtifact       string    `json:"token_artifact" yaml:"token_artifact" toml:"token_artifact"`
	ApproveAmount       string    `json:"approve_amount" yaml:"approve_amount" toml:"approve_amount"`
	TotalRewardPerMonth string    `json:"total_reward_per_month" yaml:"total_reward_per_month" toml:"total_reward_per_month"`
	LockTypes           int       `json:"lock_types" yaml:"lock_types" toml:"lock_types"`
	LPTokens            []LPToken `json:"lp_tokens" yaml:"lp_tokens" toml:"lp_tokens"`
}

type Config struct {
	Version      string           `json:"version" yaml:"version" toml:"version"`
	DeployRecord string           `json:"deploy_record" yaml:"deploy_record" toml:"deploy_record"`
	Parallelism  int              `json:"parallelism" yaml:"parallelism" toml:"parallelism"`
	Oracles      []string         `json:"oracles" yaml:"oracles" toml:"oracles"`
	Networks     []NetworkConfig  `json:"networks" yaml:"networks" toml:"networks"`
	Bridge       BridgeConfig     `json:"bridge" yaml:"bridge" toml:"bridge"`
	Contracts    []ContractConfig `json:"contracts" yaml:"contracts" toml:"contracts"`
	Environments []string         `json:"environments" yaml:"environments" toml:"environments"`
	Farming      FarmingConfig    `json:"farming" yaml:"farming" toml:"farming"`

	// source is the file the config was read from, empty for the embedded default
	source string
}

// LoadConfig reads the config at path. An empty path falls back to
// DefaultConfigPath and then to the embedded default.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err != nil {
			return ParseConfig([]byte(config.DefaultConfigYaml), "yaml")
		}
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := ParseConfig(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.source = path
	return cfg, nil
}

// ParseConfig decodes yaml (yml) or toml data and validates it
func ParseConfig(data []byte, format string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if cfg.Parallelism == 0 {
		cfg.Parallelism = 1
	}
	if cfg.DeployRecord == "" {
		cfg.DeployRecord = "deploy.json"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Source() string {
	if c.source == "" {
		return "(embedded default)"
	}
	return c.source
}

func (c *Config) Validate() error {
	var errs []error
	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	for _, o := range c.Oracles {
		if !common.IsHexAddress(o) {
			errs = append(errs, fmt.Errorf("oracle %q is not an address", o))
		}
	}
	if c.Bridge.SeedLiquidity != "" {
		if _, ok := new(big.Int).SetString(c.Bridge.SeedLiquidity, 10); !ok {
			errs = append(errs, fmt.Errorf("bridge.seed_liquidity %q is not a decimal amount", c.Bridge.SeedLiquidity))
		}
	}
	for _, lp := range c.Farming.LPTokens {
		if !common.IsHexAddress(lp.Pair) {
			errs = append(errs, fmt.Errorf("farming lp token %q is not an address", lp.Pair))
		}
	}
	return errors.Join(errs...)
}

// OracleAddresses returns the configured oracles as addresses
func (c *Config) OracleAddresses() []common.Address {
	out := make([]common.Address, 0, len(c.Oracles))
	for _, o := range c.Oracles {
		out = append(out, common.HexToAddress(o))
	}
	return out
}

// NetworkRegistry builds the network set, expanding ${VAR} references in RPC URLs
func (c *Config) NetworkRegistry() (*registry.NetworkRegistry, error) {
	networks := make([]registry.Network, 0, len(c.Networks))
	for _, n := range c.Networks {
		networks = append(networks, registry.Network{
			ChainID: n.ChainID,
			Name:    n.Name,
			RPCURL:  expandRPCURL(n.RPCURL),
			Fee:     n.Fee,
		})
	}
	return registry.NewNetworkRegistry(networks...)
}

// expandRPCURL substitutes env vars. A URL that references an unset or empty
// variable, e.g. INFURA_API_KEY, is dropped so the chain fails at dial time.
func expandRPCURL(raw string) string {
	missing := false
	expanded := os.Expand(raw, func(name string) string {
		v := os.Getenv(name)
		if v == "" {
			missing = true
		}
		return v
	})
	if missing {
		return ""
	}
	return strings.TrimSpace(expanded)
}

// ContractConfig returns the entry for name
func (c *Config) ContractConfig(name string) (ContractConfig, error) {
	for _, cc := range c.Contracts {
		if cc.Name == name {
			return cc, nil
		}
	}
	return ContractConfig{}, fmt.Errorf("%w: %s", registry.ErrUnknownContract, name)
}

// ContractRegistry loads the artifacts of the named contracts and builds the registry
func (c *Config) ContractRegistry(names ...string) (*registry.ContractRegistry, error) {
	contracts := make([]registry.Contract, 0, len(names))
	for _, name := range names {
		cc, err := c.ContractConfig(name)
		if err != nil {
			return nil, err
		}
		art, err := registry.LoadArtifact(cc.Artifact)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", name, err)
		}
		addrs, err := cc.ParseAddresses()
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", name, err)
		}
		contracts = append(contracts, registry.Contract{Name: name, ABI: art.ABI, Addresses: addrs})
	}
	return registry.NewContractRegistry(contracts...)
}

// ParseAddresses converts the chain id keyed address table. Empty values are skipped.
func (cc ContractConfig) ParseAddresses() (map[uint64]common.Address, error) {
	out := make(map[uint64]common.Address, len(cc.Addresses))
	for id, addr := range cc.Addresses {
		chainID, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %q", id)
		}
		addr = os.ExpandEnv(addr)
		if addr == "" {
			continue
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid address %q for chain %d", addr, chainID)
		}
		out[chainID] = common.HexToAddress(addr)
	}
	return out, nil
}

// HasEnvironment reports whether env is one of the configured deployment environments
func (c *Config) HasEnvironment(env string) bool {
	for _, e := range c.Environments {
		if e == env {
			return true
		}
	}
	return false
}
