package commands

import (
	"context"
	"fmt"
	"math/big"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/chain"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/deployinfo"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/farming"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/registry"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

// Chain is the transaction client surface the commands use
type Chain interface {
	chain.Caller
	Deploy(ctx context.Context, chainID uint64, art *registry.Artifact, from *chain.Account, params ...any) (ethcommon.Address, ethcommon.Hash, error)
	ImplementationAddress(ctx context.Context, chainID uint64, proxy ethcommon.Address) (ethcommon.Address, error)
	Close()
}

type chainContextKey struct{}

// WithChain makes commands use c instead of dialing the configured RPC endpoints
func WithChain(ctx context.Context, c Chain) context.Context {
	return context.WithValue(ctx, chainContextKey{}, c)
}

func openChain(cCtx *cli.Context, networks *registry.NetworkRegistry) Chain {
	if c, ok := cCtx.Context.Value(chainContextKey{}).(Chain); ok {
		return c
	}
	return chain.NewClient(networks, common.LoggerFromContext(cCtx.Context))
}

type accountLoader func(n int) (*chain.Account, error)

type accountContextKey struct{}

// WithAccounts replaces the environment based account loader
func WithAccounts(ctx context.Context, load func(n int) (*chain.Account, error)) context.Context {
	return context.WithValue(ctx, accountContextKey{}, accountLoader(load))
}

func loadAccount(cCtx *cli.Context, n int) (*chain.Account, error) {
	if load, ok := cCtx.Context.Value(accountContextKey{}).(accountLoader); ok {
		return load(n)
	}
	return common.LoadAccount(n)
}

func loadConfig(cCtx *cli.Context) (*common.Config, error) {
	cfg, err := common.LoadConfig(configPath(cCtx))
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	common.LoggerFromContext(cCtx.Context).Debug("Using config %s", cfg.Source())
	return cfg, nil
}

// configPath returns the innermost --config that was given, on the command or the app
func configPath(cCtx *cli.Context) string {
	for _, c := range cCtx.Lineage() {
		if c.IsSet("config") {
			return c.String("config")
		}
	}
	return ""
}

func loadDeployRecord(cfg *common.Config) (*deployinfo.Store, error) {
	store, err := deployinfo.Load(cfg.DeployRecord)
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	return store, nil
}

// networkFor returns --network, or the chain the environment is deployed on
func networkFor(cCtx *cli.Context, env string) uint64 {
	if cCtx.IsSet("network") {
		return cCtx.Uint64("network")
	}
	return farming.ChainFor(env)
}

func parseAmount(name, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%s: invalid amount %q", name, value)
	}
	return n, nil
}

func parseAddress(name, value string) (ethcommon.Address, error) {
	if !ethcommon.IsHexAddress(value) {
		return ethcommon.Address{}, fmt.Errorf("%s: invalid address %q", name, value)
	}
	return ethcommon.HexToAddress(value), nil
}

// stringArgs converts --arg values for CoerceArgs
func stringArgs(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var networkFlag = &cli.Uint64Flag{
	Name:    "network",
	Aliases: []string{"n"},
	Usage:   "Chain id to send to (defaults to 56 for pre-live/live, 97 otherwise)",
}

var argFlag = &cli.StringSliceFlag{
	Name:  "arg",
	Usage: "Method or constructor argument, repeat in order; lists are comma separated",
}
