package commands

import (
	"fmt"
	"math/big"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/orchestrator"

	"github.com/urfave/cli/v2"
)

// SetupContractsCommand configures bridge contracts on every selected network
var SetupContractsCommand = &cli.Command{
	Name:      "setup-contracts",
	Usage:     "Registers oracles, cross-chain fees, counterparty tokens and seed liquidity on bridge contracts",
	UsageText: "opskit setup-contracts --contracts <standard...> --networks <chainId...>",
	// --contracts and --networks take a variable number of values each
	SkipFlagParsing: true,
	Action:          setupContractsAction,
}

func setupContractsAction(cCtx *cli.Context) error {
	logger := common.LoggerFromContext(cCtx.Context)

	sel, err := orchestrator.ParseSelection(cCtx.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	networks, err := cfg.NetworkRegistry()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	names := uniqueNames(sel.ContractNames())
	for _, n := range names {
		if n == orchestrator.TokenBridge {
			names = append(names, cfg.Bridge.TokenContract)
			break
		}
	}
	contracts, err := cfg.ContractRegistry(names...)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	account, err := loadAccount(cCtx, common.DeployerAccount)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	var seed *big.Int
	if cfg.Bridge.SeedLiquidity != "" {
		if seed, err = parseAmount("bridge.seed_liquidity", cfg.Bridge.SeedLiquidity); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	client := openChain(cCtx, networks)
	defer client.Close()

	setup := &orchestrator.Setup{
		Caller:        client,
		Networks:      networks,
		Contracts:     contracts,
		Account:       account,
		Logger:        logger,
		Oracles:       cfg.OracleAddresses(),
		TokenContract: cfg.Bridge.TokenContract,
		SeedAmount:    seed,
		Parallelism:   cfg.Parallelism,
	}
	if err := setup.Validate(sel); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger.Debug("Setting up %d contract(s) on %d network(s) from %s", len(sel.Kinds), len(sel.Networks), account.Address.Hex())
	report := setup.Run(cCtx.Context, sel)
	report.Render(cCtx.App.Writer, networks.Name)

	if failed := report.Count(orchestrator.StatusFailed); failed > 0 {
		return cli.Exit(fmt.Sprintf("%d step(s) failed", failed), 1)
	}
	if cCtx.Context.Err() != nil {
		return cli.Exit("interrupted", 1)
	}
	return nil
}

func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
