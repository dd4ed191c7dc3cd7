package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/farming"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/registry"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Deploy record names of the farming contracts
const (
	FarmingFactoryName = "FarmingFactory"
	RewardTokenName    = "DFYToken"
)

var FarmingCommand = &cli.Command{
	Name:  "farming",
	Usage: "Creates and funds SavingFarming and LockFarming pools",
	Subcommands: []*cli.Command{
		FarmingSetupCommand,
	},
}

var FarmingSetupCommand = &cli.Command{
	Name:      "setup",
	Usage:     "Creates the farming pools of every LP token and approves the reward token for them",
	ArgsUsage: "<environment>",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "skip-create",
			Usage: "Only approve rewards for pools that already exist",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the farms found to this file (Farming-contracts.json layout)",
		},
	}, common.GlobalFlags...),
	Action: farmingSetupAction,
}

func farmingSetupAction(cCtx *cli.Context) error {
	logger := common.LoggerFromContext(cCtx.Context)

	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	env := cCtx.Args().First()
	if !cfg.HasEnvironment(env) {
		logger.Error("%v", farming.ErrWrongEnvironment)
		return cli.Exit(farming.ErrWrongEnvironment.Error(), 1)
	}

	params, err := farmingParams(cCtx, cfg, env)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	networks, err := cfg.NetworkRegistry()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	client := openChain(cCtx, networks)
	defer client.Close()

	farmer, err := farming.NewFarmer(client, logger, params)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	logger.Info("%s farms on %s", cases.Title(language.English).String(env), networks.Name(farmer.ChainID()))

	var errs []error
	if !cCtx.Bool("skip-create") {
		if err := farmer.CreatePools(cCtx.Context); err != nil {
			errs = append(errs, err)
		}
	}
	pools, err := farmer.ApproveRewards(cCtx.Context)
	if err != nil {
		errs = append(errs, err)
	}

	out, err := json.MarshalIndent(pools, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cCtx.App.Writer, string(out))

	if path := cCtx.String("output"); path != "" {
		if err := farming.NewFarmsFile(pools).Save(path); err != nil {
			logger.Error("failed to write %s: %v", path, err)
		} else {
			logger.Info("Farms written to %s", path)
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("%v", err)
		return cli.Exit("farming setup finished with errors", 1)
	}
	return nil
}

func farmingParams(cCtx *cli.Context, cfg *common.Config, env string) (farming.Params, error) {
	fc := cfg.Farming
	params := farming.Params{
		Environment:   env,
		SupportedEnvs: cfg.Environments,
		LockTypes:     fc.LockTypes,
	}

	record, err := loadDeployRecord(cfg)
	if err != nil {
		return params, err
	}
	if params.Factory, err = record.Address(env, FarmingFactoryName); err != nil {
		return params, err
	}
	if params.Token, err = record.Address(env, RewardTokenName); err != nil {
		return params, err
	}

	factoryArt, err := registry.LoadArtifact(fc.FactoryArtifact)
	if err != nil {
		return params, err
	}
	params.FactoryABI = factoryArt.ABI
	tokenArt, err := registry.LoadArtifact(fc.TokenArtifact)
	if err != nil {
		return params, err
	}
	params.TokenABI = tokenArt.ABI

	if params.TotalRewardPerMonth, err = parseAmount("farming.total_reward_per_month", fc.TotalRewardPerMonth); err != nil {
		return params, err
	}
	if params.ApproveAmount, err = parseAmount("farming.approve_amount", fc.ApproveAmount); err != nil {
		return params, err
	}
	for i, lp := range fc.LPTokens {
		addr, err := parseAddress(fmt.Sprintf("farming.lp_tokens[%d].pair", i), lp.Pair)
		if err != nil {
			return params, err
		}
		params.LPTokens = append(params.LPTokens, addr)
	}

	if params.Deployer, err = loadAccount(cCtx, common.DeployerAccount); err != nil {
		return params, err
	}
	if params.RewardWallet, err = loadAccount(cCtx, common.RewardWalletAccount); err != nil {
		return params, err
	}
	return params, nil
}
