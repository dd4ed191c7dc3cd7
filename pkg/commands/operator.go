package commands

import (
	"github.com/defi-vn/Farming-Smart-Contract/pkg/chain"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var OperatorCommand = &cli.Command{
	Name:  "operator",
	Usage: "Manages operators of deployed contracts",
	Subcommands: []*cli.Command{
		OperatorSetCommand,
	},
}

var OperatorSetCommand = &cli.Command{
	Name:  "set",
	Usage: "Grants operator rights on a contract from the deploy record",
	Flags: append([]cli.Flag{
		common.EnvironmentFlag,
		&cli.StringFlag{
			Name:     "contract",
			Usage:    "Contract name in the deploy record",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:     "operator",
			Usage:    "Operator address, repeat for several",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "artifact",
			Usage: "Artifact to take the ABI from instead of the built-in setOperators fragment",
		},
		networkFlag,
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)
		env := cCtx.String("env")
		name := cCtx.String("contract")

		var operators []ethcommon.Address
		for _, raw := range cCtx.StringSlice("operator") {
			addr, err := parseAddress("--operator", raw)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			operators = append(operators, addr)
		}
		flags := make([]bool, len(operators))
		for i := range flags {
			flags[i] = true
		}

		contractABI, err := abiFor(cCtx.String("artifact"), operatorABI)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}
		record, err := loadDeployRecord(cfg)
		if err != nil {
			return err
		}
		target, err := record.Address(env, name)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		networks, err := cfg.NetworkRegistry()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		account, err := loadAccount(cCtx, common.DeployerAccount)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		client := openChain(cCtx, networks)
		defer client.Close()

		chainID := networkFor(cCtx, env)
		logger.Info("Setting %d operator(s) on %s at %s", len(operators), name, target.Hex())
		hash, err := client.Write(cCtx.Context, chain.Call{
			ChainID: chainID,
			To:      target,
			ABI:     contractABI,
			Method:  "setOperators",
			Params:  []any{operators, flags},
		}, account)
		if err != nil {
			logger.Error("setOperators on %s failed: %v", name, err)
			return cli.Exit(err.Error(), 1)
		}
		logger.Info("Operators set on %s, tx %s", networks.Name(chainID), hash.Hex())
		return nil
	},
}
