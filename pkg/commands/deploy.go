package commands

import (
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/registry"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var DeployCommand = &cli.Command{
	Name:  "deploy",
	Usage: "Deploys contracts and keeps the deploy record up to date",
	Subcommands: []*cli.Command{
		DeployContractCommand,
		DeployRecordProxyCommand,
		DeployListCommand,
	},
}

var DeployContractCommand = &cli.Command{
	Name:  "contract",
	Usage: "Deploys the bytecode of a build artifact and records its address",
	Flags: append([]cli.Flag{
		common.EnvironmentFlag,
		&cli.StringFlag{
			Name:     "artifact",
			Usage:    "Path to the hardhat artifact JSON",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Name to record the contract under (defaults to the artifact contractName)",
		},
		argFlag,
		networkFlag,
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)
		env := cCtx.String("env")

		art, err := registry.LoadArtifact(cCtx.String("artifact"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		name := cCtx.String("name")
		if name == "" {
			name = art.ContractName
		}
		if name == "" {
			return cli.Exit("artifact has no contractName, pass --name", 1)
		}

		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}
		record, err := loadDeployRecord(cfg)
		if err != nil {
			return err
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
		logger.Info("Deploying %s to %s...", name, networks.Name(chainID))
		addr, hash, err := client.Deploy(cCtx.Context, chainID, art, account, stringArgs(cCtx.StringSlice("arg"))...)
		if err != nil {
			logger.Error("Deploying %s failed: %v", name, err)
			return cli.Exit(err.Error(), 1)
		}
		logger.Info("%s deployed at %s (tx %s)", name, addr.Hex(), hash.Hex())

		record.SetAddress(env, name, addr)
		if err := record.Save(); err != nil {
			logger.Error("%v", err)
		}
		return nil
	},
}

var DeployRecordProxyCommand = &cli.Command{
	Name:  "record-proxy",
	Usage: "Records an upgradeable proxy together with its current implementation",
	Flags: append([]cli.Flag{
		common.EnvironmentFlag,
		&cli.StringFlag{
			Name:     "name",
			Usage:    "Name to record the proxy under",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "proxy",
			Usage:    "Proxy address",
			Required: true,
		},
		networkFlag,
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)
		env := cCtx.String("env")
		name := cCtx.String("name")

		proxy, err := parseAddress("--proxy", cCtx.String("proxy"))
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
		networks, err := cfg.NetworkRegistry()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		client := openChain(cCtx, networks)
		defer client.Close()

		logic, err := client.ImplementationAddress(cCtx.Context, networkFor(cCtx, env), proxy)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		logger.Info("%s proxy %s uses implementation %s", name, proxy.Hex(), logic.Hex())

		record.SetProxy(env, name, proxy, logic)
		if err := record.Save(); err != nil {
			logger.Error("%v", err)
		}
		return nil
	},
}

var DeployListCommand = &cli.Command{
	Name:  "list",
	Usage: "Shows the contracts recorded for an environment",
	Flags: append([]cli.Flag{
		common.EnvironmentFlag,
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		env := cCtx.String("env")
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}
		record, err := loadDeployRecord(cfg)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cCtx.App.Writer)
		table.SetHeader([]string{"Contract", "Address", "Implementation"})
		table.SetAutoFormatHeaders(false)
		for _, name := range record.Contracts(env) {
			entry, _ := record.Entry(env, name)
			logic := "-"
			if entry.IsProxy() {
				logic = entry.Logic.Hex()
			}
			table.Append([]string{name, entry.Target().Hex(), logic})
		}
		table.Render()
		return nil
	},
}
