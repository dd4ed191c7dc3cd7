package main

import (
	"context"
	"log"
	"os"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/commands"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/commands/keystore"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/commands/version"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/hooks"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx := common.WithShutdown(context.Background())

	app := &cli.App{
		Name:  "opskit",
		Usage: "Deploys and wires up the bridge and farming contracts",
		Flags: common.GlobalFlags,
		Before: func(cCtx *cli.Context) error {
			if err := hooks.LoadEnvFile(cCtx); err != nil {
				return err
			}
			common.WithAppEnvironment(cCtx)

			logger := common.GetLogger(common.IsVerboseEnabled(cCtx))
			cCtx.Context = common.WithLogger(cCtx.Context, logger)
			return nil
		},
		Commands: []*cli.Command{
			commands.InitCommand,
			commands.SetupContractsCommand,
			commands.FarmingCommand,
			commands.OperatorCommand,
			commands.OwnershipCommand,
			commands.DeployCommand,
			commands.ReadCommand,
			commands.ConfigCommand,
			keystore.KeystoreCommand,
			version.VersionCommand,
		},
		UseShortOptionHandling: true,
		// --arg values are passed through whole; list arguments are split later by the ABI coercion
		DisableSliceFlagSeparator: true,
	}

	hooks.ApplyMiddleware(app.Commands, hooks.WithTelemetry)

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
