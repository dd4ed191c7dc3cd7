package commands

import (
	"fmt"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/chain"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"

	"github.com/urfave/cli/v2"
)

var ReadCommand = &cli.Command{
	Name:  "read",
	Usage: "Calls a view method of a configured contract and prints the result",
	Flags: append([]cli.Flag{
		&cli.Uint64Flag{
			Name:     "network",
			Aliases:  []string{"n"},
			Usage:    "Chain id to read from",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "contract",
			Usage:    "Contract name from the config",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "Address to call instead of the configured one",
		},
		&cli.StringFlag{
			Name:     "method",
			Aliases:  []string{"m"},
			Usage:    "Method to call",
			Required: true,
		},
		argFlag,
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		chainID := cCtx.Uint64("network")
		name := cCtx.String("contract")
		method := cCtx.String("method")

		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}
		networks, err := cfg.NetworkRegistry()
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if _, err := networks.Lookup(chainID); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		contracts, err := cfg.ContractRegistry(name)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		contract, err := contracts.Lookup(name)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		target, err := contract.AddressOn(chainID)
		if cCtx.IsSet("address") {
			target, err = parseAddress("--address", cCtx.String("address"))
		}
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		client := openChain(cCtx, networks)
		defer client.Close()

		out, err := client.Read(cCtx.Context, chain.Call{
			ChainID: chainID,
			To:      target,
			ABI:     contract.ABI,
			Method:  method,
			Params:  stringArgs(cCtx.StringSlice("arg")),
		})
		if err != nil {
			return cli.Exit(fmt.Sprintf("%s.%s: %v", name, method, err), 1)
		}
		for _, v := range out {
			fmt.Fprintln(cCtx.App.Writer, formatValue(v))
		}
		return nil
	},
}

func formatValue(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
