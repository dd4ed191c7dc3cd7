package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var ConfigCommand = &cli.Command{
	Name:  "config",
	Usage: "Views the configuration opskit runs with",
	Subcommands: []*cli.Command{
		ConfigListCommand,
	},
}

var ConfigListCommand = &cli.Command{
	Name:  "list",
	Usage: "Display networks, contracts and environments from the config",
	Flags: append([]cli.Flag{}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}
		listConfig(cCtx.App.Writer, cfg, common.IsTelemetryEnabled())
		return nil
	},
}

func listConfig(w io.Writer, cfg *common.Config, telemetry bool) {
	fmt.Fprintf(w, "Config: %s\n", cfg.Source())
	fmt.Fprintf(w, "Version: %s\n", cfg.Version)
	fmt.Fprintf(w, "Deploy record: %s\n", cfg.DeployRecord)
	fmt.Fprintf(w, "Parallelism: %d\n", cfg.Parallelism)
	fmt.Fprintf(w, "Telemetry enabled: %t\n", telemetry)
	fmt.Fprintf(w, "Oracles: %s\n", strings.Join(cfg.Oracles, ", "))
	fmt.Fprintf(w, "Environments: %s\n\n", strings.Join(cfg.Environments, ", "))

	networks := tablewriter.NewWriter(w)
	networks.SetHeader([]string{"Chain ID", "Name", "RPC URL", "Fee"})
	networks.SetAutoFormatHeaders(false)
	for _, n := range cfg.Networks {
		networks.Append([]string{strconv.FormatUint(n.ChainID, 10), n.Name, n.RPCURL, strconv.FormatInt(n.Fee, 10)})
	}
	networks.Render()
	fmt.Fprintln(w)

	contracts := tablewriter.NewWriter(w)
	contracts.SetHeader([]string{"Contract", "Artifact", "Deployments"})
	contracts.SetAutoFormatHeaders(false)
	for _, c := range cfg.Contracts {
		contracts.Append([]string{c.Name, c.Artifact, deployments(c.Addresses)})
	}
	contracts.Render()
}

func deployments(addrs map[string]string) string {
	if len(addrs) == 0 {
		return "-"
	}
	ids := make([]string, 0, len(addrs))
	for id, a := range addrs {
		if a != "" {
			ids = append(ids, id+"="+a)
		}
	}
	sort.Strings(ids)
	return strings.Join(ids, "\n")
}
