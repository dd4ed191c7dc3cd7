package version

import (
	"fmt"
	"runtime"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"

	"github.com/urfave/cli/v2"
)

var VersionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print the opskit version",
	Action: func(cCtx *cli.Context) error {
		fmt.Fprintf(cCtx.App.Writer, "opskit %s (%s/%s, %s)\n", common.Version(), runtime.GOOS, runtime.GOARCH, runtime.Version())
		return nil
	},
}
