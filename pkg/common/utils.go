package common

import (
	"os"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/iface"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/logger"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

// IsVerboseEnabled checks if the CLI --verbose flag is set
func IsVerboseEnabled(cCtx *cli.Context) bool {
	return cCtx.Bool("verbose")
}

// IsTTY reports whether stdout is an interactive terminal
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Get logger for the env we're in
func GetLogger(verbose bool) iface.Logger {
	if IsTTY() {
		return logger.NewLogger(verbose)
	}
	return logger.NewZapLogger(verbose)
}
