package common

import "github.com/urfave/cli/v2"

// GlobalFlags defines flags that apply to the entire application (global flags).
var GlobalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable verbose logging",
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to opskit.yaml or opskit.toml",
		EnvVars: []string{"OPSKIT_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "env-file",
		Usage: "Dotenv file with RPC endpoints and account keys",
		Value: ".env",
	},
}

// EnvironmentFlag selects a deployment environment in the deploy record
var EnvironmentFlag = &cli.StringFlag{
	Name:     "env",
	Aliases:  []string{"e"},
	Usage:    "Deployment environment (dev2, staging, beta, pre-live, live)",
	Required: true,
}
