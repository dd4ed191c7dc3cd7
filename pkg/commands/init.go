package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/defi-vn/Farming-Smart-Contract/config"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/iface"

	"github.com/urfave/cli/v2"
)

// InitCommand writes the default config into a contracts project
var InitCommand = &cli.Command{
	Name:      "init",
	Usage:     "Writes config/opskit.yaml, .env.example and project settings into a contracts project",
	ArgsUsage: "[project-dir]",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "overwrite",
			Usage: "Replace an existing config/opskit.yaml",
		},
		&cli.BoolFlag{
			Name:  "telemetry",
			Usage: "Enable anonymous usage metrics for this project",
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)

		targetDir := cCtx.Args().First()
		if targetDir == "" {
			targetDir = "."
		}
		targetDir, err := filepath.Abs(targetDir)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path for target directory: %w", err)
		}
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}

		if err := writeDefaultConfig(logger, targetDir, cCtx.Bool("overwrite")); err != nil {
			return err
		}

		envPath := filepath.Join(targetDir, ".env.example")
		if err := os.WriteFile(envPath, []byte(config.EnvExample), 0644); err != nil {
			return fmt.Errorf("failed to write .env.example: %w", err)
		}
		logger.Debug("Wrote %s", envPath)

		if err := common.SaveProjectSettings(targetDir, cCtx.Bool("telemetry")); err != nil {
			return fmt.Errorf("failed to save project settings: %w", err)
		}

		logger.Info("Project initialised in %s. Copy .env.example to .env and fill in the keys.", targetDir)
		return nil
	},
}

func writeDefaultConfig(logger iface.Logger, targetDir string, overwrite bool) error {
	configPath := filepath.Join(targetDir, common.DefaultConfigPath)
	if _, err := os.Stat(configPath); err == nil && !overwrite {
		return fmt.Errorf("%s already exists. Use --overwrite flag to replace it", configPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", configPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(config.DefaultConfigYaml), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	logger.Debug("Wrote %s", configPath)
	return nil
}
