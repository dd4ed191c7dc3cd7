package hooks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// EnvFile is the default environment file
const EnvFile = ".env"

// CommandPrefix is the prefix applied to all command names in event names
const CommandPrefix = "opskit_"

// CommandMetrics holds timing and metadata for command execution
type CommandMetrics struct {
	StartTime time.Time
	Command   string
	Flags     map[string]interface{}
}

type contextKey struct{}

func getFlagValue(ctx *cli.Context, name string) interface{} {
	if !ctx.IsSet(name) {
		return nil
	}

	// String() renders any flag, so typed flags are resolved from their definition first
	switch lookupFlag(ctx, name).(type) {
	case *cli.Uint64Flag:
		return ctx.Uint64(name)
	case *cli.IntFlag:
		return ctx.Int(name)
	case *cli.BoolFlag:
		return ctx.Bool(name)
	case *cli.StringSliceFlag:
		return ctx.StringSlice(name)
	}

	if ctx.Bool(name) {
		return ctx.Bool(name)
	}
	if ctx.String(name) != "" {
		return ctx.String(name)
	}
	if v := ctx.StringSlice(name); len(v) > 0 {
		return v
	}
	if ctx.Int(name) != 0 {
		return ctx.Int(name)
	}
	return nil
}

func lookupFlag(ctx *cli.Context, name string) cli.Flag {
	for _, c := range ctx.Lineage() {
		var flags []cli.Flag
		if c.Command != nil {
			flags = append(flags, c.Command.Flags...)
		}
		if c.App != nil {
			flags = append(flags, c.App.Flags...)
		}
		for _, f := range flags {
			for _, n := range f.Names() {
				if n == name {
					return f
				}
			}
		}
	}
	return nil
}

func collectFlagValues(ctx *cli.Context) map[string]interface{} {
	flags := make(map[string]interface{})

	if ctx.App != nil {
		for _, flag := range ctx.App.Flags {
			flagName := flag.Names()[0]
			if ctx.IsSet(flagName) {
				flags[flagName] = getFlagValue(ctx, flagName)
			}
		}
	}

	if ctx.Command != nil {
		for _, flag := range ctx.Command.Flags {
			flagName := flag.Names()[0]
			if ctx.IsSet(flagName) {
				flags[flagName] = getFlagValue(ctx, flagName)
			}
		}
	}

	return flags
}

func setupTelemetry(ctx *cli.Context) telemetry.Client {
	if !common.IsTelemetryEnabled() {
		return telemetry.NewNoopClient()
	}

	props := telemetry.NewProperties(common.Version(), runtime.GOOS, runtime.GOARCH, common.GetProjectUUID(), "")
	if env, ok := common.AppEnvironmentFromContext(ctx.Context); ok {
		props = telemetry.NewProperties(env.CLIVersion, env.OS, env.Arch, env.ProjectUUID, env.RunID)
	}

	phClient, err := telemetry.NewPostHogClient(props)
	if err != nil {
		common.LoggerFromContext(ctx.Context).Debug("telemetry disabled: %v", err)
	}
	if phClient != nil {
		return phClient
	}
	return telemetry.NewNoopClient()
}

func MetricsFromContext(ctx context.Context) (CommandMetrics, bool) {
	metrics, ok := ctx.Value(contextKey{}).(CommandMetrics)
	if metrics.Command == "" {
		return CommandMetrics{}, false
	}
	return metrics, ok
}

func WithCommandMetrics(ctx context.Context, metrics CommandMetrics) context.Context {
	return context.WithValue(ctx, contextKey{}, metrics)
}

func FormatEventName(command, action string) string {
	return fmt.Sprintf("cli.%s%s.%s", CommandPrefix, command, action)
}

func Track(ctx context.Context, name string, props map[string]interface{}) error {
	client, ok := telemetry.FromContext(ctx)
	if !ok {
		return nil
	}
	return client.Track(ctx, name, props)
}

func trackCommandResult(ctx *cli.Context, result string, err error) {
	metrics, ok := MetricsFromContext(ctx.Context)
	if !ok {
		return
	}

	props := make(map[string]interface{}, len(metrics.Flags)+2)
	for k, v := range metrics.Flags {
		props[k] = v
	}
	props["duration_ms"] = time.Since(metrics.StartTime).Milliseconds()
	if err != nil {
		props["error"] = err.Error()
	}

	_ = Track(ctx.Context, FormatEventName(metrics.Command, result), props)
}

// WithTelemetry emits invoked, success and fail events around a command action
func WithTelemetry(action cli.ActionFunc) cli.ActionFunc {
	return withTelemetryClient(action, setupTelemetry)
}

func withTelemetryClient(action cli.ActionFunc, newClient func(*cli.Context) telemetry.Client) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		command := ctx.Command.Name

		client := newClient(ctx)
		defer client.Close()
		ctx.Context = telemetry.WithContext(ctx.Context, client)

		flags := collectFlagValues(ctx)
		ctx.Context = WithCommandMetrics(ctx.Context, CommandMetrics{
			StartTime: time.Now(),
			Command:   command,
			Flags:     flags,
		})

		_ = Track(ctx.Context, FormatEventName(command, "invoked"), flags)

		err := action(ctx)
		if err != nil {
			trackCommandResult(ctx, "fail", err)
		} else {
			trackCommandResult(ctx, "success", nil)
		}
		return err
	}
}

// ApplyMiddleware applies a list of middleware functions to commands
func ApplyMiddleware(commands []*cli.Command, middlewares ...func(cli.ActionFunc) cli.ActionFunc) {
	for _, cmd := range commands {
		if cmd.Action != nil {
			wrappedAction := cmd.Action
			for _, middleware := range middlewares {
				wrappedAction = middleware(wrappedAction)
			}
			cmd.Action = wrappedAction
		}

		if len(cmd.Subcommands) > 0 {
			ApplyMiddleware(cmd.Subcommands, middlewares...)
		}
	}
}

// LoadEnvFile loads the --env-file (default .env). A missing default file is
// fine; a missing file named explicitly is an error.
func LoadEnvFile(ctx *cli.Context) error {
	path := ctx.String("env-file")
	if path == "" {
		path = EnvFile
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if ctx.IsSet("env-file") {
			return fmt.Errorf("env file %s not found", path)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
