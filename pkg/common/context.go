package common

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/iface"
	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/logger"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// Embedded opskit version from release
var embeddedReleaseVersion = "Development"

// Version returns the release version baked in at build time
func Version() string {
	return embeddedReleaseVersion
}

// WithShutdown creates a new context that will be cancelled on SIGTERM/SIGINT
func WithShutdown(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		signal.Stop(sigChan)
		cancel()
		_, _ = fmt.Fprintln(os.Stderr, "caught interrupt, finishing current step and skipping the rest.")
	}()

	return ctx
}

type appEnvironmentContextKey struct{}

type AppEnvironment struct {
	CLIVersion  string
	OS          string
	Arch        string
	ProjectUUID string
	// RunID identifies one invocation in logs and telemetry
	RunID string
}

func NewAppEnvironment(os string, arch string, projectUuid string) *AppEnvironment {
	return &AppEnvironment{
		CLIVersion:  embeddedReleaseVersion,
		OS:          os,
		Arch:        arch,
		ProjectUUID: projectUuid,
		RunID:       uuid.New().String(),
	}
}

func WithAppEnvironment(ctx *cli.Context) {
	withAppEnvironmentFromLocation(ctx, ProjectConfigFile)
}

func withAppEnvironmentFromLocation(ctx *cli.Context, location string) {
	id := getProjectUUIDFromLocation(location)
	if id == "" {
		id = uuid.New().String()
	}
	ctx.Context = withAppEnvironment(ctx.Context, NewAppEnvironment(
		runtime.GOOS,
		runtime.GOARCH,
		id,
	))
}

func withAppEnvironment(ctx context.Context, appEnvironment *AppEnvironment) context.Context {
	return context.WithValue(ctx, appEnvironmentContextKey{}, appEnvironment)
}

func AppEnvironmentFromContext(ctx context.Context) (*AppEnvironment, bool) {
	env, ok := ctx.Value(appEnvironmentContextKey{}).(*AppEnvironment)
	return env, ok
}

type loggerContextKey struct{}

func WithLogger(ctx context.Context, log iface.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// LoggerFromContext returns the logger set by WithLogger, or a quiet basic logger
func LoggerFromContext(ctx context.Context) iface.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(iface.Logger); ok {
		return log
	}
	return logger.NewLogger(false)
}
