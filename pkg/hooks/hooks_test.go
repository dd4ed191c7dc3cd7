package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type mockTelemetryClient struct {
	events []mockEvent
	closed bool
}

type mockEvent struct {
	name  string
	props map[string]interface{}
}

func (m *mockTelemetryClient) Track(_ context.Context, event string, props map[string]interface{}) error {
	m.events = append(m.events, mockEvent{name: event, props: props})
	return nil
}

func (m *mockTelemetryClient) Close() error {
	m.closed = true
	return nil
}

func newCommandContext(name string) *cli.Context {
	cliCtx := cli.NewContext(&cli.App{Name: "opskit"}, nil, nil)
	cliCtx.Command = &cli.Command{Name: name}
	cliCtx.Context = context.Background()
	return cliCtx
}

func TestWithTelemetry(t *testing.T) {
	mockClient := &mockTelemetryClient{}
	wrapped := withTelemetryClient(func(*cli.Context) error { return nil },
		func(*cli.Context) telemetry.Client { return mockClient })

	require.NoError(t, wrapped(newCommandContext("setup-contracts")))

	require.Len(t, mockClient.events, 2)
	assert.Equal(t, "cli.opskit_setup-contracts.invoked", mockClient.events[0].name)
	assert.Equal(t, "cli.opskit_setup-contracts.success", mockClient.events[1].name)
	assert.Contains(t, mockClient.events[1].props, "duration_ms")
	assert.True(t, mockClient.closed)
}

func TestWithTelemetryError(t *testing.T) {
	mockClient := &mockTelemetryClient{}
	testErr := errors.New("test error message")
	wrapped := withTelemetryClient(func(*cli.Context) error { return testErr },
		func(*cli.Context) telemetry.Client { return mockClient })

	err := wrapped(newCommandContext("read"))
	assert.Same(t, testErr, err)

	require.Len(t, mockClient.events, 2)
	assert.Equal(t, FormatEventName("read", "fail"), mockClient.events[1].name)
	assert.Equal(t, "test error message", mockClient.events[1].props["error"])
}

func TestTrack(t *testing.T) {
	mockClient := &mockTelemetryClient{}
	ctx := telemetry.WithContext(context.Background(), mockClient)

	require.NoError(t, Track(ctx, "custom.event", map[string]interface{}{"direct_prop": "direct_value"}))
	require.Len(t, mockClient.events, 1)
	assert.Equal(t, "direct_value", mockClient.events[0].props["direct_prop"])

	// no client in context is not an error
	assert.NoError(t, Track(context.Background(), "custom.event", nil))
}

func TestFormatEventName(t *testing.T) {
	assert.Equal(t, "cli.opskit_farming.invoked", FormatEventName("farming", "invoked"))
	assert.Equal(t, "cli.opskit_setup-contracts.fail", FormatEventName("setup-contracts", "fail"))
}

func TestGetFlagValue_KeepsFlagTypes(t *testing.T) {
	got := map[string]interface{}{}
	app := &cli.App{
		Name:  "opskit",
		Flags: []cli.Flag{&cli.BoolFlag{Name: "verbose"}},
		Commands: []*cli.Command{{
			Name: "read",
			Flags: []cli.Flag{
				&cli.Uint64Flag{Name: "network"},
				&cli.IntFlag{Name: "retries"},
				&cli.StringFlag{Name: "contract"},
				&cli.StringSliceFlag{Name: "params"},
			},
			Action: func(ctx *cli.Context) error {
				for _, name := range []string{"network", "retries", "contract", "params", "verbose"} {
					got[name] = getFlagValue(ctx, name)
				}
				return nil
			},
		}},
	}

	require.NoError(t, app.Run([]string{"opskit", "--verbose", "read",
		"--network", "56", "--retries", "3", "--contract", "BRIDGE_20", "--params", "0xabc"}))

	assert.Equal(t, uint64(56), got["network"])
	assert.Equal(t, 3, got["retries"])
	assert.Equal(t, "BRIDGE_20", got["contract"])
	assert.Equal(t, []string{"0xabc"}, got["params"])
	assert.Equal(t, true, got["verbose"])
}

func TestApplyMiddleware_ReachesSubcommands(t *testing.T) {
	var calls []string
	mark := func(name string) func(cli.ActionFunc) cli.ActionFunc {
		return func(next cli.ActionFunc) cli.ActionFunc {
			return func(ctx *cli.Context) error {
				calls = append(calls, name)
				return next(ctx)
			}
		}
	}
	leaf := &cli.Command{Name: "transfer", Action: func(*cli.Context) error { return nil }}
	parent := &cli.Command{Name: "ownership", Subcommands: []*cli.Command{leaf}}

	ApplyMiddleware([]*cli.Command{parent}, mark("a"), mark("b"))
	require.Nil(t, parent.Action)
	require.NoError(t, leaf.Action(newCommandContext("transfer")))

	// the last middleware wraps outermost
	assert.Equal(t, []string{"b", "a"}, calls)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("OPSKIT_HOOKS_TEST=loaded\n"), 0644))
	t.Setenv("OPSKIT_HOOKS_TEST", "")
	require.NoError(t, os.Unsetenv("OPSKIT_HOOKS_TEST"))

	run := func(args ...string) error {
		app := &cli.App{
			Flags:  []cli.Flag{&cli.StringFlag{Name: "env-file", Value: filepath.Join(dir, ".env")}},
			Action: LoadEnvFile,
		}
		return app.Run(append([]string{"opskit"}, args...))
	}

	// default path missing: nothing to load
	require.NoError(t, run())

	require.NoError(t, run("--env-file", envPath))
	assert.Equal(t, "loaded", os.Getenv("OPSKIT_HOOKS_TEST"))

	assert.ErrorContains(t, run("--env-file", filepath.Join(dir, "nope.env")), "not found")
}
