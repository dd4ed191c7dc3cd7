package common

import (
	"context"
	"reflect"
	"testing"

	"github.com/defi-vn/Farming-Smart-Contract/pkg/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"
)

func TestIsVerboseEnabled(t *testing.T) {
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose"},
		},
		Action: func(cCtx *cli.Context) error {
			if !IsVerboseEnabled(cCtx) {
				t.Errorf("expected true when verbose flag is set")
			}
			return nil
		},
	}

	if err := app.Run([]string{"test", "--verbose"}); err != nil {
		t.Fatalf("cli run failed: %v", err)
	}
}

func TestGetLogger_ReturnsKnownLogger(t *testing.T) {
	log := GetLogger(false)

	typ := reflect.TypeOf(log).String()
	if typ != "*logger.BasicLogger" && typ != "*logger.ZapLogger" {
		t.Errorf("unexpected logger type: %s", typ)
	}
}

func TestLoggerFromContext(t *testing.T) {
	assert.NotNil(t, LoggerFromContext(context.Background()))

	want := logger.NewLogger(true)
	ctx := WithLogger(context.Background(), want)
	assert.Same(t, want, LoggerFromContext(ctx))
}
