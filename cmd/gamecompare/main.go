package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/baggage"

	"github.com/ryanm101/gamecompare/internal/config"
	"github.com/ryanm101/gamecompare/internal/logging"
	"github.com/ryanm101/gamecompare/internal/tracing"
)

const appVersion = "1.0.0"

var cfg *config.Config

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	// Set global baggage
	m, _ := baggage.NewMember("app.version", appVersion)
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	shutdown, err := tracing.Setup(ctx, tracing.Config{
		Endpoint:       cfg.Tracing.Endpoint,
		ServiceVersion: appVersion,
	})
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		PrintError("Error: %v\n", err)
		return 1
	}
	return 0
}
