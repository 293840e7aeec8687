// Package main is the entry point for the exodus conversion tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/exodus/cmd/exodus/commands"
	"go.trai.ch/exodus/internal/app"
	"go.trai.ch/exodus/internal/core/domain"
	_ "go.trai.ch/exodus/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = components.Telemetry.Close() }()

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrConversionFailed) {
			// The failure was already logged with its package context.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
