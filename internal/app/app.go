// Package app implements the application layer for exodus.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/exodus/internal/engine/converter"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	engine       *converter.Engine
	logger       ports.Logger

	// deltaOut receives the manifest delta after a successful run.
	deltaOut io.Writer
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, engine *converter.Engine, logger ports.Logger) *App {
	return &App{
		configLoader: loader,
		engine:       engine,
		logger:       logger,
		deltaOut:     os.Stdout,
	}
}

// SetDeltaOutput redirects the manifest delta. Used for testing.
func (a *App) SetDeltaOutput(w io.Writer) {
	a.deltaOut = w
}

// RunOptions carries per-invocation flags.
type RunOptions struct {
	// ConfigPath is the configuration file to load.
	ConfigPath string

	// Force bypasses the conversion skip-cache.
	Force bool
}

// manifestDelta is the JSON document printed after a run: the dependency
// entries a consuming project adds to its own manifest for the requested
// packages.
type manifestDelta struct {
	Dependencies map[string]string `json:"dependencies"`
}

// Run converts the given packages (falling back to the configured set) and
// prints the resulting manifest delta.
func (a *App) Run(ctx context.Context, packages []string, opts RunOptions) error {
	settings, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	requested := packages
	if len(requested) == 0 {
		requested = settings.Packages
	}
	if len(requested) == 0 {
		return domain.ErrNoPackagesRequested
	}

	delta, err := a.engine.Run(ctx, settings, requested, opts.Force)
	if err != nil {
		// Join keeps both the sentinel and the concrete cause addressable.
		return errors.Join(domain.ErrConversionFailed, err)
	}

	doc, err := json.MarshalIndent(manifestDelta{Dependencies: delta}, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to render manifest delta")
	}
	if _, err := fmt.Fprintln(a.deltaOut, string(doc)); err != nil {
		return zerr.Wrap(err, "failed to write manifest delta")
	}

	a.logger.Info(fmt.Sprintf("converted %d package(s) into %s", len(delta), settings.OutputDir))
	return nil
}
