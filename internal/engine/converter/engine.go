package converter

import (
	"context"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
)

// StateDirName is the folder under the output root holding the conversion
// records.
const StateDirName = ".exodus"

// Engine drives conversion runs. It is assembled once from the adapter ports;
// each Run builds its own registry, so runs never share package state.
type Engine struct {
	descriptor   ports.DescriptorLoader
	bundle       ports.BundleLoader
	hasher       ports.Hasher
	copier       ports.TreeCopier
	storeFactory ports.ConvertInfoStoreFactory
	manifest     ports.ManifestWriter
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// NewEngine creates a conversion engine from its collaborators.
func NewEngine(
	descriptor ports.DescriptorLoader,
	bundle ports.BundleLoader,
	hasher ports.Hasher,
	copier ports.TreeCopier,
	storeFactory ports.ConvertInfoStoreFactory,
	manifest ports.ManifestWriter,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Engine {
	return &Engine{
		descriptor:   descriptor,
		bundle:       bundle,
		hasher:       hasher,
		copier:       copier,
		storeFactory: storeFactory,
		manifest:     manifest,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// Run converts the requested packages and everything they transitively
// depend on. It returns the manifest delta: the converted name and version
// range of each requested package, ready to merge into a consuming project's
// manifest.
func (e *Engine) Run(ctx context.Context, settings *domain.Settings, packages []string, force bool) (map[string]string, error) {
	if len(packages) == 0 {
		return nil, domain.ErrNoPackagesRequested
	}

	store, err := e.storeFactory(filepath.Join(settings.OutputDir, StateDirName))
	if err != nil {
		return nil, err
	}

	reg := NewRegistry(&Deps{
		Settings:   settings,
		Descriptor: e.descriptor,
		Bundle:     e.bundle,
		Hasher:     e.hasher,
		Copier:     e.copier,
		Store:      store,
		Manifest:   e.manifest,
		Telemetry:  e.telemetry,
		Logger:     e.logger,
		Force:      force,
	})

	// Deduplicate while keeping request order.
	requested := make([]string, 0, len(packages))
	seen := make(map[string]struct{}, len(packages))
	for _, name := range packages {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		requested = append(requested, name)
	}

	parallelism := settings.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, name := range requested {
		unit := reg.Ensure(gctx, name)
		g.Go(func() error {
			return unit.Write(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	delta := make(map[string]string, len(requested))
	for _, name := range requested {
		unit := reg.Lookup(name)
		version := unit.ResolvedVersion()
		if version == "" {
			delta[unit.NpmName()] = "*"
			continue
		}
		delta[unit.NpmName()] = "^" + version
	}
	return delta, nil
}
