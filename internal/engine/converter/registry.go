// Package converter implements the conversion engine: the per-package state
// machine (load, resolve, write), the registry guaranteeing at-most-once
// work per package, and the emission of the converted module trees.
package converter

import (
	"context"
	"sync"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
)

// Deps bundles the collaborators a conversion run needs. The engine touches
// the filesystem and the outside world only through these.
type Deps struct {
	Settings   *domain.Settings
	Descriptor ports.DescriptorLoader
	Bundle     ports.BundleLoader
	Hasher     ports.Hasher
	Copier     ports.TreeCopier
	Store      ports.ConvertInfoStore
	Manifest   ports.ManifestWriter
	Telemetry  ports.Telemetry
	Logger     ports.Logger

	// Force bypasses the conversion skip-cache.
	Force bool
}

// Registry holds the package units of one conversion run. It is the only
// shared mutable structure: insertion is check-and-insert under a single
// lock, so exactly one unit ever exists per package name and its load starts
// exactly once.
type Registry struct {
	deps *Deps

	mu    sync.Mutex
	units map[string]*Unit
}

// NewRegistry creates an empty registry for one run.
func NewRegistry(deps *Deps) *Registry {
	return &Registry{
		deps:  deps,
		units: make(map[string]*Unit),
	}
}

// Ensure returns the unit for the named package, creating it and starting
// its load if it was absent. The caller awaits the load through the unit.
func (r *Registry) Ensure(ctx context.Context, name string) *Unit {
	r.mu.Lock()
	u, ok := r.units[name]
	if !ok {
		u = newUnit(r, name)
		r.units[name] = u
	}
	r.mu.Unlock()

	if !ok {
		u.startLoad(ctx)
	}
	return u
}

// Lookup returns the unit for the named package, or nil.
func (r *Registry) Lookup(name string) *Unit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.units[name]
}

// alias makes the unit reachable under a second name. A descriptor may
// correct the name a unit was requested by; dependents resolving either name
// must reach the same unit.
func (r *Registry) alias(name string, u *Unit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.units[name]; !ok {
		r.units[name] = u
	}
}
