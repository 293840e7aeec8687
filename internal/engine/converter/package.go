package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PackageBuilder = (*Unit)(nil)

// depInfo is the unit-level record of one declared dependency.
type depInfo struct {
	constraint string
	strength   domain.DependencyStrength
}

// Unit is the conversion state machine for one legacy package. It is created
// by the registry, loads its declarations once, and writes its converted
// module tree once; both transitions are one-shot latches that later callers
// wait on instead of repeating the work.
type Unit struct {
	reg *Registry

	loadOnce  sync.Once
	loadLatch *latch

	writeOnce  sync.Once
	writeLatch *latch

	// mu guards the declaration state below. Loaders drive the builder
	// methods from the unit's own load goroutine, but implies absorption
	// reads sibling units concurrently.
	mu sync.Mutex

	name          string
	nameCorrected bool
	version       string
	summary       string
	srcDir        string
	fromBundle    bool

	archs       map[string]*domain.Arch
	importOrder int

	deps        map[string]*depInfo
	strongOrder []string
	allUses     map[string]struct{}
	npmDeps     map[string]string
	resources   map[string]string

	// Write-phase outputs. Set exactly once before the write latch resolves
	// (or restored from the conversion cache), then read-only.
	outDir          string
	resolvedGlobals map[string]map[string]string
	writtenExports  map[string][]string
	cacheHit        bool
}

func newUnit(r *Registry, name string) *Unit {
	u := &Unit{
		reg:        r,
		loadLatch:  newLatch(),
		writeLatch: newLatch(),
		name:       name,
		archs:      make(map[string]*domain.Arch),
		deps:       make(map[string]*depInfo),
		allUses:    make(map[string]struct{}),
		npmDeps:    make(map[string]string),
		resources:  make(map[string]string),
	}
	for _, root := range domain.ArchRoots {
		u.archs[root] = domain.NewArch(root)
	}
	return u
}

// Name returns the unit's legacy package name.
func (u *Unit) Name() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.name
}

// NpmName returns the unit's target-ecosystem name.
func (u *Unit) NpmName() string {
	return domain.NpmName(u.reg.deps.Settings.Scope, u.Name())
}

// FolderName returns the output folder name: the npm name without its scope.
func (u *Unit) FolderName() string {
	npmName := u.NpmName()
	return npmName[strings.LastIndexByte(npmName, '/')+1:]
}

// Dialect returns the module style this unit is emitted in. Bundle-sourced
// packages predate the native module system and get the interop dialect.
func (u *Unit) Dialect() domain.Dialect {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.fromBundle {
		return domain.DialectLegacyInterop
	}
	return domain.DialectNative
}

// ResolvedVersion returns the unit's sanitized version once loaded, or "" if
// the declarations never named one.
func (u *Unit) ResolvedVersion() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.version
}

// archNode returns (creating if needed) the build-target node for a
// converter-internal arch name like "server" or "client.cordova".
func (u *Unit) archNode(name string) *domain.Arch {
	if a, ok := u.archs[name]; ok {
		return a
	}
	parentName := name[:strings.LastIndexByte(name, '.')]
	parent := u.archNode(parentName)
	a := domain.NewChildArch(name, parent)
	u.archs[name] = a
	return a
}

// targetArchs maps legacy arch strings to build-target nodes; nil means every
// root target.
func (u *Unit) targetArchs(archs []string) []*domain.Arch {
	if len(archs) == 0 {
		nodes := make([]*domain.Arch, 0, len(domain.ArchRoots))
		for _, root := range domain.ArchRoots {
			nodes = append(nodes, u.archs[root])
		}
		return nodes
	}
	var nodes []*domain.Arch
	for _, legacy := range archs {
		nodes = append(nodes, u.archNode(domain.ParseLegacyArch(legacy)))
	}
	return nodes
}

// nearestArch returns the unit's node for the given converter-internal arch
// name without creating one: the named node if present, else the nearest
// ancestor, else the root of the name's chain.
func (u *Unit) nearestArch(name string) *domain.Arch {
	for {
		if a, ok := u.archs[name]; ok {
			return a
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return u.archs[domain.ArchRoots[0]]
		}
		name = name[:i]
	}
}

// Describe records the package's identity fields. A name correction from a
// parsed descriptor is applied at most once; the registry keeps both names
// pointing at this unit.
func (u *Unit) Describe(name, version, summary string) {
	u.mu.Lock()
	rename := ""
	if name != "" && name != u.name && !u.nameCorrected {
		u.name = name
		u.nameCorrected = true
		rename = name
	}
	if version != "" {
		u.version = domain.SanitizeVersion(version)
	}
	if summary != "" {
		u.summary = summary
	}
	u.mu.Unlock()

	if rename != "" {
		u.reg.alias(rename, u)
	}
}

// AddExports declares exported global symbols for the given targets.
func (u *Unit) AddExports(symbols []string, archs []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, a := range u.targetArchs(archs) {
		for _, s := range symbols {
			a.AddExport(domain.NewInternedString(s))
		}
	}
}

// AddNpmDeps declares lower-level ecosystem dependencies.
func (u *Unit) AddNpmDeps(deps map[string]string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for name, version := range deps {
		u.npmDeps[name] = version
	}
}

// AddImport declares an eager source file for the given targets.
func (u *Unit) AddImport(path string, archs []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	order := u.importOrder
	u.importOrder++
	for _, a := range u.targetArchs(archs) {
		a.AddImport(path, order)
	}
}

// AddAssets declares asset files for the given targets.
func (u *Unit) AddAssets(paths []string, archs []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, a := range u.targetArchs(archs) {
		for _, p := range paths {
			a.AddAsset(p)
		}
	}
}

// AddDependencies declares legacy package dependencies. Weak dependencies
// are never loaded by the converter: they only surface as optional manifest
// entries, with their declared constraint standing in for a resolved version.
func (u *Unit) AddDependencies(refs []string, archs []string, weak, unordered bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, ref := range refs {
		name, constraint := domain.SplitDependencyRef(ref)
		u.recordDependency(name, constraint, archs, weak, unordered)
	}
}

// recordDependency is the lock-held core of AddDependencies. A dependency
// declared with several strengths keeps the strongest.
func (u *Unit) recordDependency(name, constraint string, archs []string, weak, unordered bool) {
	strength := domain.DepStrong
	if unordered {
		strength = domain.DepUnordered
	}
	if weak {
		strength = domain.DepWeak
	}

	info, ok := u.deps[name]
	if !ok {
		info = &depInfo{constraint: constraint, strength: strength}
		u.deps[name] = info
	} else {
		if constraint != "" && info.constraint == "" {
			info.constraint = constraint
		}
		if strength < info.strength {
			info.strength = strength
		}
	}

	if info.strength == domain.DepWeak {
		return
	}

	u.allUses[name] = struct{}{}
	for _, a := range u.targetArchs(archs) {
		if info.strength == domain.DepUnordered {
			a.AddUnorderedPackage(domain.NewInternedString(name))
		} else {
			a.AddPreloadPackage(domain.NewInternedString(name))
		}
	}
	if info.strength == domain.DepStrong && !contains(u.strongOrder, name) {
		u.strongOrder = append(u.strongOrder, name)
	}
}

// AddImplies declares implied packages. Implying also uses.
func (u *Unit) AddImplies(refs []string, archs []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, ref := range refs {
		name, constraint := domain.SplitDependencyRef(ref)
		for _, a := range u.targetArchs(archs) {
			a.AddImpliedPackage(domain.NewInternedString(name))
		}
		u.recordDependency(name, constraint, archs, false, false)
	}
}

// SetMainModule declares the main module path for the given targets.
func (u *Unit) SetMainModule(path string, archs []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	order := u.importOrder
	u.importOrder++
	for _, a := range u.targetArchs(archs) {
		a.SetMainModule(path)
		a.AddImport(path, order)
	}
}

// AddResourceFile maps an output-relative destination path to the backing
// source file.
func (u *Unit) AddResourceFile(destPath, sourcePath string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.resources[destPath] = sourcePath
}

// MarkFromBundle flags the package as originating from a precompiled bundle.
func (u *Unit) MarkFromBundle() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fromBundle = true
}

// startLoad begins the unit's load exactly once.
func (u *Unit) startLoad(ctx context.Context) {
	u.loadOnce.Do(func() {
		go func() {
			u.loadLatch.resolve(u.load(ctx))
		}()
	})
}

// AwaitLoad blocks until the unit's declarations are loaded and its
// dependency graph is discovered.
func (u *Unit) AwaitLoad(ctx context.Context) error {
	u.startLoad(ctx)
	return u.loadLatch.wait(ctx)
}

// load reads the unit's declarations, recursively ensures every used or
// implied package, awaits the strong dependencies, and absorbs one level of
// their implied packages.
func (u *Unit) load(ctx context.Context) (err error) {
	deps := u.reg.deps
	ctx, vertex := deps.Telemetry.Record(ctx, "load "+u.Name())
	defer func() { vertex.Complete(err) }()

	if err := u.readDeclarations(); err != nil {
		return err
	}

	// Discovery: kick off every used or implied package's own load. Strong
	// dependencies are awaited; unordered ones are only seeded, which is what
	// breaks dependency cycles.
	for _, name := range u.usedPackages() {
		u.reg.Ensure(ctx, name)
	}
	if err := u.awaitStrongDeps(ctx); err != nil {
		return err
	}
	if err := u.absorbImplies(ctx); err != nil {
		return err
	}

	deps.Logger.Info(fmt.Sprintf("loaded %s", u.Name()))
	return nil
}

// readDeclarations finds the package's source and replays its declarations:
// a descriptor script when one exists in the configured package dirs, else a
// distributable bundle under the legacy installation root.
func (u *Unit) readDeclarations() error {
	deps := u.reg.deps
	name := u.Name()

	for _, dir := range deps.Settings.PackageDirs {
		for _, folder := range candidateFolders(name) {
			srcDir := filepath.Join(dir, folder)
			descriptor := filepath.Join(srcDir, "package.js")
			if _, err := os.Stat(descriptor); err == nil {
				u.mu.Lock()
				u.srcDir = srcDir
				u.mu.Unlock()
				return deps.Descriptor.Load(descriptor, u)
			}
		}
	}

	if deps.Settings.LegacyRoot == "" {
		return zerr.With(zerr.Wrap(domain.ErrMissingToolchain, "no descriptor found and no legacy root configured"),
			"package", name)
	}
	for _, folder := range candidateFolders(name) {
		bundleDir := filepath.Join(deps.Settings.LegacyRoot, "packages", folder)
		if _, err := os.Stat(bundleDir); err == nil {
			u.mu.Lock()
			u.srcDir = bundleDir
			u.mu.Unlock()
			return deps.Bundle.Load(bundleDir, u)
		}
	}
	return zerr.With(zerr.Wrap(domain.ErrMissingToolchain, "package not installed"), "package", name)
}

// awaitStrongDeps waits for every strong dependency's load, in declaration
// order.
func (u *Unit) awaitStrongDeps(ctx context.Context) error {
	for _, name := range u.strongDeps() {
		dep := u.reg.Ensure(ctx, name)
		if err := dep.AwaitLoad(ctx); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingDependency, err.Error()),
				"package", u.Name()), "dependency", name)
		}
	}
	return nil
}

// absorbImplies imports, per build target, everything each strong dependency
// implies. One level is propagated per load; transitivity follows because
// each dependency absorbed its own dependencies' implications before its
// load latch resolved.
func (u *Unit) absorbImplies(ctx context.Context) error {
	var added []string

	for _, depName := range u.strongDeps() {
		dep := u.reg.Lookup(depName)
		if dep == nil {
			continue
		}
		for _, archName := range u.archNames() {
			for _, implied := range dep.ImpliedFor(archName) {
				if implied == u.Name() {
					continue
				}
				u.mu.Lock()
				known := u.deps[implied] != nil && u.deps[implied].strength == domain.DepStrong
				if !known {
					u.recordDependency(implied, "", []string{archName}, false, false)
					added = append(added, implied)
				} else {
					u.archNode(archName).AddPreloadPackage(domain.NewInternedString(implied))
				}
				u.mu.Unlock()
			}
		}
	}

	for _, name := range added {
		dep := u.reg.Ensure(ctx, name)
		if err := dep.AwaitLoad(ctx); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingDependency, err.Error()),
				"package", u.Name()), "dependency", name)
		}
	}
	return nil
}

// ImpliedFor returns the inherited implied-package names for the given
// build-target name.
func (u *Unit) ImpliedFor(archName string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	node := u.nearestArch(archName)
	implied := node.ImpliedPackages(false)
	names := make([]string, 0, len(implied))
	for _, n := range implied {
		names = append(names, n.String())
	}
	return names
}

// ExportsFor returns the exported symbols for the given build-target name.
// After a cache-skipped write they come from the persisted conversion record.
func (u *Unit) ExportsFor(archName string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cacheHit {
		return u.writtenExports[archName]
	}
	exports := u.nearestArch(archName).Exports(false)
	names := make([]string, 0, len(exports))
	for _, e := range exports {
		names = append(names, e.String())
	}
	return names
}

// ResolvedFor returns the global -> provider-specifier map computed for the
// given build-target name during this unit's write (or restored from the
// conversion record when the write was skipped).
func (u *Unit) ResolvedFor(archName string) map[string]string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.resolvedGlobals[archName]
}

// usedPackages snapshots the used-or-implied package set.
func (u *Unit) usedPackages() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	names := make([]string, 0, len(u.allUses))
	for n := range u.allUses {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// strongDeps snapshots the strong dependency names in declaration order.
func (u *Unit) strongDeps() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.strongOrder...)
}

// archNames snapshots the names of the unit's build-target nodes,
// deterministically ordered.
func (u *Unit) archNames() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	names := make([]string, 0, len(u.archs))
	for n := range u.archs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// candidateFolders lists the directory names a package may live under. The
// legacy tooling stores scoped names with the author separator replaced.
func candidateFolders(name string) []string {
	folders := []string{name}
	if underscored := strings.ReplaceAll(name, ":", "_"); underscored != name {
		folders = append(folders, underscored)
	}
	return folders
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
