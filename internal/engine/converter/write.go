package converter

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/engine/analysis"
	"go.trai.ch/zerr"
)

// Write phases, recorded on write failures so an aborted run names where it
// stopped.
const (
	phaseAwaitLoad = iota
	phaseWriteDeps
	phaseSkipCache
	phaseMaterialize
	phaseClassify
	phaseReachability
	phaseResolve
	phaseRewrite
	phaseCapabilities
	phaseNamespace
	phaseEntrypoints
	phaseManifest
	phaseRecord
)

// Write converts the package to its output folder. The work runs once; a
// second request waits on the first's completion signal instead of
// repeating it.
func (u *Unit) Write(ctx context.Context) error {
	u.writeOnce.Do(func() {
		go func() {
			u.writeLatch.resolve(u.write(ctx))
		}()
	})
	return u.writeLatch.wait(ctx)
}

// failWrite wraps a write-phase error with the package name, output root and
// phase index.
func (u *Unit) failWrite(phase int, err error) error {
	return zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrWriteFailure, err.Error()),
		"package", u.Name()), "output", u.outDir), "phase", phase)
}

func (u *Unit) write(ctx context.Context) (err error) {
	deps := u.reg.deps
	ctx, vertex := deps.Telemetry.Record(ctx, "convert "+u.Name())
	defer func() { vertex.Complete(err) }()

	if err := u.AwaitLoad(ctx); err != nil {
		return u.failWrite(phaseAwaitLoad, err)
	}
	if err := u.writeStrongDeps(ctx); err != nil {
		return u.failWrite(phaseWriteDeps, err)
	}

	// Known as soon as the load settled, so every later failure carries it.
	u.outDir = filepath.Join(deps.Settings.OutputDir, u.FolderName())

	inputHash, hit, err := u.checkSkipCache()
	if err != nil {
		return u.failWrite(phaseSkipCache, err)
	}
	if hit {
		vertex.Cached()
		deps.Logger.Info("skipped " + u.Name() + " (unchanged)")
		return nil
	}

	if err := u.materialize(); err != nil {
		return u.failWrite(phaseMaterialize, err)
	}

	files, err := u.readOutputSources()
	if err != nil {
		return u.failWrite(phaseClassify, err)
	}
	globals, err := analysis.ClassifyFiles(ctx, files)
	if err != nil {
		return u.failWrite(phaseClassify, err)
	}

	conv := newConversion(u, files, globals)
	if err := conv.computeReachability(ctx); err != nil {
		return u.failWrite(phaseReachability, err)
	}
	conv.resolve()
	if err := conv.rewriteFiles(ctx); err != nil {
		return u.failWrite(phaseRewrite, err)
	}
	if err := conv.emitCapabilities(); err != nil {
		return u.failWrite(phaseCapabilities, err)
	}
	if err := conv.emitNamespaceModule(); err != nil {
		return u.failWrite(phaseNamespace, err)
	}
	if err := conv.emitEntrypoints(); err != nil {
		return u.failWrite(phaseEntrypoints, err)
	}
	if err := conv.emitManifest(); err != nil {
		return u.failWrite(phaseManifest, err)
	}

	writtenExports := conv.exportsByArch()
	u.mu.Lock()
	u.resolvedGlobals = conv.resolved
	u.writtenExports = writtenExports
	u.mu.Unlock()

	if err := u.recordConversion(inputHash); err != nil {
		return u.failWrite(phaseRecord, err)
	}

	deps.Logger.Info("converted " + u.Name() + " -> " + u.outDir)
	return nil
}

// writeStrongDeps writes every strong dependency first: a dependency's write
// always completes before this unit's global resolution begins.
func (u *Unit) writeStrongDeps(ctx context.Context) error {
	parallelism := u.reg.deps.Settings.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, name := range u.strongDeps() {
		dep := u.reg.Ensure(ctx, name)
		g.Go(func() error {
			return dep.Write(ctx)
		})
	}
	return g.Wait()
}

// checkSkipCache hashes the source tree and compares against the recorded
// conversion. On a hit the persisted resolution maps and export lists are
// restored so dependents can still resolve through this unit.
func (u *Unit) checkSkipCache() (inputHash string, hit bool, err error) {
	deps := u.reg.deps

	u.mu.Lock()
	srcDir := u.srcDir
	u.mu.Unlock()

	inputHash, err = deps.Hasher.ComputeTreeHash(srcDir)
	if err != nil {
		return "", false, err
	}
	if deps.Force {
		return inputHash, false, nil
	}

	info, err := deps.Store.Get(u.Name())
	if err != nil {
		return "", false, err
	}
	if info == nil || info.InputHash != inputHash {
		return inputHash, false, nil
	}

	u.mu.Lock()
	u.cacheHit = true
	u.resolvedGlobals = info.ResolvedGlobals
	u.writtenExports = info.Exports
	u.mu.Unlock()
	return inputHash, true, nil
}

// materialize copies the package's files into the output folder: the listed
// resources for bundle-sourced packages, the whole source tree (minus the
// descriptor) otherwise.
func (u *Unit) materialize() error {
	deps := u.reg.deps

	if err := os.MkdirAll(u.outDir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output folder"), "dir", u.outDir)
	}

	u.mu.Lock()
	fromBundle := u.fromBundle
	resources := make(map[string]string, len(u.resources))
	for dest, src := range u.resources {
		resources[dest] = src
	}
	srcDir := u.srcDir
	u.mu.Unlock()

	if fromBundle {
		for dest, src := range resources {
			if err := deps.Copier.CopyFile(src, filepath.Join(u.outDir, filepath.FromSlash(dest))); err != nil {
				return err
			}
		}
		return nil
	}
	return deps.Copier.CopyTree(srcDir, u.outDir, func(rel string) bool {
		return rel != "package.js"
	})
}

// readOutputSources loads every JavaScript file of the materialized output
// tree, keyed by slash-separated output-relative path.
func (u *Unit) readOutputSources() (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(u.outDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".js") {
			return nil
		}
		rel, err := filepath.Rel(u.outDir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p) //nolint:gosec // Reading back the tree this run wrote
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read output tree"), "dir", u.outDir)
	}
	return files, nil
}

// recordConversion persists the conversion record for the skip-cache.
func (u *Unit) recordConversion(inputHash string) error {
	u.mu.Lock()
	info := domain.ConvertInfo{
		PackageName:     u.name,
		InputHash:       inputHash,
		Version:         u.version,
		Timestamp:       time.Now(),
		ResolvedGlobals: u.resolvedGlobals,
		Exports:         u.writtenExports,
	}
	u.mu.Unlock()
	return u.reg.deps.Store.Put(info)
}

// conversion carries the write-phase working state of one unit.
type conversion struct {
	unit    *Unit
	files   map[string][]byte
	globals *analysis.PackageGlobals

	// activeArchs are the build targets that emit their own entry, in
	// deterministic order. Unmodified children resolve to their parent and
	// are skipped.
	activeArchs []*domain.Arch

	// reachable maps build-target name -> set of output-relative files
	// reached from its eager imports and main module.
	reachable map[string]map[string]struct{}

	// owned and used are per build target; resolved maps a used symbol to
	// its provider specifier.
	owned    map[string]map[string]struct{}
	used     map[string]map[string]struct{}
	resolved map[string]map[string]string

	// capabilities are the framework primitives the sources touch
	// ("Npm", "Assets", "require"), each backed by an emitted support module.
	capabilities map[string]struct{}
}

func newConversion(u *Unit, files map[string][]byte, globals *analysis.PackageGlobals) *conversion {
	c := &conversion{
		unit:         u,
		files:        files,
		globals:      globals,
		reachable:    make(map[string]map[string]struct{}),
		owned:        make(map[string]map[string]struct{}),
		used:         make(map[string]map[string]struct{}),
		resolved:     make(map[string]map[string]string),
		capabilities: make(map[string]struct{}),
	}

	u.mu.Lock()
	names := make([]string, 0, len(u.archs))
	for n := range u.archs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		a := u.archs[n]
		if a.ActiveArch() == a && !a.IsNoop(true) {
			c.activeArchs = append(c.activeArchs, a)
		}
	}
	u.mu.Unlock()

	return c
}

// computeReachability walks, per build target, the static relative imports
// from the target's eager files and main module.
func (c *conversion) computeReachability(ctx context.Context) error {
	for _, arch := range c.activeArchs {
		reached := make(map[string]struct{})
		queue := make([]string, 0, 8)

		enqueue := func(p string) {
			p = normalizeSourcePath(p)
			if _, ok := c.files[p]; !ok {
				return
			}
			if _, ok := reached[p]; ok {
				return
			}
			reached[p] = struct{}{}
			queue = append(queue, p)
		}

		for _, imp := range arch.Imports(false) {
			enqueue(imp)
		}
		if main := arch.MainModule(false); main != "" {
			enqueue(main)
		}

		for len(queue) > 0 {
			file := queue[0]
			queue = queue[1:]

			specs, err := analysis.ImportSpecifiers(ctx, c.files[file])
			if err != nil {
				return zerr.With(err, "file", file)
			}
			for _, spec := range specs {
				if !analysis.IsRelativeSpecifier(spec) {
					continue
				}
				resolvedPath := spec
				if !strings.HasPrefix(spec, "/") {
					resolvedPath = path.Join(path.Dir(file), spec)
				}
				enqueue(resolvedPath)
				enqueue(resolvedPath + ".js")
			}
		}

		c.reachable[arch.Name()] = reached
	}
	return nil
}

// resolve classifies each build target's reachable files and maps its used
// free symbols to providers.
func (c *conversion) resolve() {
	legacy := c.unit.Dialect() == domain.DialectLegacyInterop

	for _, arch := range c.activeArchs {
		name := arch.Name()
		owned := make(map[string]struct{})
		used := make(map[string]struct{})

		for file := range c.reachable[name] {
			scan := c.globals.Files[file]
			if scan == nil {
				continue
			}
			for s := range scan.Writes {
				owned[s] = struct{}{}
			}
			for s := range scan.Reads {
				used[s] = struct{}{}
			}
		}
		// Exported symbols are owned by promise even when no reachable file
		// assigns them.
		for _, s := range c.unit.ExportsFor(name) {
			owned[s] = struct{}{}
		}
		// In the interop dialect the runtime itself provides require.
		if legacy {
			delete(used, "require")
		}

		for s := range used {
			if capability, ok := capabilityFor(s); ok {
				c.capabilities[capability] = struct{}{}
			}
		}

		c.owned[name] = owned
		c.used[name] = used
		c.resolved[name] = c.unit.resolveGlobals(name, used, owned)
	}
}

// capabilityFor maps a reserved framework symbol to the capability module
// backing it. Remaining reserved names (Cordova, bootstrap hooks) are
// satisfied by the namespace placeholders alone.
func capabilityFor(symbol string) (string, bool) {
	switch symbol {
	case "Npm", "Assets", "require":
		return symbol, true
	}
	return "", false
}

// rewriteFiles rewrites every reachable file: owned and unresolved symbols
// become namespace accesses, resolved symbols are bound by imports. A file
// reachable from several targets gets the merged view, server first.
func (c *conversion) rewriteFiles(ctx context.Context) error {
	dialect := c.unit.Dialect()

	for _, file := range sortedKeys(c.files) {
		ownedSet := make(map[string]struct{})
		externals := make(map[string]string)
		reachedByAny := false

		for _, arch := range c.activeArchs {
			name := arch.Name()
			if _, ok := c.reachable[name][file]; !ok {
				continue
			}
			reachedByAny = true
			for s := range c.owned[name] {
				ownedSet[s] = struct{}{}
			}
			for s := range c.used[name] {
				if _, ok := c.resolved[name][s]; ok {
					continue
				}
				if analysis.IsEnvGlobal(s) {
					continue
				}
				// Unresolved free symbols fall back to the namespace.
				ownedSet[s] = struct{}{}
			}
			for s, spec := range c.resolved[name] {
				if _, ok := externals[s]; !ok {
					externals[s] = spec
				}
			}
		}
		if !reachedByAny {
			continue
		}

		res, err := analysis.RewriteFile(ctx, &analysis.RewriteRequest{
			Path:               file,
			Source:             c.files[file],
			Owned:              ownedSet,
			Externals:          externals,
			NamespaceSpecifier: namespaceSpecifierFor(file),
			Dialect:            dialect,
		})
		if err != nil {
			return err
		}
		if !res.Changed {
			continue
		}
		c.files[file] = res.Source
		if err := c.writeOutputFile(file, res.Source); err != nil {
			return err
		}
	}
	return nil
}

// writeOutputFile writes one output-relative file of the converted tree.
func (c *conversion) writeOutputFile(rel string, data []byte) error {
	p := filepath.Join(c.unit.outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", p)
	}
	//nolint:gosec // The output tree is owned by this conversion
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write output file"), "path", p)
	}
	return nil
}

// exportsByArch snapshots the per-target export lists for the conversion
// record.
func (c *conversion) exportsByArch() map[string][]string {
	out := make(map[string][]string, len(c.activeArchs))
	for _, arch := range c.activeArchs {
		out[arch.Name()] = c.unit.ExportsFor(arch.Name())
	}
	return out
}

// normalizeSourcePath turns a declared file path into the output-relative
// form used as the files-map key.
func normalizeSourcePath(p string) string {
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}

// namespaceSpecifierFor returns the relative specifier of the package's
// namespace module as seen from one file.
func namespaceSpecifierFor(file string) string {
	depth := strings.Count(file, "/")
	if depth == 0 {
		return "./" + namespaceModule
	}
	return strings.Repeat("../", depth) + namespaceModule
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
