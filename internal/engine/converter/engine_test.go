package converter_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/exodus/internal/adapters/descriptor"
	"go.trai.ch/exodus/internal/adapters/fs"
	"go.trai.ch/exodus/internal/adapters/isopack"
	"go.trai.ch/exodus/internal/adapters/npm"
	"go.trai.ch/exodus/internal/adapters/state"
	"go.trai.ch/exodus/internal/adapters/telemetry"
	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/exodus/internal/core/ports/mocks"
	"go.trai.ch/exodus/internal/engine/converter"
	"go.uber.org/mock/gomock"
)

func newTestEngine(t *testing.T) *converter.Engine {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	walker := fs.NewWalker()
	return converter.NewEngine(
		descriptor.NewInterpreter(),
		isopack.NewReader(),
		fs.NewHasher(walker),
		fs.NewCopier(walker),
		func(dir string) (ports.ConvertInfoStore, error) { return state.NewStore(dir) },
		npm.NewWriter(),
		telemetry.NewNoOp(),
		log,
	)
}

func writeSource(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readOutput(t *testing.T, outDir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// sessionWorkspace lays out two descriptor packages: session depends on
// tracker and reads its exported global.
func sessionWorkspace(t *testing.T) (pkgDir, outDir string, settings *domain.Settings) {
	t.Helper()
	pkgDir = t.TempDir()
	outDir = t.TempDir()

	writeSource(t, pkgDir, "tracker/package.js", `
Package.describe({
  name: "tracker",
  version: "1.3.0",
  summary: "Dependency tracking",
});

Package.onUse(function (api) {
  api.export("Tracker");
  api.addFiles("tracker.js");
});
`)
	writeSource(t, pkgDir, "tracker/tracker.js", `
Tracker = {
  active: false,
  flush() {},
};
`)

	writeSource(t, pkgDir, "session/package.js", `
Package.describe({
  name: "session",
  version: "1.2.3",
  summary: "Reactive session store",
});

Package.onUse(function (api) {
  api.use("tracker@1.3.0");
  api.export("Session");
  api.addFiles("session.js");
});
`)
	writeSource(t, pkgDir, "session/session.js", `
Session = {
  store: {},
  get(key) {
    return Tracker.active ? this.store[key] : this.store[key];
  },
};
`)

	settings = &domain.Settings{
		PackageDirs: []string{pkgDir},
		OutputDir:   outDir,
		Scope:       "@converted",
		Parallelism: 2,
	}
	return pkgDir, outDir, settings
}

func TestEngine_ConvertsDescriptorPackages(t *testing.T) {
	_, outDir, settings := sessionWorkspace(t)
	engine := newTestEngine(t)

	delta, err := engine.Run(context.Background(), settings, []string{"session"}, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"@converted/session": "^1.2.3"}, delta)

	// The dependency was converted alongside.
	assert.DirExists(t, filepath.Join(outDir, "tracker"))

	// The descriptor never reaches the output tree.
	assert.NoFileExists(t, filepath.Join(outDir, "session", "package.js"))

	rewritten := readOutput(t, outDir, "session/session.js")
	assert.Contains(t, rewritten, `import __g from "./__globals.js";`)
	assert.Contains(t, rewritten, `import { Tracker } from "@converted/tracker";`)
	assert.Contains(t, rewritten, "__g.Session = {")
	assert.NotContains(t, rewritten, "__g.Tracker")

	globals := readOutput(t, outDir, "session/__globals.js")
	assert.Contains(t, globals, "__g.Session = undefined;")
	assert.Contains(t, globals, "export default __g;")

	entry := readOutput(t, outDir, "session/__server.js")
	depImport := strings.Index(entry, `import "@converted/tracker";`)
	localImport := strings.Index(entry, `import "./session.js";`)
	require.GreaterOrEqual(t, depImport, 0)
	require.GreaterOrEqual(t, localImport, 0)
	assert.Less(t, depImport, localImport, "dependency must load before local sources")
	assert.Contains(t, entry, "export const Session = __g.Session;")
}

func TestEngine_ManifestContents(t *testing.T) {
	_, outDir, settings := sessionWorkspace(t)
	engine := newTestEngine(t)

	_, err := engine.Run(context.Background(), settings, []string{"session"}, false)
	require.NoError(t, err)

	var m domain.Manifest
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, outDir, "session/package.json")), &m))

	assert.Equal(t, "@converted/session", m.Name)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, "Reactive session store", m.Description)
	assert.Equal(t, "module", m.Type)
	assert.Equal(t, map[string]string{"@converted/tracker": "^1.3.0"}, m.Dependencies)

	root := m.Exports["."]
	assert.Equal(t, "./__server.js", root.Node)
	assert.Equal(t, "./__require.cjs", root.Require)
	assert.Equal(t, "./__client.js", root.Default)

	require.NotNil(t, m.Exodus)
	assert.Equal(t, "session", m.Exodus.LegacyName)
	assert.Equal(t, "native", m.Exodus.Dialect)
	assert.Equal(t, []string{"Session"}, m.Exodus.Archs["server"].Exports)

	for _, version := range m.Dependencies {
		assert.NotEqual(t, domain.PlaceholderVersion, version)
	}
}

func TestEngine_SecondRunSkipsUnchanged(t *testing.T) {
	_, outDir, settings := sessionWorkspace(t)
	engine := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Run(ctx, settings, []string{"session"}, false)
	require.NoError(t, err)

	// Tamper with the output; an unchanged input must not overwrite it.
	tampered := filepath.Join(outDir, "session", "session.js")
	require.NoError(t, os.WriteFile(tampered, []byte("// tampered\n"), 0o644))

	delta, err := engine.Run(ctx, settings, []string{"session"}, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"@converted/session": "^1.2.3"}, delta)
	assert.Equal(t, "// tampered\n", readOutput(t, outDir, "session/session.js"))

	// Force bypasses the cache and rebuilds the file.
	_, err = engine.Run(ctx, settings, []string{"session"}, true)
	require.NoError(t, err)
	assert.Contains(t, readOutput(t, outDir, "session/session.js"), "__g.Session = {")
}

func TestEngine_ConvertsBundlePackage(t *testing.T) {
	legacyRoot := t.TempDir()
	outDir := t.TempDir()

	bundleDir := filepath.Join(legacyRoot, "packages", "underscore")
	writeSource(t, bundleDir, "isopack.json", `{
  "isopack-2": {
    "name": "underscore",
    "summary": "Collection helpers",
    "version": "1.0.10",
    "builds": [{"kind": "main", "arch": "os", "path": "os.json"}]
  }
}`)
	writeSource(t, bundleDir, "os.json", `{
  "declaredExports": [{"name": "_"}],
  "resources": [
    {"type": "source", "path": "underscore.js", "file": "underscore.js"}
  ]
}`)
	writeSource(t, bundleDir, "underscore.js", `
_ = {
  each(list, fn) {
    for (var i = 0; i < list.length; i++) fn(list[i]);
  },
};
`)

	settings := &domain.Settings{
		LegacyRoot: legacyRoot,
		OutputDir:  outDir,
		Scope:      "@converted",
	}
	engine := newTestEngine(t)

	delta, err := engine.Run(context.Background(), settings, []string{"underscore"}, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"@converted/underscore": "^1.0.10"}, delta)

	// Bundle sources predate the native module system and stay require-based.
	rewritten := readOutput(t, outDir, "underscore/underscore.js")
	assert.Contains(t, rewritten, `const __g = require("./__globals.js");`)
	assert.Contains(t, rewritten, "__g._ = {")

	entry := readOutput(t, outDir, "underscore/__server.js")
	assert.Contains(t, entry, `require("./underscore.js");`)
	assert.Contains(t, entry, "_: __g._,")

	var m domain.Manifest
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, outDir, "underscore/package.json")), &m))
	assert.Empty(t, m.Type)
	assert.Equal(t, "legacy", m.Exodus.Dialect)
	assert.Equal(t, "./__server.js", m.Exports["."].Node)
	assert.Equal(t, "./__server.js", m.Exports["."].Require)
}

func TestEngine_MainModuleExportsForwarded(t *testing.T) {
	pkgDir := t.TempDir()
	outDir := t.TempDir()

	writeSource(t, pkgDir, "widgets/package.js", `
Package.describe({ name: "widgets", version: "2.0.0" });

Package.onUse(function (api) {
  api.mainModule("widgets.js");
});
`)
	writeSource(t, pkgDir, "widgets/widgets.js", `export const Widget = {
  render() {},
};
`)

	settings := &domain.Settings{
		PackageDirs: []string{pkgDir},
		OutputDir:   outDir,
		Scope:       "@converted",
	}
	engine := newTestEngine(t)

	_, err := engine.Run(context.Background(), settings, []string{"widgets"}, false)
	require.NoError(t, err)

	// The wrapper evaluates the main module and forwards its own exports.
	entry := readOutput(t, outDir, "widgets/__server.js")
	assert.Contains(t, entry, `import "./widgets.js";`)
	assert.Contains(t, entry, `export * from "./widgets.js";`)
}

func TestEngine_NearerProviderWins(t *testing.T) {
	pkgDir := t.TempDir()
	outDir := t.TempDir()

	writeSource(t, pkgDir, "core/package.js", `
Package.describe({ name: "core", version: "0.1.0" });

Package.onUse(function (api) {
  api.export("Shared");
  api.addFiles("core.js");
});
`)
	writeSource(t, pkgDir, "core/core.js", `Shared = { origin: "core" };
`)

	writeSource(t, pkgDir, "bundle/package.js", `
Package.describe({ name: "bundle", version: "0.2.0" });

Package.onUse(function (api) {
  api.imply("core@0.1.0");
  api.export("Shared");
  api.addFiles("bundle.js");
});
`)
	writeSource(t, pkgDir, "bundle/bundle.js", `Shared = { origin: "bundle" };
`)

	writeSource(t, pkgDir, "app/package.js", `
Package.describe({ name: "app", version: "1.0.0" });

Package.onUse(function (api) {
  api.use("bundle@0.2.0");
  api.export("App");
  api.addFiles("app.js");
});
`)
	writeSource(t, pkgDir, "app/app.js", `App = { origin: Shared.origin };
`)

	settings := &domain.Settings{
		PackageDirs: []string{pkgDir},
		OutputDir:   outDir,
		Scope:       "@converted",
	}
	engine := newTestEngine(t)

	_, err := engine.Run(context.Background(), settings, []string{"app"}, false)
	require.NoError(t, err)

	// Both bundle and its implied core export Shared; the direct dependency
	// is the nearer provider and must win.
	rewritten := readOutput(t, outDir, "app/app.js")
	assert.Contains(t, rewritten, `import { Shared } from "@converted/bundle";`)
	assert.NotContains(t, rewritten, "@converted/core")
}

func TestEngine_NoPackagesRequested(t *testing.T) {
	engine := newTestEngine(t)
	settings := &domain.Settings{OutputDir: t.TempDir(), Scope: "@converted"}

	_, err := engine.Run(context.Background(), settings, nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoPackagesRequested)
}
