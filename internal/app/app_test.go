package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/exodus/internal/adapters/config"
	"go.trai.ch/exodus/internal/adapters/descriptor"
	"go.trai.ch/exodus/internal/adapters/fs"
	"go.trai.ch/exodus/internal/adapters/isopack"
	"go.trai.ch/exodus/internal/adapters/npm"
	"go.trai.ch/exodus/internal/adapters/state"
	"go.trai.ch/exodus/internal/adapters/telemetry"
	"go.trai.ch/exodus/internal/app"
	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/exodus/internal/core/ports/mocks"
	"go.trai.ch/exodus/internal/engine/converter"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	walker := fs.NewWalker()
	engine := converter.NewEngine(
		descriptor.NewInterpreter(),
		isopack.NewReader(),
		fs.NewHasher(walker),
		fs.NewCopier(walker),
		func(dir string) (ports.ConvertInfoStore, error) { return state.NewStore(dir) },
		npm.NewWriter(),
		telemetry.NewNoOp(),
		log,
	)
	return app.New(config.NewLoader(), engine, log)
}

// writeWorkspace lays out a one-package legacy workspace and its exodus.yaml.
func writeWorkspace(t *testing.T) (configPath, outDir string) {
	t.Helper()
	root := t.TempDir()
	pkgDir := filepath.Join(root, "packages")
	outDir = filepath.Join(root, "converted")

	require.NoError(t, os.MkdirAll(filepath.Join(pkgDir, "colors"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "colors", "package.js"), []byte(`
Package.describe({ name: "colors", version: "0.4.0" });

Package.onUse(function (api) {
  api.export("Palette");
  api.addFiles("palette.js");
});
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "colors", "palette.js"),
		[]byte("Palette = { primary: \"#336699\" };\n"), 0o644))

	configPath = filepath.Join(root, "exodus.yaml")
	content := fmt.Sprintf(`version: "1"
packageDirs:
  - %s
outputDir: %s
packages:
  - colors
`, pkgDir, outDir)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath, outDir
}

func TestApp_RunConvertsConfiguredPackages(t *testing.T) {
	configPath, outDir := writeWorkspace(t)
	a := newTestApp(t)

	var delta bytes.Buffer
	a.SetDeltaOutput(&delta)

	require.NoError(t, a.Run(context.Background(), nil, app.RunOptions{ConfigPath: configPath}))

	assert.FileExists(t, filepath.Join(outDir, "colors", "package.json"))

	var doc struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(delta.Bytes(), &doc))
	assert.Equal(t, map[string]string{"@converted/colors": "^0.4.0"}, doc.Dependencies)
}

func TestApp_RunArgsOverrideConfiguredPackages(t *testing.T) {
	configPath, outDir := writeWorkspace(t)
	a := newTestApp(t)
	a.SetDeltaOutput(&bytes.Buffer{})

	err := a.Run(context.Background(), []string{"missing"}, app.RunOptions{ConfigPath: configPath})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConversionFailed)
	assert.NoDirExists(t, filepath.Join(outDir, "colors"))
}

func TestApp_RunMissingConfig(t *testing.T) {
	a := newTestApp(t)

	err := a.Run(context.Background(), nil, app.RunOptions{ConfigPath: filepath.Join(t.TempDir(), "exodus.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_RunNoPackages(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, "exodus.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: \"1\"\noutputDir: "+filepath.Join(root, "out")+"\n"), 0o600))

	a := newTestApp(t)
	err := a.Run(context.Background(), nil, app.RunOptions{ConfigPath: configPath})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoPackagesRequested)
}
