package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/exodus/cmd/exodus/commands"
	"go.trai.ch/exodus/internal/adapters/config"
	"go.trai.ch/exodus/internal/adapters/descriptor"
	"go.trai.ch/exodus/internal/adapters/fs"
	"go.trai.ch/exodus/internal/adapters/isopack"
	"go.trai.ch/exodus/internal/adapters/npm"
	"go.trai.ch/exodus/internal/adapters/state"
	"go.trai.ch/exodus/internal/adapters/telemetry"
	"go.trai.ch/exodus/internal/app"
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
	a := app.New(config.NewLoader(), engine, log)
	a.SetDeltaOutput(&bytes.Buffer{})
	return a
}

func writeConfigWithPackage(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	pkgDir := filepath.Join(root, "packages", "colors")
	require.NoError(t, os.MkdirAll(pkgDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.js"), []byte(`
Package.describe({ name: "colors", version: "0.1.0" });

Package.onUse(function (api) {
  api.export("Palette");
  api.addFiles("palette.js");
});
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "palette.js"), []byte("Palette = {};\n"), 0o644))

	configPath := filepath.Join(root, "exodus.yaml")
	content := fmt.Sprintf("version: \"1\"\npackageDirs:\n  - %s\noutputDir: %s\n",
		filepath.Join(root, "packages"), filepath.Join(root, "converted"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestConvert_Success(t *testing.T) {
	configPath := writeConfigWithPackage(t)
	cli := commands.New(newTestApp(t))

	cli.SetArgs([]string{"convert", "--config", configPath, "colors"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestConvert_MissingConfig(t *testing.T) {
	cli := commands.New(newTestApp(t))

	cli.SetArgs([]string{"convert", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "colors"})
	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRoot_Help(t *testing.T) {
	cli := commands.New(newTestApp(t))

	cli.SetArgs([]string{"--help"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestVersion(t *testing.T) {
	cli := commands.New(newTestApp(t))

	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
}
