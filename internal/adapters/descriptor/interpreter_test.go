package descriptor_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/exodus/internal/adapters/descriptor"
	"go.trai.ch/exodus/internal/core/domain"
)

// recordingBuilder captures builder calls as printable events so tests can
// assert on declaration content and order.
type recordingBuilder struct {
	events []string
}

func (r *recordingBuilder) record(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recordingBuilder) Describe(name, version, summary string) {
	r.record("describe %s %s %s", name, version, summary)
}
func (r *recordingBuilder) AddExports(symbols, archs []string) {
	r.record("export %v %v", symbols, archs)
}
func (r *recordingBuilder) AddNpmDeps(deps map[string]string) { r.record("npm %v", deps) }
func (r *recordingBuilder) AddImport(path string, archs []string) {
	r.record("import %s %v", path, archs)
}
func (r *recordingBuilder) AddAssets(paths, archs []string) { r.record("assets %v %v", paths, archs) }
func (r *recordingBuilder) AddDependencies(refs, archs []string, weak, unordered bool) {
	r.record("use %v %v weak=%t unordered=%t", refs, archs, weak, unordered)
}
func (r *recordingBuilder) AddImplies(refs, archs []string) { r.record("imply %v %v", refs, archs) }
func (r *recordingBuilder) SetMainModule(path string, archs []string) {
	r.record("main %s %v", path, archs)
}
func (r *recordingBuilder) AddResourceFile(destPath, sourcePath string) {
	r.record("resource %s %s", destPath, sourcePath)
}
func (r *recordingBuilder) MarkFromBundle() { r.record("bundle") }

func loadScript(t *testing.T, script string) (*recordingBuilder, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.js")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))
	b := &recordingBuilder{}
	return b, descriptor.NewInterpreter().Load(path, b)
}

func TestLoad_FullDescriptor(t *testing.T) {
	b, err := loadScript(t, `
Package.describe({
  name: "session",
  version: "1.2.3",
  summary: "Session provides a reactive dictionary",
});

Package.onUse(function (api) {
  api.versionsFrom("1.8");
  api.use("tracker", ["client", "server"]);
  api.use(["reactive-dict@1.3.0", "ejson"], "client", { unordered: true });
  api.use("blaze", { weak: true });
  api.imply("reactive-dict", "client");
  api.export("Session", "client");
  api.export("SessionTestHook", "client", { testOnly: true });
  api.mainModule("session.js", "client");
  api.addFiles(["history.js", "compat.js"], "client");
  api.addFiles("logo.png", "client", { isAsset: true });
  api.addAssets(["fonts/icons.woff"], "client");
});

Package.onTest(function (api) {
  api.use("tinytest");
  api.export("IgnoredByConversion");
});

Npm.depends({ lodash: "4.17.21" });
Cordova.depends({ "cordova-plugin-device": "2.0.0" });
`)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"describe session 1.2.3 Session provides a reactive dictionary",
		"use [tracker] [client server] weak=false unordered=false",
		"use [reactive-dict@1.3.0 ejson] [client] weak=false unordered=true",
		"use [blaze] [] weak=true unordered=false",
		"imply [reactive-dict] [client]",
		"export [Session] [client]",
		"main session.js [client]",
		"import history.js [client]",
		"import compat.js [client]",
		"assets [logo.png] [client]",
		"assets [fonts/icons.woff] [client]",
		"npm map[lodash:4.17.21]",
	}, b.events)
}

func TestLoad_ArrowCallback(t *testing.T) {
	b, err := loadScript(t, `
Package.onUse((api) => {
  api.use("tracker");
});
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"use [tracker] [] weak=false unordered=false"}, b.events)
}

func TestLoad_NonLiteralArgumentFails(t *testing.T) {
	_, err := loadScript(t, `
var deps = ["tracker"];
Package.onUse(function (api) {
  api.use(deps);
});
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported descriptor construct")
}

func TestLoad_MalformedScriptIsParseFailure(t *testing.T) {
	_, err := loadScript(t, "Package.describe({")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParseFailure)
}

func TestLoad_UnknownTopLevelStatementsIgnored(t *testing.T) {
	b, err := loadScript(t, `
// A descriptor may carry helper noise the interpreter does not understand.
var unrelated = 42;
somethingElse();
Package.describe({ name: "minimal", version: "0.1.0", summary: "" });
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"describe minimal 0.1.0 "}, b.events)
}
