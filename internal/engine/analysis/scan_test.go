package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/engine/analysis"
)

func TestScanFile_FreeReadsAndWrites(t *testing.T) {
	src := []byte(`
Session = new ReactiveDict();
var local = Tracker.autorun(function () {
  return Session.get("key");
});
`)
	scan, err := analysis.ScanFile(context.Background(), src)
	require.NoError(t, err)

	assert.Contains(t, scan.Writes, "Session")
	assert.Contains(t, scan.Reads, "Session")
	assert.Contains(t, scan.Reads, "ReactiveDict")
	assert.Contains(t, scan.Reads, "Tracker")
	assert.NotContains(t, scan.Reads, "local")
}

func TestScanFile_TopLevelDeclarationsBindModuleScope(t *testing.T) {
	src := []byte(`
var helper = 1;
let counter = 2;
function setup() {}
class Widget {}
helper = setup(counter, Widget);
`)
	scan, err := analysis.ScanFile(context.Background(), src)
	require.NoError(t, err)

	assert.Empty(t, scan.Reads)
	assert.Empty(t, scan.Writes)
}

func TestScanFile_ShadowingSuppressesFreeReference(t *testing.T) {
	src := []byte(`
Counter = 0;
function bump(Counter) {
  Counter += 1;
  return Counter;
}
`)
	scan, err := analysis.ScanFile(context.Background(), src)
	require.NoError(t, err)

	assert.Contains(t, scan.Writes, "Counter")
	// The parameter shadows the global inside bump: one free write only.
	require.Len(t, scan.Writes, 1)
	require.Len(t, scan.Reads, 1)
}

func TestScanFile_EnvironmentGlobalsExcluded(t *testing.T) {
	src := []byte(`
console.log(JSON.stringify(process.env));
Meteor.startup(function () {});
`)
	scan, err := analysis.ScanFile(context.Background(), src)
	require.NoError(t, err)

	assert.NotContains(t, scan.Reads, "console")
	assert.NotContains(t, scan.Reads, "JSON")
	assert.NotContains(t, scan.Reads, "process")
	assert.Contains(t, scan.Reads, "Meteor")
}

func TestScanFile_FrameworkReservedNeverOwned(t *testing.T) {
	src := []byte(`
Npm = "hijack";
Assets.getText("x");
`)
	scan, err := analysis.ScanFile(context.Background(), src)
	require.NoError(t, err)

	assert.Contains(t, scan.Reads, "Npm")
	assert.Contains(t, scan.Reads, "Assets")
	assert.NotContains(t, scan.Writes, "Npm")
	assert.NotContains(t, scan.Writes, "Assets")
}

func TestScanFile_DestructuringAndImportsBind(t *testing.T) {
	src := []byte(`
import { fetchOne as fetch1, fetchAll } from "./api.js";
import Defaults from "./defaults.js";
const { host, port = 80 } = Defaults;
fetchAll(host, port, fetch1, Unbound);
`)
	scan, err := analysis.ScanFile(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, scan.Reads, 1)
	assert.Contains(t, scan.Reads, "Unbound")
}

func TestScanFile_ObjectShorthandIsARead(t *testing.T) {
	src := []byte(`
var settings = { Theme, plain: 1, nested: { Theme } };
`)
	scan, err := analysis.ScanFile(context.Background(), src)
	require.NoError(t, err)

	assert.Contains(t, scan.Reads, "Theme")
	// Plain object keys are not references.
	assert.NotContains(t, scan.Reads, "plain")
	assert.NotContains(t, scan.Reads, "nested")
}

func TestScanFile_LoopHeaderBindings(t *testing.T) {
	src := []byte(`
for (const Item of Items) {
  render(Item);
}
for (Key in lookup) {}
`)
	scan, err := analysis.ScanFile(context.Background(), src)
	require.NoError(t, err)

	// A declared loop variable binds; the bare form assigns a free name.
	assert.NotContains(t, scan.Reads, "Item")
	assert.Contains(t, scan.Reads, "Items")
	assert.Contains(t, scan.Reads, "lookup")
	assert.Contains(t, scan.Writes, "Key")
}

func TestScanFile_MalformedSourceIsParseFailure(t *testing.T) {
	_, err := analysis.ScanFile(context.Background(), []byte("function ( {"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParseFailure)
}

func TestClassifyFiles_OwnedVersusUsed(t *testing.T) {
	files := map[string][]byte{
		"a.js": []byte("Store = {};\n"),
		"b.js": []byte("Store.put(Registry.get());\n"),
	}
	globals, err := analysis.ClassifyFiles(context.Background(), files)
	require.NoError(t, err)

	owned := globals.Owned()
	used := globals.Used()

	assert.Contains(t, owned, "Store")
	assert.NotContains(t, owned, "Registry")
	assert.Contains(t, used, "Store")
	assert.Contains(t, used, "Registry")
	assert.Equal(t, []string{"Registry", "Store"}, analysis.SortedNames(used))
}
