package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/exodus/internal/core/domain"
)

func sym(s string) domain.InternedString {
	return domain.NewInternedString(s)
}

func TestArch_ImportsInterleaveByDeclarationOrder(t *testing.T) {
	parent := domain.NewArch(domain.ArchClient)
	child := domain.NewChildArch("client.cordova", parent)

	parent.AddImport("a", 0)
	parent.AddImport("b", 1)
	child.AddImport("c", 2)

	assert.Equal(t, []string{"a", "b", "c"}, child.Imports(false))
	assert.Equal(t, []string{"c"}, child.Imports(true))

	// A later parent import lands after the child's by true order: reads are
	// live, not snapshotted.
	parent.AddImport("d", 3)
	assert.Equal(t, []string{"a", "b", "c", "d"}, child.Imports(false))
}

func TestArch_ExportInheritance(t *testing.T) {
	parent := domain.NewArch(domain.ArchServer)
	child := domain.NewChildArch("server.custom", parent)

	parent.AddExport(sym("Base"))
	child.AddExport(sym("Extra"))
	parent.AddExport(sym("Late"))

	got := child.Exports(false)
	require.Len(t, got, 3)
	assert.Equal(t, "Base", got[0].String())
	assert.Equal(t, "Late", got[1].String())
	assert.Equal(t, "Extra", got[2].String())

	own := child.Exports(true)
	require.Len(t, own, 1)
	assert.Equal(t, "Extra", own[0].String())
}

func TestArch_MainModuleFallsBackToAncestor(t *testing.T) {
	parent := domain.NewArch(domain.ArchClient)
	child := domain.NewChildArch("client.cordova", parent)

	parent.SetMainModule("./client.js")
	assert.Equal(t, "./client.js", child.MainModule(false))
	assert.Equal(t, "", child.MainModule(true))

	child.SetMainModule("./cordova.js")
	assert.Equal(t, "./cordova.js", child.MainModule(false))
}

func TestArch_ActiveArchSkipsNoopChild(t *testing.T) {
	parent := domain.NewArch(domain.ArchClient)
	child := domain.NewChildArch("client.cordova", parent)

	parent.AddExport(sym("Thing"))

	require.True(t, child.IsNoop(false))
	require.False(t, child.IsNoop(true))
	assert.Same(t, parent, child.ActiveArch())

	child.AddImport("./cordova-only.js", 5)
	assert.Same(t, child, child.ActiveArch())
}

func TestArch_PreloadAndImpliedMerge(t *testing.T) {
	parent := domain.NewArch(domain.ArchServer)
	child := domain.NewChildArch("server.custom", parent)

	parent.AddPreloadPackage(sym("base"))
	child.AddPreloadPackage(sym("extra"))
	child.AddPreloadPackage(sym("base")) // duplicate, kept once

	got := child.PreloadPackages(false)
	require.Len(t, got, 2)
	assert.Equal(t, "base", got[0].String())
	assert.Equal(t, "extra", got[1].String())

	parent.AddImpliedPackage(sym("implied"))
	implied := child.ImpliedPackages(false)
	require.Len(t, implied, 1)
	assert.Equal(t, "implied", implied[0].String())
	assert.Empty(t, child.ImpliedPackages(true))
}

func TestParseLegacyArch(t *testing.T) {
	assert.Equal(t, domain.ArchServer, domain.ParseLegacyArch("os"))
	assert.Equal(t, domain.ArchServer, domain.ParseLegacyArch("os.linux.x86_64"))
	assert.Equal(t, domain.ArchClient, domain.ParseLegacyArch("web.browser"))
	assert.Equal(t, domain.ArchClient, domain.ParseLegacyArch("web.browser.legacy"))
	assert.Equal(t, "client.cordova", domain.ParseLegacyArch("web.cordova"))
}
