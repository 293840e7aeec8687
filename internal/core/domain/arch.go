// Package domain contains the core domain models for the package converter:
// the build-target (architecture) tree, dependency metadata, and the value
// types shared between the loaders and the conversion engine.
package domain

import (
	"sort"
	"strings"
)

// ArchServer and ArchClient are the two root build targets. Finer-grained
// targets (e.g. "client.cordova") are children of a root and inherit its
// exports, imports, assets and implied packages.
const (
	ArchServer = "server"
	ArchClient = "client"
)

// ArchRoots lists the root build targets in deterministic emission order.
var ArchRoots = []string{ArchServer, ArchClient}

// Arch is one node of the build-target inheritance tree. A node records only
// its own modifications; query methods default to the inherited view, which
// merges the ancestor chain live (never a snapshot). Nodes are owned by the
// package unit that created them; parent and children references are
// non-owning.
type Arch struct {
	name     string
	parent   *Arch
	children []*Arch

	exports   []InternedString
	imports   map[string]int // specifier -> insertion order
	implied   []InternedString
	preload   []InternedString
	unordered []InternedString
	assets    []string
	main      string

	modified bool
}

// NewArch creates a root build-target node.
func NewArch(name string) *Arch {
	return &Arch{
		name:    name,
		imports: make(map[string]int),
	}
}

// NewChildArch creates a build-target node inheriting from parent and
// registers it in the parent's child set.
func NewChildArch(name string, parent *Arch) *Arch {
	a := NewArch(name)
	a.parent = parent
	parent.children = append(parent.children, a)
	return a
}

// Name returns the target name (e.g. "server", "client.cordova").
func (a *Arch) Name() string { return a.name }

// Parent returns the parent node, or nil for a root target.
func (a *Arch) Parent() *Arch { return a.parent }

// Children returns the registered child nodes.
func (a *Arch) Children() []*Arch { return a.children }

// Root walks up to the root target of this node's chain.
func (a *Arch) Root() *Arch {
	r := a
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// AddExport records an exported symbol on this node.
func (a *Arch) AddExport(symbol InternedString) {
	a.modified = true
	for _, e := range a.exports {
		if e == symbol {
			return
		}
	}
	a.exports = append(a.exports, symbol)
}

// AddImport records a module specifier with its declaration-order index.
// Re-adding a known specifier keeps the original index.
func (a *Arch) AddImport(specifier string, order int) {
	a.modified = true
	if _, ok := a.imports[specifier]; ok {
		return
	}
	a.imports[specifier] = order
}

// AddAsset records an asset file path served for this target.
func (a *Arch) AddAsset(path string) {
	a.modified = true
	a.assets = append(a.assets, path)
}

// AddImpliedPackage records a package whose exports consumers of this
// package gain automatically.
func (a *Arch) AddImpliedPackage(name InternedString) {
	a.modified = true
	a.implied = appendUnique(a.implied, name)
}

// AddPreloadPackage records a strong, ordered dependency for this target.
func (a *Arch) AddPreloadPackage(name InternedString) {
	a.modified = true
	a.preload = appendUnique(a.preload, name)
}

// AddUnorderedPackage records an unordered (load-order independent)
// dependency for this target.
func (a *Arch) AddUnorderedPackage(name InternedString) {
	a.modified = true
	a.unordered = appendUnique(a.unordered, name)
}

// SetMainModule records the target's main module path.
func (a *Arch) SetMainModule(path string) {
	a.modified = true
	a.main = path
}

// Exports returns the exported symbols. The inherited view concatenates the
// ancestor chain's own exports (outermost first) with this node's.
func (a *Arch) Exports(ownOnly bool) []InternedString {
	if ownOnly || a.parent == nil {
		return append([]InternedString(nil), a.exports...)
	}
	merged := a.parent.Exports(false)
	for _, e := range a.exports {
		merged = appendUnique(merged, e)
	}
	return merged
}

// Imports returns the module specifiers sorted by declaration-order index.
// Ancestor and local entries interleave by their true indices rather than
// concatenating, so a child import declared between two parent imports lands
// between them.
func (a *Arch) Imports(ownOnly bool) []string {
	merged := make(map[string]int)
	a.collectImports(merged, ownOnly)

	specs := make([]string, 0, len(merged))
	for s := range merged {
		specs = append(specs, s)
	}
	sort.Slice(specs, func(i, j int) bool {
		if merged[specs[i]] != merged[specs[j]] {
			return merged[specs[i]] < merged[specs[j]]
		}
		return specs[i] < specs[j]
	})
	return specs
}

func (a *Arch) collectImports(into map[string]int, ownOnly bool) {
	if !ownOnly && a.parent != nil {
		a.parent.collectImports(into, false)
	}
	for s, ord := range a.imports {
		if _, ok := into[s]; !ok {
			into[s] = ord
		}
	}
}

// Assets returns the asset paths, ancestors first.
func (a *Arch) Assets(ownOnly bool) []string {
	if ownOnly || a.parent == nil {
		return append([]string(nil), a.assets...)
	}
	return append(a.parent.Assets(false), a.assets...)
}

// ImpliedPackages returns the implied package names, ancestors first.
func (a *Arch) ImpliedPackages(ownOnly bool) []InternedString {
	if ownOnly || a.parent == nil {
		return append([]InternedString(nil), a.implied...)
	}
	merged := a.parent.ImpliedPackages(false)
	for _, n := range a.implied {
		merged = appendUnique(merged, n)
	}
	return merged
}

// PreloadPackages returns the strong dependency names, ancestors first.
func (a *Arch) PreloadPackages(ownOnly bool) []InternedString {
	if ownOnly || a.parent == nil {
		return append([]InternedString(nil), a.preload...)
	}
	merged := a.parent.PreloadPackages(false)
	for _, n := range a.preload {
		merged = appendUnique(merged, n)
	}
	return merged
}

// UnorderedPackages returns the unordered dependency names, ancestors first.
func (a *Arch) UnorderedPackages(ownOnly bool) []InternedString {
	if ownOnly || a.parent == nil {
		return append([]InternedString(nil), a.unordered...)
	}
	merged := a.parent.UnorderedPackages(false)
	for _, n := range a.unordered {
		merged = appendUnique(merged, n)
	}
	return merged
}

// MainModule returns this node's main module path, falling back to the
// nearest ancestor's unless ownOnly is set.
func (a *Arch) MainModule(ownOnly bool) string {
	if a.main != "" || ownOnly || a.parent == nil {
		return a.main
	}
	return a.parent.MainModule(false)
}

// IsNoop reports whether the node was never modified. With ancestors included
// it reports whether the whole chain is unmodified.
func (a *Arch) IsNoop(includeAncestors bool) bool {
	if a.modified {
		return false
	}
	if includeAncestors && a.parent != nil {
		return a.parent.IsNoop(true)
	}
	return true
}

// ActiveArch walks upward while this node is a no-op and returns the nearest
// node with content. A child target identical to its parent therefore
// resolves to the parent's generated files and is skipped at output time.
func (a *Arch) ActiveArch() *Arch {
	node := a
	for node.parent != nil && node.IsNoop(false) {
		node = node.parent
	}
	return node
}

// ParseLegacyArch maps a legacy bundle architecture string to a build-target
// name in this tree. Unknown strings map to the server root, matching the
// legacy framework's treatment of os-specific builds.
func ParseLegacyArch(legacy string) string {
	switch {
	case legacy == ArchServer || legacy == ArchClient:
		return legacy
	case legacy == "web.browser" || legacy == "web.browser.legacy" || legacy == "web":
		return ArchClient
	case legacy == "web.cordova":
		return ArchClient + ".cordova"
	case strings.HasPrefix(legacy, "web."):
		return ArchClient + "." + strings.TrimPrefix(legacy, "web.")
	default:
		return ArchServer
	}
}

func appendUnique(list []InternedString, v InternedString) []InternedString {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}
