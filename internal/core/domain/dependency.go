package domain

import "strings"

// DependencyStrength classifies a declared dependency.
type DependencyStrength int

const (
	// DepStrong is an ordered dependency: it must be loaded and written
	// before the depending package, and it participates in global
	// resolution.
	DepStrong DependencyStrength = iota
	// DepUnordered is a load-order independent dependency, emitted as a peer
	// dependency. It breaks strong cycles and is never awaited.
	DepUnordered
	// DepWeak is an optional dependency, emitted as an optional dependency
	// and never loaded by the converter itself.
	DepWeak
)

// PlaceholderVersion is the sentinel recorded for a dependency whose concrete
// version is only known once that dependency's own unit has loaded. It must
// never appear in emitted output.
const PlaceholderVersion = "\x00placeholder"

// Dialect selects the module style a converted package is emitted in.
type Dialect int

const (
	// DialectNative emits ESM import/export modules.
	DialectNative Dialect = iota
	// DialectLegacyInterop emits require/module.exports modules for packages
	// whose sources predate the native module system.
	DialectLegacyInterop
)

// String returns "native" or "legacy" for manifest emission.
func (d Dialect) String() string {
	if d == DialectLegacyInterop {
		return "legacy"
	}
	return "native"
}

// SplitDependencyRef splits a legacy dependency reference of the form
// "name@constraint" into its parts. The constraint is empty when absent.
func SplitDependencyRef(ref string) (name, constraint string) {
	if i := strings.IndexByte(ref, '@'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// NpmName converts a legacy package name to its target-ecosystem name under
// the given scope. The legacy author separator ":" is not a legal npm name
// character and becomes "-".
func NpmName(scope, legacyName string) string {
	return scope + "/" + strings.ReplaceAll(legacyName, ":", "-")
}

// SanitizeVersion strips the legacy build-metadata suffix from a version.
// The "+" separator is reserved by the target ecosystem's version syntax and
// must never appear in an emitted version (see ErrPlaceholderVersion for the
// placeholder counterpart of this invariant).
func SanitizeVersion(v string) string {
	if i := strings.IndexByte(v, '+'); i >= 0 {
		return v[:i]
	}
	return v
}
