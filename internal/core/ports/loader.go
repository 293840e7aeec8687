package ports

// PackageBuilder is the mutation surface a declaration loader drives while
// reading a legacy package. Architecture arguments are legacy target strings
// ("server", "client", "web.browser", "os", ...); nil means every root
// target.
type PackageBuilder interface {
	// Describe records the package's identity fields. A name correction from
	// a parsed descriptor is applied at most once.
	Describe(name, version, summary string)

	// AddExports declares exported global symbols for the given targets.
	AddExports(symbols []string, archs []string)

	// AddNpmDeps declares lower-level ecosystem dependencies (name -> version).
	AddNpmDeps(deps map[string]string)

	// AddImport declares an eager source file for the given targets.
	AddImport(path string, archs []string)

	// AddAssets declares asset files for the given targets.
	AddAssets(paths []string, archs []string)

	// AddDependencies declares legacy package dependencies. Each ref may
	// carry a version constraint ("name@1.2.3").
	AddDependencies(refs []string, archs []string, weak, unordered bool)

	// AddImplies declares implied packages: consumers of this package gain
	// their exports automatically. Implying also uses.
	AddImplies(refs []string, archs []string)

	// SetMainModule declares the main module path for the given targets.
	SetMainModule(path string, archs []string)

	// AddResourceFile maps an output-relative destination path to the backing
	// source file, for packages whose files are materialized individually.
	AddResourceFile(destPath, sourcePath string)

	// MarkFromBundle flags the package as originating from a precompiled
	// distributable bundle rather than a descriptor script.
	MarkFromBundle()
}

// DescriptorLoader executes a package descriptor script as structured data
// and replays its declarations onto a builder.
//
//go:generate go run go.uber.org/mock/mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type DescriptorLoader interface {
	// Load interprets the descriptor script at path. It is a bounded
	// interpreter: only literal call patterns are understood.
	Load(path string, b PackageBuilder) error
}

// BundleLoader reads a precompiled distributable bundle directory and replays
// its declarations onto a builder.
type BundleLoader interface {
	// Load reads the bundle rooted at dir.
	Load(dir string, b PackageBuilder) error
}
