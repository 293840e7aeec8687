package domain

// Settings is the tool configuration loaded from exodus.yaml.
type Settings struct {
	// LegacyRoot is the legacy framework's installation root; distributable
	// bundles for installed packages live underneath it.
	LegacyRoot string

	// PackageDirs are the directories searched for descriptor-script
	// packages, in order.
	PackageDirs []string

	// OutputDir is the root the converted module folders are written under.
	// Each package owns exactly one folder below it.
	OutputDir string

	// Scope is the npm scope converted packages are published under
	// (e.g. "@converted").
	Scope string

	// Packages is the requested package set seeded into the registry.
	Packages []string

	// Parallelism bounds the concurrent dependency writes. Zero means one
	// writer per CPU.
	Parallelism int
}
