package config

// Exodusfile represents the structure of the exodus.yaml configuration file.
type Exodusfile struct {
	Version     string   `yaml:"version"`
	LegacyRoot  string   `yaml:"legacyRoot"`
	PackageDirs []string `yaml:"packageDirs"`
	OutputDir   string   `yaml:"outputDir"`
	Scope       string   `yaml:"scope"`
	Packages    []string `yaml:"packages"`
	Parallelism int      `yaml:"parallelism"`
}
