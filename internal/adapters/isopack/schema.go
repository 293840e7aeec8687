package isopack

// descriptorFile is the top-level bundle descriptor. Newer bundles wrap the
// body in a format-versioned envelope; older ones are the body directly.
type descriptorFile struct {
	Name    string  `json:"name"`
	Summary string  `json:"summary"`
	Version string  `json:"version"`
	Builds  []build `json:"builds"`
}

// envelope is the format-versioned wrapper around descriptorFile.
type envelope map[string]descriptorFile

// build points at one per-architecture build file.
type build struct {
	Kind string `json:"kind"`
	Arch string `json:"arch"`
	Path string `json:"path"`
}

// buildFile is a per-architecture build: its dependency uses, exported
// symbols and resources.
type buildFile struct {
	Uses            []use             `json:"uses"`
	Implies         []use             `json:"implies"`
	DeclaredExports []declaredExport  `json:"declaredExports"`
	Resources       []resource        `json:"resources"`
	NpmDependencies map[string]string `json:"npmDependencies"`
}

// declaredExport is one exported global symbol of a build.
type declaredExport struct {
	Name     string `json:"name"`
	TestOnly bool   `json:"testOnly"`
}

// use is one legacy package dependency edge.
type use struct {
	Package    string `json:"package"`
	Constraint string `json:"constraint"`
	Weak       bool   `json:"weak"`
	Unordered  bool   `json:"unordered"`
}

// resource is one file of a build.
type resource struct {
	Type        string      `json:"type"`
	Path        string      `json:"path"`
	File        string      `json:"file"`
	ServePath   string      `json:"servePath"`
	FileOptions fileOptions `json:"fileOptions"`
}

type fileOptions struct {
	Lazy       bool `json:"lazy"`
	MainModule bool `json:"mainModule"`
}
