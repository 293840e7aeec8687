package domain

// Manifest is the package.json of one converted module. Field order matters
// to the target runtime's conditional-exports matching, so ordered structs
// are used where JSON maps would sort alphabetically.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`

	Exports map[string]ExportConditions `json:"exports,omitempty"`
	Imports map[string]string           `json:"imports,omitempty"`

	Dependencies         map[string]string `json:"dependencies,omitempty"`
	PeerDependencies     map[string]string `json:"peerDependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`

	Exodus *ManifestMetadata `json:"exodus,omitempty"`
}

// ExportConditions is one conditional-exports entry. The runtime picks the
// first matching condition in declaration order, so "node" must precede
// "default".
type ExportConditions struct {
	Node    string `json:"node,omitempty"`
	Require string `json:"require,omitempty"`
	Default string `json:"default,omitempty"`
}

// ManifestMetadata is the converter's own manifest block, carrying what
// consuming conversions need to resolve against this package without
// re-reading its legacy declarations.
type ManifestMetadata struct {
	LegacyName string `json:"legacyName"`
	Dialect    string `json:"dialect"`

	// Archs maps build-target name to its conversion facts.
	Archs map[string]ArchMetadata `json:"archs,omitempty"`
}

// ArchMetadata is the per-build-target slice of ManifestMetadata.
type ArchMetadata struct {
	Exports    []string `json:"exports,omitempty"`
	Assets     []string `json:"assets,omitempty"`
	Implies    []string `json:"implies,omitempty"`
	MainModule string   `json:"mainModule,omitempty"`
}
