package domain

import "time"

// ConvertInfo records the outcome of one package conversion so an unchanged
// package can be skipped on a later run. The resolution maps and export lists
// are persisted because dependents resolve their globals through them even
// when this package's write is skipped.
type ConvertInfo struct {
	PackageName string    `json:"package_name,omitzero"`
	InputHash   string    `json:"input_hash,omitzero"`
	Version     string    `json:"version,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`

	// ResolvedGlobals maps build-target name -> global symbol -> providing
	// module specifier, as computed during the write phase.
	ResolvedGlobals map[string]map[string]string `json:"resolved_globals,omitzero"`

	// Exports maps build-target name -> exported symbol list.
	Exports map[string][]string `json:"exports,omitzero"`
}
