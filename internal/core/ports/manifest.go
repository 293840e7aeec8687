package ports

import "go.trai.ch/exodus/internal/core/domain"

// ManifestWriter emits the manifest of a converted module folder.
type ManifestWriter interface {
	// Write emits dir/package.json.
	Write(dir string, m *domain.Manifest) error
}
