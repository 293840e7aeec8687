// Package npm writes the manifests of converted modules.
package npm

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestWriter = (*Writer)(nil)

// Writer implements ports.ManifestWriter.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write emits dir/package.json for the manifest.
func (w *Writer) Write(dir string, m *domain.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to marshal manifest"), "package", m.Name)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, "package.json")
	//nolint:gosec // The output tree is owned by this conversion
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", path)
	}
	return nil
}
