package fs

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TreeCopier = (*Copier)(nil)

// Copier materializes package trees into the output directory.
type Copier struct {
	walker *Walker
}

// NewCopier creates a new Copier.
func NewCopier(walker *Walker) *Copier {
	return &Copier{walker: walker}
}

// CopyTree copies every file under src into dst, preserving the relative
// layout. When keep is non-nil, files whose slash-separated relative path it
// rejects are skipped.
func (c *Copier) CopyTree(src, dst string, keep func(rel string) bool) error {
	for path := range c.walker.WalkFiles(src, nil) {
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		rel = filepath.ToSlash(rel)
		if keep != nil && !keep(rel) {
			continue
		}
		if err := c.CopyFile(path, filepath.Join(dst, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}
	return nil
}

// CopyFile copies one file, creating the destination's parent directories.
func (c *Copier) CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination directory"), "path", dst)
	}

	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source file"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.Create(dst) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination file"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck,gosec // Error path, best effort
		return zerr.With(zerr.Wrap(err, "failed to copy file content"), "path", dst)
	}

	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to finalize destination file"), "path", dst)
	}
	return nil
}
