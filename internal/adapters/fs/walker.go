// Package fs provides file system adapters for walking, hashing, and copying
// package trees.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files under root, skipping VCS metadata and the legacy
// framework's local state directories. Paths start with root, the way
// filepath.WalkDir yields them.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if w.ignored(d, ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// ignored reports whether an entry matches the built-in or caller-supplied
// ignore patterns.
func (w *Walker) ignored(d fs.DirEntry, ignores []string) bool {
	name := d.Name()

	if d.IsDir() {
		switch name {
		case ".git", ".jj", ".npm", "node_modules":
			return true
		}
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}

	return false
}
