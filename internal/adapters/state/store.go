// Package state persists per-package conversion records between runs.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConvertInfoStore = (*Store)(nil)

// Store implements ports.ConvertInfoStore with one JSON file per package.
// File names are the hex SHA-256 of the package name: legacy package names
// may contain characters that are not filename-safe.
type Store struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]domain.ConvertInfo
}

// NewStore creates a ConvertInfoStore backed by the given directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create state directory"), "dir", dir)
	}
	return &Store{
		dir:   filepath.Clean(dir),
		cache: make(map[string]domain.ConvertInfo),
	}, nil
}

func (s *Store) entryPath(packageName string) string {
	sum := sha256.Sum256([]byte(packageName))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Get retrieves the conversion record for a package, or nil if none exists.
func (s *Store) Get(packageName string) (*domain.ConvertInfo, error) {
	s.mu.RLock()
	if info, ok := s.cache[packageName]; ok {
		s.mu.RUnlock()
		return &info, nil
	}
	s.mu.RUnlock()

	//nolint:gosec // Path is derived from the hashed package name
	data, err := os.ReadFile(s.entryPath(packageName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read conversion record"), "package", packageName)
	}

	var info domain.ConvertInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal conversion record"), "package", packageName)
	}

	s.mu.Lock()
	s.cache[packageName] = info
	s.mu.Unlock()

	return &info, nil
}

// Put stores the conversion record.
func (s *Store) Put(info domain.ConvertInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal conversion record")
	}

	//nolint:gosec // Path is derived from the hashed package name
	if err := os.WriteFile(s.entryPath(info.PackageName), data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write conversion record"), "package", info.PackageName)
	}

	s.mu.Lock()
	s.cache[info.PackageName] = info
	s.mu.Unlock()

	return nil
}
