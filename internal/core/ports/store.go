package ports

import "go.trai.ch/exodus/internal/core/domain"

// ConvertInfoStore persists per-package conversion records between runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ConvertInfoStore interface {
	// Get retrieves the conversion record for a package name.
	// Returns nil, nil if not found.
	Get(packageName string) (*domain.ConvertInfo, error)

	// Put stores the conversion record.
	Put(info domain.ConvertInfo) error
}

// ConvertInfoStoreFactory opens a ConvertInfoStore rooted at the given
// directory. The state directory lives under the configured output root, so
// the store can only be opened once the settings are loaded.
type ConvertInfoStoreFactory func(dir string) (ConvertInfoStore, error)
