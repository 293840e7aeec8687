package ports

import "go.trai.ch/exodus/internal/core/domain"

// ConfigLoader loads the tool settings.
type ConfigLoader interface {
	// Load reads the configuration file at path.
	Load(path string) (*domain.Settings, error)
}
