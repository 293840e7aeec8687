// Package config provides the configuration loader for exodus.
package config

import (
	"os"
	"strings"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultScope is used when exodus.yaml does not name one.
const DefaultScope = "@converted"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct{}

// NewLoader creates a new FileConfigLoader.
func NewLoader() *FileConfigLoader {
	return &FileConfigLoader{}
}

// Load reads the configuration file at path.
func (l *FileConfigLoader) Load(path string) (*domain.Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file Exodusfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	settings := &domain.Settings{
		LegacyRoot:  file.LegacyRoot,
		PackageDirs: file.PackageDirs,
		OutputDir:   file.OutputDir,
		Scope:       file.Scope,
		Packages:    file.Packages,
		Parallelism: file.Parallelism,
	}

	if settings.OutputDir == "" {
		return nil, zerr.New("outputDir must be set")
	}
	if settings.Parallelism < 0 {
		return nil, zerr.With(zerr.New("parallelism must not be negative"), "parallelism", settings.Parallelism)
	}
	if settings.Scope == "" {
		settings.Scope = DefaultScope
	}
	if !strings.HasPrefix(settings.Scope, "@") {
		settings.Scope = "@" + settings.Scope
	}

	return settings, nil
}
