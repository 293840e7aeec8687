// Package isopack reads precompiled distributable bundles of the legacy
// framework and replays their declarations onto a builder. Only the fields
// the conversion consumes are decoded.
package isopack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/zerr"
)

// descriptorNames are tried in order inside a bundle directory.
var descriptorNames = []string{"isopack.json", "unipackage.json"}

// knownFormats are the envelope keys of descriptor formats this reader
// understands.
var knownFormats = []string{"isopack-2", "isopack-1"}

var _ ports.BundleLoader = (*Reader)(nil)

// Reader implements ports.BundleLoader.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Load reads the bundle rooted at dir.
func (r *Reader) Load(dir string, b ports.PackageBuilder) error {
	desc, err := r.readDescriptor(dir)
	if err != nil {
		return err
	}

	b.MarkFromBundle()
	b.Describe(desc.Name, desc.Version, desc.Summary)

	for _, bd := range desc.Builds {
		if bd.Kind != "" && bd.Kind != "main" {
			// Plugin and tool builds are not part of the converted module.
			continue
		}
		if err := r.loadBuild(dir, bd, desc.Name, b); err != nil {
			return zerr.With(err, "arch", bd.Arch)
		}
	}
	return nil
}

// readDescriptor locates and decodes the bundle descriptor, unwrapping the
// format envelope when present.
func (r *Reader) readDescriptor(dir string) (*descriptorFile, error) {
	for _, name := range descriptorNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) //nolint:gosec // Path comes from the configured legacy root
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to read bundle descriptor"), "path", path)
		}

		if name == "unipackage.json" {
			var desc descriptorFile
			if err := json.Unmarshal(data, &desc); err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to parse bundle descriptor"), "path", path)
			}
			return &desc, nil
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse bundle descriptor"), "path", path)
		}
		for _, format := range knownFormats {
			if desc, ok := env[format]; ok {
				return &desc, nil
			}
		}
		return nil, zerr.With(zerr.New("bundle descriptor has no supported format"), "path", path)
	}
	return nil, zerr.With(zerr.New("no bundle descriptor found"), "dir", dir)
}

// loadBuild decodes one per-architecture build file and replays it.
func (r *Reader) loadBuild(dir string, bd build, packageName string, b ports.PackageBuilder) error {
	path := filepath.Join(dir, filepath.FromSlash(bd.Path))
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the bundle descriptor
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read build file"), "path", path)
	}

	var bf buildFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse build file"), "path", path)
	}

	archs := []string{bd.Arch}

	for _, u := range bf.Uses {
		b.AddDependencies([]string{depRef(u)}, archs, u.Weak, u.Unordered)
	}
	for _, u := range bf.Implies {
		b.AddImplies([]string{depRef(u)}, archs)
	}
	for _, exp := range bf.DeclaredExports {
		if exp.TestOnly {
			continue
		}
		b.AddExports([]string{exp.Name}, archs)
	}
	if len(bf.NpmDependencies) > 0 {
		b.AddNpmDeps(bf.NpmDependencies)
	}

	buildRoot := filepath.Dir(path)
	for _, res := range bf.Resources {
		if err := r.loadResource(buildRoot, res, packageName, archs, b); err != nil {
			return err
		}
	}
	return nil
}

// loadResource replays one resource. Source files are eager imports unless
// marked lazy; lazy files are still materialized so relative imports can
// reach them.
func (r *Reader) loadResource(buildRoot string, res resource, packageName string, archs []string, b ports.PackageBuilder) error {
	dest := destPath(res, packageName)
	if dest == "" {
		return zerr.With(zerr.New("resource has no destination path"), "file", res.File)
	}

	switch res.Type {
	case "source":
		b.AddResourceFile(dest, filepath.Join(buildRoot, filepath.FromSlash(res.File)))
		if res.FileOptions.MainModule {
			b.SetMainModule(dest, archs)
			return nil
		}
		if !res.FileOptions.Lazy {
			b.AddImport(dest, archs)
		}
	case "asset":
		b.AddResourceFile(dest, filepath.Join(buildRoot, filepath.FromSlash(res.File)))
		b.AddAssets([]string{dest}, archs)
	default:
		// Prelinked and compiled resource types carry no convertible source.
	}
	return nil
}

// depRef renders a use entry as "name" or "name@constraint".
func depRef(u use) string {
	if u.Constraint == "" {
		return u.Package
	}
	return u.Package + "@" + u.Constraint
}

// destPath picks the output-relative path of a resource, preferring the
// declared path and falling back to the serve path with the legacy
// "/packages/<name>/" prefix stripped.
func destPath(res resource, packageName string) string {
	if res.Path != "" {
		return res.Path
	}
	serve := strings.TrimPrefix(res.ServePath, "/packages/"+packageName+"/")
	return strings.TrimPrefix(serve, "/")
}
