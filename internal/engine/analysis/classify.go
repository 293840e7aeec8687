package analysis

import (
	"context"
	"sort"
)

// PackageGlobals aggregates the scan results for every file of one package's
// output tree and classifies the union.
type PackageGlobals struct {
	// Files maps output-relative file path to its scan result.
	Files map[string]*FileScan
}

// ClassifyFiles scans every given file (path -> source) and aggregates the
// results. The first malformed file aborts the classification with its path
// attached.
func ClassifyFiles(ctx context.Context, files map[string][]byte) (*PackageGlobals, error) {
	g := &PackageGlobals{Files: make(map[string]*FileScan, len(files))}
	for path, src := range files {
		scan, err := ScanFile(ctx, src)
		if err != nil {
			return nil, wrapScanErr(err, path)
		}
		g.Files[path] = scan
	}
	return g, nil
}

// Owned returns the package-owned globals: symbols assigned somewhere inside
// the package, destined for the package's own namespace export.
func (g *PackageGlobals) Owned() map[string]struct{} {
	owned := make(map[string]struct{})
	for _, scan := range g.Files {
		for name := range scan.Writes {
			owned[name] = struct{}{}
		}
	}
	return owned
}

// Used returns every global the package touches, owned or external.
func (g *PackageGlobals) Used() map[string]struct{} {
	used := make(map[string]struct{})
	for _, scan := range g.Files {
		for name := range scan.Reads {
			used[name] = struct{}{}
		}
	}
	return used
}

// SortedNames returns a name set as a sorted slice, for deterministic
// emission.
func SortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
