package analysis

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/zerr"
)

// FileScan reports one file's free symbols: identifiers referenced but not
// bound by any enclosing scope within the file.
type FileScan struct {
	// Reads holds every free symbol referenced, including assignment targets.
	Reads map[string]struct{}

	// Writes holds the free symbols that appear as assignment targets without
	// a declaration: the implicit globals the file creates.
	Writes map[string]struct{}
}

// ScanFile parses one file and reports its free symbols. Environment-native
// names are excluded unconditionally; names the framework injects specially
// are reported as reads only. A malformed file returns ErrParseFailure and is
// fatal for the whole package conversion.
func ScanFile(ctx context.Context, src []byte) (*FileScan, error) {
	tree, err := parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	scan := &FileScan{
		Reads:  make(map[string]struct{}),
		Writes: make(map[string]struct{}),
	}

	visitRefs(root, src, fileScope(root, src),
		func(_ *sitter.Node, name string, kind refKind, s *scope) {
			if s.bound(name) || IsEnvGlobal(name) {
				return
			}
			switch kind {
			case refRead:
				scan.Reads[name] = struct{}{}
			case refWrite, refReadWrite:
				scan.Reads[name] = struct{}{}
				if !IsFrameworkReserved(name) {
					scan.Writes[name] = struct{}{}
				}
			}
		},
		nil,
	)

	return scan, nil
}

// wrapScanErr attaches the file path to a scan failure.
func wrapScanErr(err error, path string) error {
	return zerr.With(zerr.Wrap(err, "scan failed"), "file", path)
}
