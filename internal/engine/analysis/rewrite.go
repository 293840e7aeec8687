package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/exodus/internal/core/domain"
)

// NamespaceIdent is the synthetic per-file identifier the package namespace
// module is imported as. Package-owned globals become property accesses on
// it.
const NamespaceIdent = "__g"

// RewriteRequest describes one file rewrite.
type RewriteRequest struct {
	// Path is attached to errors.
	Path string

	// Source is the file's text.
	Source []byte

	// Owned are the names to redirect to the namespace module: the package's
	// owned globals plus the unresolved fallbacks, restricted by the caller
	// to names meaningful for this package.
	Owned map[string]struct{}

	// Externals maps a free symbol to the module specifier that provides it.
	// Such names are bound by a prepended named import and never rewritten.
	Externals map[string]string

	// NamespaceSpecifier is the specifier of the package's namespace module
	// relative to this file (e.g. "./__globals.js").
	NamespaceSpecifier string

	// Dialect selects import/export text versus require text.
	Dialect domain.Dialect
}

// RewriteResult is the outcome of one file rewrite.
type RewriteResult struct {
	Source  []byte
	Changed bool
}

type edit struct {
	start, end uint32
	text       string
}

// RewriteFile re-parses the file, re-derives its scope tree, and rewrites
// every non-shadowed, non-declaration occurrence of an owned global into a
// property access on the namespace identifier. Free symbols with a resolved
// provider are bound by a prepended named import instead. Rewriting an
// already-rewritten file is a no-op: the previous pass left only property
// accesses and bound imports behind.
func RewriteFile(ctx context.Context, req *RewriteRequest) (*RewriteResult, error) {
	tree, err := parse(ctx, req.Source)
	if err != nil {
		return nil, wrapScanErr(err, req.Path)
	}
	defer tree.Close()

	root := tree.RootNode()

	var edits []edit
	rewroteOwned := false

	// Named imports to prepend: specifier -> names, in first-use order.
	importNames := make(map[string][]string)
	var importOrder []string
	needImport := func(spec, name string) {
		names, ok := importNames[spec]
		if !ok {
			importOrder = append(importOrder, spec)
		}
		for _, n := range names {
			if n == name {
				return
			}
		}
		importNames[spec] = append(names, name)
	}

	visitRefs(root, req.Source, fileScope(root, req.Source),
		func(n *sitter.Node, name string, _ refKind, s *scope) {
			if s.bound(name) || IsEnvGlobal(name) {
				return
			}
			if spec, ok := req.Externals[name]; ok {
				needImport(spec, name)
				return
			}
			if _, ok := req.Owned[name]; ok {
				text := NamespaceIdent + "." + name
				if n.Type() == "shorthand_property_identifier" {
					// { Foo } must expand to { Foo: __g.Foo } to stay valid.
					text = name + ": " + text
				}
				edits = append(edits, edit{
					start: n.StartByte(),
					end:   n.EndByte(),
					text:  text,
				})
				rewroteOwned = true
			}
		},
		nil,
	)

	edits = append(edits, maybeRewriteGlobalThis(root)...)

	out := applyEdits(req.Source, edits)

	header := rewriteHeader(req, rewroteOwned, importOrder, importNames)
	if header != "" {
		out = append([]byte(header), out...)
	}

	return &RewriteResult{
		Source:  out,
		Changed: len(edits) > 0 || header != "",
	}, nil
}

// maybeRewriteGlobalThis rewrites a bare top-level `this` into a globalThis
// reference. Inside the legacy framework's implicit per-package wrapper a
// top-level `this` aliased the package global object; once unwrapped it must
// name the environment root explicitly. Occurrences inside any function are
// left alone.
func maybeRewriteGlobalThis(root *sitter.Node) []edit {
	var edits []edit

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "class", "class_declaration", "field_definition", "class_static_block":
			// Field initializers and static blocks see the instance or class,
			// never the package wrapper.
			return
		}
		if isFunctionNode(n.Type()) {
			return
		}
		if n.Type() == "this" {
			edits = append(edits, edit{start: n.StartByte(), end: n.EndByte(), text: "globalThis"})
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	return edits
}

// applyEdits splices the edits into src back to front so earlier offsets stay
// valid.
func applyEdits(src []byte, edits []edit) []byte {
	if len(edits) == 0 {
		return src
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })

	out := append([]byte(nil), src...)
	for _, e := range edits {
		var next []byte
		next = append(next, out[:e.start]...)
		next = append(next, e.text...)
		next = append(next, out[e.end:]...)
		out = next
	}
	return out
}

// rewriteHeader renders the import lines to prepend: one per distinct
// resolved specifier, plus the namespace module import if any owned rewrite
// occurred.
func rewriteHeader(req *RewriteRequest, rewroteOwned bool, order []string, names map[string][]string) string {
	if !rewroteOwned && len(order) == 0 {
		return ""
	}

	var b strings.Builder
	legacy := req.Dialect == domain.DialectLegacyInterop

	if rewroteOwned {
		if legacy {
			fmt.Fprintf(&b, "const %s = require(%q);\n", NamespaceIdent, req.NamespaceSpecifier)
		} else {
			fmt.Fprintf(&b, "import %s from %q;\n", NamespaceIdent, req.NamespaceSpecifier)
		}
	}
	for _, spec := range order {
		list := strings.Join(names[spec], ", ")
		if legacy {
			fmt.Fprintf(&b, "const { %s } = require(%q);\n", list, spec)
		} else {
			fmt.Fprintf(&b, "import { %s } from %q;\n", list, spec)
		}
	}
	return b.String()
}
