package analysis

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ImportSpecifiers returns the static import specifiers of one file in
// document order: import statements, re-exports with a source, and
// require("...") calls with a literal argument.
func ImportSpecifiers(ctx context.Context, src []byte) ([]string, error) {
	tree, err := parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var specs []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		specs = append(specs, s)
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement", "export_statement":
			if source := n.ChildByFieldName("source"); source != nil {
				add(stringLiteral(source, src))
			}
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Type() == "identifier" && fn.Content(src) == "require" {
				if args := n.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() == 1 {
					add(stringLiteral(args.NamedChild(0), src))
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())

	return specs, nil
}

// stringLiteral extracts the value of a string literal node, or "" if the
// node is not a plain string.
func stringLiteral(n *sitter.Node, src []byte) string {
	if n == nil || n.Type() != "string" {
		return ""
	}
	text := n.Content(src)
	return strings.Trim(text, `"'`)
}

// IsRelativeSpecifier reports whether a specifier refers to a file inside the
// package: a relative path or the legacy package-root-absolute form.
func IsRelativeSpecifier(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		strings.HasPrefix(spec, "/")
}
