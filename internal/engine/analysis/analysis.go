// Package analysis implements the JavaScript source analysis used by the
// converter: lexical scope analysis reporting free symbols, package-wide
// global classification, static import extraction, and the rewriting of
// package globals into namespace property accesses.
//
// Parsing uses tree-sitter's JavaScript grammar. Rewrites are byte-offset
// splices over the original source, applied back to front, so the output
// preserves the input's formatting everywhere outside an edit.
package analysis

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/zerr"
)

// parse builds a syntax tree for one file. Each call uses its own parser
// instance so callers may run concurrently.
func parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, zerr.Wrap(err, "tree-sitter parse")
	}
	if tree.RootNode().HasError() {
		return nil, domain.ErrParseFailure
	}
	return tree, nil
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}
