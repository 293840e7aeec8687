package descriptor

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.trai.ch/zerr"
)

// unsupported builds the error for a construct the bounded interpreter does
// not understand.
func unsupported(what string) error {
	return zerr.With(zerr.New("unsupported descriptor construct"), "construct", what)
}

func isFunctionLiteral(nodeType string) bool {
	switch nodeType {
	case "function_expression", "function_declaration", "arrow_function", "function":
		return true
	default:
		return false
	}
}

// singleParamName returns the name of a function literal's only parameter,
// or "" if the parameter list is not a single plain identifier.
func singleParamName(fn *sitter.Node, src []byte) string {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		// Arrow functions may carry a bare identifier parameter.
		if p := fn.ChildByFieldName("parameter"); p != nil && p.Type() == "identifier" {
			return p.Content(src)
		}
		return ""
	}
	if params.NamedChildCount() != 1 {
		return ""
	}
	p := params.NamedChild(0)
	if p.Type() != "identifier" {
		return ""
	}
	return p.Content(src)
}

// firstArg returns the first argument node of an arguments list, or nil.
func firstArg(args *sitter.Node) *sitter.Node {
	nodes := argNodes(args)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// argNodes collects the named argument nodes, skipping comments.
func argNodes(args *sitter.Node) []*sitter.Node {
	if args == nil {
		return nil
	}
	var nodes []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		n := args.NamedChild(i)
		if n.Type() == "comment" {
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// stringList decodes a string literal or an array of string literals.
func (in *interp) stringList(n *sitter.Node) ([]string, error) {
	if n == nil {
		return nil, unsupported("missing value")
	}
	switch n.Type() {
	case "string":
		return []string{in.stringValue(n)}, nil
	case "array":
		var out []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			el := n.NamedChild(i)
			if el.Type() == "comment" {
				continue
			}
			if el.Type() != "string" {
				return nil, unsupported("non-literal array element")
			}
			out = append(out, in.stringValue(el))
		}
		return out, nil
	default:
		return nil, unsupported("expected string or array of strings")
	}
}

// objectFields decodes an object literal with string keys and literal
// (string, boolean, number) values. Nested structures are rejected.
func (in *interp) objectFields(n *sitter.Node) (map[string]any, error) {
	if n == nil || n.Type() != "object" {
		return nil, unsupported("expected object literal")
	}
	fields := make(map[string]any)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		pair := n.NamedChild(i)
		if pair.Type() == "comment" {
			continue
		}
		if pair.Type() != "pair" {
			return nil, unsupported("non-literal object member")
		}
		key, err := in.pairKey(pair)
		if err != nil {
			return nil, err
		}
		value, err := in.literalValue(pair.ChildByFieldName("value"))
		if err != nil {
			return nil, zerr.With(err, "key", key)
		}
		fields[key] = value
	}
	return fields, nil
}

func (in *interp) pairKey(pair *sitter.Node) (string, error) {
	key := pair.ChildByFieldName("key")
	if key == nil {
		return "", unsupported("object member without key")
	}
	switch key.Type() {
	case "property_identifier":
		return key.Content(in.src), nil
	case "string":
		return in.stringValue(key), nil
	default:
		return "", unsupported("computed object key")
	}
}

func (in *interp) literalValue(n *sitter.Node) (any, error) {
	if n == nil {
		return nil, unsupported("object member without value")
	}
	switch n.Type() {
	case "string":
		return in.stringValue(n), nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "number":
		f, err := strconv.ParseFloat(n.Content(in.src), 64)
		if err != nil {
			return nil, unsupported("unparseable number literal")
		}
		return f, nil
	default:
		return nil, unsupported("non-literal object value")
	}
}

func (in *interp) stringValue(n *sitter.Node) string {
	return strings.Trim(n.Content(in.src), `"'`)
}
