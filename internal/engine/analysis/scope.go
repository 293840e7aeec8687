package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// scope is one frame of the lexical scope chain. Only function-like nodes and
// the file's program node open a frame; block-scoped declarations are hoisted
// to the enclosing frame, which can only over-bind (suppress a rewrite), never
// under-bind.
type scope struct {
	parent *scope
	names  map[string]struct{}
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]struct{})}
}

func (s *scope) declare(name string) {
	if name != "" {
		s.names[name] = struct{}{}
	}
}

// bound walks the chain outward looking for a binding.
func (s *scope) bound(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.names[name]; ok {
			return true
		}
	}
	return false
}

// functionNodeTypes are the node types that open a new scope frame. The
// file's top level is a module scope of its own: top-level declarations bind
// there and are not promoted to the surrounding environment.
var functionNodeTypes = map[string]struct{}{
	"function_declaration":           {},
	"generator_function_declaration": {},
	"function":                       {},
	"function_expression":            {},
	"generator_function":             {},
	"arrow_function":                 {},
	"method_definition":              {},
}

func isFunctionNode(t string) bool {
	_, ok := functionNodeTypes[t]
	return ok
}

// hoistDeclarations collects every declaration belonging to the scope rooted
// at node: variable declarators, function and class declaration names, import
// bindings and catch parameters. It does not descend into nested function
// bodies, but it does record a nested function declaration's own name.
func hoistDeclarations(node *sitter.Node, src []byte, s *scope) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "variable_declarator":
			declarePattern(child.ChildByFieldName("name"), src, s)
			// Initializers may contain further declarators (sequence
			// expressions, nested functions are cut below).
			if v := child.ChildByFieldName("value"); v != nil {
				hoistDeclarations(v, src, s)
			}
		case "function_declaration", "generator_function_declaration",
			"class_declaration":
			if name := child.ChildByFieldName("name"); name != nil {
				s.declare(name.Content(src))
			}
		case "function", "function_expression", "generator_function",
			"arrow_function", "method_definition", "class":
			// New scope; its declarations do not hoist here.
		case "import_statement":
			hoistImportBindings(child, src, s)
		case "for_in_statement":
			// for (const X of xs) / for (let X in o): the pattern sits in the
			// left field with no declarator node. Without a kind keyword the
			// left side assigns an existing binding and declares nothing.
			if child.ChildByFieldName("kind") != nil {
				declarePattern(child.ChildByFieldName("left"), src, s)
			}
			hoistDeclarations(child, src, s)
		case "catch_clause":
			declarePattern(child.ChildByFieldName("parameter"), src, s)
			hoistDeclarations(child, src, s)
		default:
			hoistDeclarations(child, src, s)
		}
	}
}

// hoistImportBindings declares the local names an import statement binds.
func hoistImportBindings(stmt *sitter.Node, src []byte, s *scope) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_specifier":
			// "a as b" binds b; "a" binds a.
			if alias := n.ChildByFieldName("alias"); alias != nil {
				s.declare(alias.Content(src))
				return
			}
			if name := n.ChildByFieldName("name"); name != nil {
				s.declare(name.Content(src))
			}
			return
		case "identifier":
			// Default or namespace import binding.
			s.declare(n.Content(src))
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(stmt)
}

// declarePattern declares every binding introduced by a declaration target:
// a plain identifier or a destructuring pattern.
func declarePattern(n *sitter.Node, src []byte, s *scope) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		s.declare(n.Content(src))
	case "object_pattern", "array_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			declarePattern(n.NamedChild(i), src, s)
		}
	case "pair_pattern":
		declarePattern(n.ChildByFieldName("value"), src, s)
	case "assignment_pattern", "object_assignment_pattern":
		declarePattern(n.ChildByFieldName("left"), src, s)
	case "rest_pattern":
		if n.NamedChildCount() > 0 {
			declarePattern(n.NamedChild(0), src, s)
		}
	}
}

// enterFunctionScope builds the scope frame for a function-like node:
// parameters, the function expression's own name, and the hoisted
// declarations of its body.
func enterFunctionScope(fn *sitter.Node, src []byte, parent *scope) *scope {
	s := newScope(parent)

	if name := fn.ChildByFieldName("name"); name != nil {
		s.declare(name.Content(src))
	}
	if params := fn.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			declarePattern(params.NamedChild(i), src, s)
		}
	}
	// Arrow functions with a single bare parameter.
	if param := fn.ChildByFieldName("parameter"); param != nil {
		declarePattern(param, src, s)
	}
	if body := fn.ChildByFieldName("body"); body != nil {
		hoistDeclarations(body, src, s)
	}
	return s
}

// refKind classifies how an identifier occurrence is used.
type refKind int

const (
	refSkip refKind = iota
	refRead
	refWrite
	refReadWrite
)

// classifyIdentifier decides whether an identifier node is a reference and of
// which kind. Property keys and member-access properties never reach here:
// the grammar types them property_identifier. Declaration targets are skipped
// because hoisting already bound them.
func classifyIdentifier(n *sitter.Node) refKind {
	parent := n.Parent()
	if parent == nil {
		return refRead
	}

	switch parent.Type() {
	case "variable_declarator":
		if sameNode(parent.ChildByFieldName("name"), n) {
			return refSkip
		}
	case "function_declaration", "generator_function_declaration",
		"function", "function_expression", "generator_function",
		"class_declaration", "class", "method_definition":
		if sameNode(parent.ChildByFieldName("name"), n) {
			return refSkip
		}
	case "assignment_expression":
		if sameNode(parent.ChildByFieldName("left"), n) {
			return refWrite
		}
	case "augmented_assignment_expression":
		if sameNode(parent.ChildByFieldName("left"), n) {
			return refReadWrite
		}
	case "update_expression":
		return refReadWrite
	case "import_statement", "import_clause", "named_imports",
		"namespace_import", "import_specifier":
		return refSkip
	case "labeled_statement", "break_statement", "continue_statement":
		return refSkip
	case "formal_parameters", "object_pattern", "array_pattern",
		"rest_pattern", "pair_pattern":
		return refSkip
	case "assignment_pattern", "object_assignment_pattern":
		if sameNode(parent.ChildByFieldName("left"), n) {
			return refSkip
		}
	case "arrow_function":
		if sameNode(parent.ChildByFieldName("parameter"), n) {
			return refSkip
		}
	case "catch_clause":
		if sameNode(parent.ChildByFieldName("parameter"), n) {
			return refSkip
		}
	case "for_in_statement":
		if sameNode(parent.ChildByFieldName("left"), n) {
			if parent.ChildByFieldName("kind") != nil {
				return refSkip
			}
			return refWrite
		}
	}
	return refRead
}

// visitRefs walks the tree maintaining the scope chain and function depth,
// invoking ref for every free-candidate identifier occurrence (scope lookup
// is the caller's business) and this for every `this` expression.
func visitRefs(
	root *sitter.Node,
	src []byte,
	rootScope *scope,
	ref func(n *sitter.Node, name string, kind refKind, s *scope),
	this func(n *sitter.Node, fnDepth int),
) {
	var walk func(n *sitter.Node, s *scope, depth int)
	walk = func(n *sitter.Node, s *scope, depth int) {
		switch n.Type() {
		case "identifier":
			if kind := classifyIdentifier(n); kind != refSkip {
				ref(n, n.Content(src), kind, s)
			}
			return
		case "shorthand_property_identifier":
			// { Foo } reads Foo.
			ref(n, n.Content(src), refRead, s)
			return
		case "this":
			if this != nil {
				this(n, depth)
			}
			return
		}

		if isFunctionNode(n.Type()) {
			inner := enterFunctionScope(n, src, s)
			for i := 0; i < int(n.NamedChildCount()); i++ {
				walk(n.NamedChild(i), inner, depth+1)
			}
			return
		}

		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i), s, depth)
		}
	}
	walk(root, rootScope, 0)
}

// fileScope builds the module scope for a parsed file.
func fileScope(root *sitter.Node, src []byte) *scope {
	s := newScope(nil)
	hoistDeclarations(root, src, s)
	return s
}
