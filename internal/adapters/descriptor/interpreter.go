// Package descriptor implements a bounded interpreter for legacy package
// descriptor scripts (package.js). The script is never executed: it is parsed
// with tree-sitter and only the known declarative call patterns, with literal
// arguments, are replayed onto a builder. Anything else in a recognized call
// is a hard error; unrecognized top-level statements are ignored.
package descriptor

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DescriptorLoader = (*Interpreter)(nil)

// Interpreter implements ports.DescriptorLoader.
type Interpreter struct{}

// NewInterpreter creates a new Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Load interprets the descriptor script at path and replays its declarations
// onto b.
func (i *Interpreter) Load(path string, b ports.PackageBuilder) error {
	src, err := os.ReadFile(path) //nolint:gosec // Path comes from the configured package dirs
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read descriptor"), "path", path)
	}

	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "tree-sitter parse"), "path", path)
	}
	defer tree.Close()
	if tree.RootNode().HasError() {
		return zerr.With(zerr.Wrap(domain.ErrParseFailure, "malformed descriptor"), "path", path)
	}

	run := &interp{src: src, builder: b}
	if err := run.program(tree.RootNode()); err != nil {
		return zerr.With(err, "path", path)
	}
	return nil
}

type interp struct {
	src     []byte
	builder ports.PackageBuilder
}

// program walks the top-level statements and dispatches the recognized
// Package.* and Npm.* calls.
func (in *interp) program(root *sitter.Node) error {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		call := stmt.NamedChild(0)
		if call == nil || call.Type() != "call_expression" {
			continue
		}

		obj, method := in.callee(call)
		args := call.ChildByFieldName("arguments")

		switch {
		case obj == "Package" && method == "describe":
			if err := in.describe(args); err != nil {
				return err
			}
		case obj == "Package" && method == "onUse":
			if err := in.onUse(args); err != nil {
				return err
			}
		case obj == "Package" && method == "onTest":
			// Test declarations are not part of the converted module.
		case obj == "Npm" && method == "depends":
			if err := in.npmDepends(args); err != nil {
				return err
			}
		case obj == "Cordova" && method == "depends":
			// Mobile-container plugin pins have no npm equivalent.
		}
	}
	return nil
}

// callee splits a member-expression callee into object and property names.
func (in *interp) callee(call *sitter.Node) (obj, method string) {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return "", ""
	}
	o := fn.ChildByFieldName("object")
	p := fn.ChildByFieldName("property")
	if o == nil || p == nil || o.Type() != "identifier" {
		return "", ""
	}
	return o.Content(in.src), p.Content(in.src)
}

// describe handles Package.describe({name, version, summary, ...}).
func (in *interp) describe(args *sitter.Node) error {
	objNode := firstArg(args)
	fields, err := in.objectFields(objNode)
	if err != nil {
		return zerr.Wrap(err, "Package.describe")
	}
	name, _ := fields["name"].(string)
	version, _ := fields["version"].(string)
	summary, _ := fields["summary"].(string)
	in.builder.Describe(name, version, summary)
	return nil
}

// npmDepends handles Npm.depends({"name": "version", ...}).
func (in *interp) npmDepends(args *sitter.Node) error {
	fields, err := in.objectFields(firstArg(args))
	if err != nil {
		return zerr.Wrap(err, "Npm.depends")
	}
	deps := make(map[string]string, len(fields))
	for name, v := range fields {
		version, ok := v.(string)
		if !ok {
			return zerr.With(unsupported("non-string npm version"), "dependency", name)
		}
		deps[name] = version
	}
	in.builder.AddNpmDeps(deps)
	return nil
}

// onUse handles Package.onUse(function (api) { ... }) by walking the
// callback's body for calls on the api parameter.
func (in *interp) onUse(args *sitter.Node) error {
	fn := firstArg(args)
	if fn == nil || !isFunctionLiteral(fn.Type()) {
		return unsupported("Package.onUse expects a function literal")
	}

	apiName := singleParamName(fn, in.src)
	if apiName == "" {
		return unsupported("Package.onUse callback must name its api parameter")
	}
	body := fn.ChildByFieldName("body")
	if body == nil {
		return unsupported("Package.onUse callback has no body")
	}

	var walkErr error
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if walkErr != nil {
			return
		}
		if n.Type() == "call_expression" {
			obj, method := in.callee(n)
			if obj == apiName {
				if err := in.apiCall(method, n.ChildByFieldName("arguments")); err != nil {
					walkErr = err
					return
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)
	return walkErr
}

// apiCall dispatches one api.<method>(...) declaration.
func (in *interp) apiCall(method string, args *sitter.Node) error {
	switch method {
	case "use":
		return in.apiUse(args)
	case "imply":
		refs, archs, _, err := in.refsArchsOptions(args)
		if err != nil {
			return zerr.Wrap(err, "api.imply")
		}
		in.builder.AddImplies(refs, archs)
		return nil
	case "export":
		symbols, archs, opts, err := in.refsArchsOptions(args)
		if err != nil {
			return zerr.Wrap(err, "api.export")
		}
		if testOnly, _ := opts["testOnly"].(bool); testOnly {
			return nil
		}
		in.builder.AddExports(symbols, archs)
		return nil
	case "addFiles", "add_files":
		return in.apiAddFiles(args)
	case "addAssets":
		paths, archs, _, err := in.refsArchsOptions(args)
		if err != nil {
			return zerr.Wrap(err, "api.addAssets")
		}
		in.builder.AddAssets(paths, archs)
		return nil
	case "mainModule":
		paths, archs, _, err := in.refsArchsOptions(args)
		if err != nil {
			return zerr.Wrap(err, "api.mainModule")
		}
		if len(paths) != 1 {
			return unsupported("api.mainModule expects one path")
		}
		in.builder.SetMainModule(paths[0], archs)
		return nil
	case "versionsFrom":
		// Release pinning has no equivalent in the converted output.
		return nil
	default:
		// Unknown api methods carry no convertible declarations.
		return nil
	}
}

// apiUse handles api.use(refs, archs?, {weak, unordered}?). The options
// object may also appear as the second argument.
func (in *interp) apiUse(args *sitter.Node) error {
	refs, archs, opts, err := in.refsArchsOptions(args)
	if err != nil {
		return zerr.Wrap(err, "api.use")
	}
	weak, _ := opts["weak"].(bool)
	unordered, _ := opts["unordered"].(bool)
	in.builder.AddDependencies(refs, archs, weak, unordered)
	return nil
}

// apiAddFiles handles api.addFiles(paths, archs?, opts?), routing
// {isAsset: true} entries to the asset list.
func (in *interp) apiAddFiles(args *sitter.Node) error {
	paths, archs, opts, err := in.refsArchsOptions(args)
	if err != nil {
		return zerr.Wrap(err, "api.addFiles")
	}
	if isAsset, _ := opts["isAsset"].(bool); isAsset {
		in.builder.AddAssets(paths, archs)
		return nil
	}
	for _, path := range paths {
		in.builder.AddImport(path, archs)
	}
	return nil
}

// refsArchsOptions decodes the common (stringOrList, archs?, options?)
// argument shape shared by the api methods. The options object may take the
// archs position.
func (in *interp) refsArchsOptions(args *sitter.Node) (refs, archs []string, opts map[string]any, err error) {
	opts = map[string]any{}
	nodes := argNodes(args)
	if len(nodes) == 0 {
		return nil, nil, nil, unsupported("missing arguments")
	}

	refs, err = in.stringList(nodes[0])
	if err != nil {
		return nil, nil, nil, err
	}

	for _, n := range nodes[1:] {
		if n.Type() == "object" {
			opts, err = in.objectFields(n)
			if err != nil {
				return nil, nil, nil, err
			}
			continue
		}
		archs, err = in.stringList(n)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return refs, archs, opts, nil
}
