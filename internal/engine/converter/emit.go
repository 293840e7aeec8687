package converter

import (
	"fmt"
	"strings"

	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/zerr"
)

// Emitted support files. The namespace module backs the package's former
// implicit globals; the capability modules back the framework primitives the
// sources touch.
const (
	namespaceModule = "__globals.js"
	npmModule       = "__npm.js"
	assetsModule    = "__assets.js"
	requireModule   = "__require.js"
	interopEntry    = "__require.cjs"
)

// entryFile returns the entry wrapper name for one build target.
func entryFile(archName string) string {
	return "__" + archName + ".js"
}

// emitCapabilities writes one support module per framework primitive the
// package's sources use.
func (c *conversion) emitCapabilities() error {
	for _, capability := range sortedKeys(c.capabilities) {
		var name, source string
		switch capability {
		case "Npm":
			name, source = npmModule, c.npmCapabilitySource()
		case "Assets":
			name, source = assetsModule, c.assetsCapabilitySource()
		case "require":
			name, source = requireModule, requireCapabilitySource
		}
		if err := c.writeOutputFile(name, []byte(source)); err != nil {
			return err
		}
	}
	return nil
}

// npmCapabilitySource backs the legacy Npm primitive: Npm.require resolves
// against this package's own dependency tree, Npm.depends is satisfied at
// conversion time and becomes a no-op.
func (c *conversion) npmCapabilitySource() string {
	if c.unit.Dialect() == domain.DialectLegacyInterop {
		return `exports.Npm = {
  require,
  depends() {},
};
`
	}
	return `import { createRequire } from "node:module";

const cjsRequire = createRequire(import.meta.url);

export const Npm = {
  require: cjsRequire,
  depends() {},
};
`
}

// assetsCapabilitySource backs the legacy Assets primitive, reading asset
// files relative to the converted package folder.
func (c *conversion) assetsCapabilitySource() string {
	if c.unit.Dialect() == domain.DialectLegacyInterop {
		return `const { readFileSync } = require("node:fs");
const { join } = require("node:path");

exports.Assets = {
  getText(assetPath) {
    return readFileSync(join(__dirname, assetPath), "utf8");
  },
  getBinary(assetPath) {
    return readFileSync(join(__dirname, assetPath));
  },
};
`
	}
	return `import { readFileSync } from "node:fs";
import { createRequire } from "node:module";

const resolve = createRequire(import.meta.url).resolve;

export const Assets = {
  getText(assetPath) {
    return readFileSync(resolve("./" + assetPath), "utf8");
  },
  getBinary(assetPath) {
    return readFileSync(resolve("./" + assetPath));
  },
};
`
}

// requireCapabilitySource backs a bare require in native-dialect sources.
// The interop dialect never emits it: there the runtime provides require.
const requireCapabilitySource = `import { createRequire } from "node:module";

export const require = createRequire(import.meta.url);
`

// capabilityBindings lists the used capabilities with their local binding and
// import subpath, in stable order.
func (c *conversion) capabilityBindings() [][2]string {
	var bindings [][2]string
	for _, capability := range sortedKeys(c.capabilities) {
		switch capability {
		case "Npm":
			bindings = append(bindings, [2]string{"Npm", "#npm"})
		case "Assets":
			bindings = append(bindings, [2]string{"Assets", "#assets"})
		case "require":
			bindings = append(bindings, [2]string{"require", "#require"})
		}
	}
	return bindings
}

// namespaceProps returns every property the namespace module declares: the
// owned globals and unresolved fallbacks of all build targets, sorted.
func (c *conversion) namespaceProps() []string {
	props := make(map[string]struct{})
	for _, arch := range c.activeArchs {
		name := arch.Name()
		for s := range c.owned[name] {
			props[s] = struct{}{}
		}
		for s := range c.used[name] {
			if _, ok := c.resolved[name][s]; ok {
				continue
			}
			props[s] = struct{}{}
		}
	}
	return sortedKeys(props)
}

// emitNamespaceModule writes the shared namespace object: one property per
// former implicit global, capability-backed properties wired to their support
// modules, everything else initialized undefined and assigned by the
// rewritten sources.
func (c *conversion) emitNamespaceModule() error {
	legacy := c.unit.Dialect() == domain.DialectLegacyInterop
	bindings := c.capabilityBindings()
	capabilityNames := make(map[string]struct{}, len(bindings))

	var b strings.Builder
	for _, binding := range bindings {
		capabilityNames[binding[0]] = struct{}{}
		if legacy {
			file := map[string]string{"#npm": npmModule, "#assets": assetsModule}[binding[1]]
			fmt.Fprintf(&b, "const { %s } = require(%q);\n", binding[0], "./"+file)
		} else if binding[0] == "require" {
			fmt.Fprintf(&b, "import { require as __require } from %q;\n", binding[1])
		} else {
			fmt.Fprintf(&b, "import { %s } from %q;\n", binding[0], binding[1])
		}
	}
	if len(bindings) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("const __g = {};\n\n")
	for _, prop := range c.namespaceProps() {
		if _, ok := capabilityNames[prop]; ok {
			if prop == "require" && !legacy {
				b.WriteString("__g.require = __require;\n")
			} else {
				fmt.Fprintf(&b, "__g.%s = %s;\n", prop, prop)
			}
			continue
		}
		fmt.Fprintf(&b, "__g.%s = undefined;\n", prop)
	}

	if legacy {
		b.WriteString("\nmodule.exports = __g;\n")
	} else {
		b.WriteString("\nexport default __g;\n")
	}
	return c.writeOutputFile(namespaceModule, []byte(b.String()))
}

// emitEntrypoints writes one entry wrapper per build target: dependency
// imports in declaration order, then the target's eager sources, then the
// exported symbols re-exported off the namespace.
func (c *conversion) emitEntrypoints() error {
	for _, arch := range c.activeArchs {
		if err := c.emitEntrypoint(arch); err != nil {
			return err
		}
	}
	if c.unit.Dialect() == domain.DialectNative && c.hasActiveArch("server") {
		shim := fmt.Sprintf("module.exports = require(%q);\n", "./"+entryFile("server"))
		if err := c.writeOutputFile(interopEntry, []byte(shim)); err != nil {
			return err
		}
	}
	return nil
}

func (c *conversion) emitEntrypoint(arch *domain.Arch) error {
	legacy := c.unit.Dialect() == domain.DialectLegacyInterop
	scope := c.unit.reg.deps.Settings.Scope
	exports := c.unit.ExportsFor(arch.Name())

	var b strings.Builder
	if !legacy && len(exports) > 0 {
		fmt.Fprintf(&b, "import __g from %q;\n", "./"+namespaceModule)
	}

	for _, dep := range append(arch.PreloadPackages(false), arch.UnorderedPackages(false)...) {
		spec := domain.NpmName(scope, dep.String())
		if legacy {
			fmt.Fprintf(&b, "require(%q);\n", spec)
		} else {
			fmt.Fprintf(&b, "import %q;\n", spec)
		}
	}
	for _, imp := range arch.Imports(false) {
		spec := "./" + c.resolveEntryImport(imp)
		if legacy {
			fmt.Fprintf(&b, "require(%q);\n", spec)
		} else {
			fmt.Fprintf(&b, "import %q;\n", spec)
		}
	}

	if len(exports) > 0 {
		b.WriteString("\n")
		if legacy {
			fmt.Fprintf(&b, "const __g = require(%q);\n", "./"+namespaceModule)
			b.WriteString("module.exports = {\n")
			for _, s := range exports {
				fmt.Fprintf(&b, "  %s: __g.%s,\n", s, s)
			}
			b.WriteString("};\n")
		} else {
			for _, s := range exports {
				fmt.Fprintf(&b, "export const %s = __g.%s;\n", s, s)
			}
		}
	}

	// A main module exports on its own behalf; the wrapper forwards its
	// surface alongside the declared symbols.
	if main := arch.MainModule(false); main != "" {
		spec := "./" + c.resolveEntryImport(main)
		if legacy {
			fmt.Fprintf(&b, "Object.assign(module.exports, require(%q));\n", spec)
		} else {
			fmt.Fprintf(&b, "export * from %q;\n", spec)
		}
	}
	return c.writeOutputFile(entryFile(arch.Name()), []byte(b.String()))
}

// resolveEntryImport maps a declared eager file path to the emitted relative
// path, restoring an elided extension when the file exists that way.
func (c *conversion) resolveEntryImport(p string) string {
	n := normalizeSourcePath(p)
	if _, ok := c.files[n]; ok {
		return n
	}
	if _, ok := c.files[n+".js"]; ok {
		return n + ".js"
	}
	return n
}

func (c *conversion) hasActiveArch(name string) bool {
	for _, arch := range c.activeArchs {
		if arch.Name() == name {
			return true
		}
	}
	return false
}

// emitManifest assembles and writes the converted package's manifest.
func (c *conversion) emitManifest() error {
	u := c.unit
	deps := u.reg.deps
	legacy := u.Dialect() == domain.DialectLegacyInterop

	u.mu.Lock()
	legacyName := u.name
	version := u.version
	summary := u.summary
	depSnapshot := make(map[string]depInfo, len(u.deps))
	for name, info := range u.deps {
		depSnapshot[name] = *info
	}
	npmDeps := make(map[string]string, len(u.npmDeps))
	for name, v := range u.npmDeps {
		npmDeps[name] = v
	}
	u.mu.Unlock()

	if version == "" {
		version = "0.0.0"
		deps.Logger.Warn("package " + legacyName + " declares no version, defaulting to 0.0.0")
	}

	m := &domain.Manifest{
		Name:        u.NpmName(),
		Version:     version,
		Description: summary,
		Exports:     map[string]domain.ExportConditions{},
		Exodus: &domain.ManifestMetadata{
			LegacyName: legacyName,
			Dialect:    u.Dialect().String(),
			Archs:      make(map[string]domain.ArchMetadata, len(c.activeArchs)),
		},
	}
	if !legacy {
		m.Type = "module"
	}

	c.manifestExports(m)
	c.manifestImports(m)
	if err := c.manifestDependencies(m, depSnapshot, npmDeps); err != nil {
		return err
	}
	for _, arch := range c.activeArchs {
		m.Exodus.Archs[arch.Name()] = domain.ArchMetadata{
			Exports:    u.ExportsFor(arch.Name()),
			Assets:     arch.Assets(false),
			Implies:    u.ImpliedFor(arch.Name()),
			MainModule: arch.MainModule(false),
		}
	}

	return deps.Manifest.Write(u.outDir, m)
}

// manifestExports fills the conditional-exports block: the node condition
// serves the server target, default the client one, and the require condition
// the interop shim. Non-root targets get their own subpath.
func (c *conversion) manifestExports(m *domain.Manifest) {
	legacy := c.unit.Dialect() == domain.DialectLegacyInterop

	var root domain.ExportConditions
	if c.hasActiveArch("server") {
		root.Node = "./" + entryFile("server")
		if legacy {
			root.Require = root.Node
		} else {
			root.Require = "./" + interopEntry
		}
	}
	if c.hasActiveArch("client") {
		root.Default = "./" + entryFile("client")
	} else {
		root.Default = root.Node
	}
	m.Exports["."] = root

	for _, arch := range c.activeArchs {
		if arch.Parent() == nil {
			continue
		}
		m.Exports["./"+arch.Name()] = domain.ExportConditions{
			Default: "./" + entryFile(arch.Name()),
		}
	}
}

// manifestImports maps the capability subpaths to their emitted modules.
func (c *conversion) manifestImports(m *domain.Manifest) {
	if len(c.capabilities) == 0 {
		return
	}
	m.Imports = make(map[string]string, len(c.capabilities))
	for _, binding := range c.capabilityBindings() {
		file := map[string]string{
			"#npm":     npmModule,
			"#assets":  assetsModule,
			"#require": requireModule,
		}[binding[1]]
		m.Imports[binding[1]] = "./" + file
	}
}

// manifestDependencies fills the dependency blocks. Strong dependencies carry
// the version their unit resolved to, falling back to the declared
// constraint; unordered ones become peers, weak ones optionals. A version
// placeholder surviving to this point aborts the write.
func (c *conversion) manifestDependencies(m *domain.Manifest, depSnapshot map[string]depInfo, npmDeps map[string]string) error {
	scope := c.unit.reg.deps.Settings.Scope
	dependencies := make(map[string]string)
	peers := make(map[string]string)
	optionals := make(map[string]string)

	for name, info := range depSnapshot {
		npmName := domain.NpmName(scope, name)
		switch info.strength {
		case domain.DepStrong:
			dependencies[npmName] = c.strongDepVersion(name, info.constraint)
		case domain.DepUnordered:
			peers[npmName] = constraintOr(info.constraint, "*")
		case domain.DepWeak:
			optionals[npmName] = constraintOr(info.constraint, "*")
		}
	}

	// Reserved runtime globals resolve to the core package without a declared
	// dependency carrying them.
	corePkg := domain.NpmName(scope, "meteor")
	for _, arch := range c.activeArchs {
		for _, spec := range c.resolved[arch.Name()] {
			if spec == corePkg {
				if _, ok := dependencies[corePkg]; !ok {
					dependencies[corePkg] = c.strongDepVersion("meteor", "")
				}
			}
		}
	}

	for name, version := range npmDeps {
		dependencies[name] = version
	}

	for _, versions := range []map[string]string{dependencies, peers, optionals} {
		for name, version := range versions {
			if version == domain.PlaceholderVersion {
				return zerr.With(zerr.With(domain.ErrPlaceholderVersion, "package", c.unit.Name()), "dependency", name)
			}
		}
	}

	if len(dependencies) > 0 {
		m.Dependencies = dependencies
	}
	if len(peers) > 0 {
		m.PeerDependencies = peers
	}
	if len(optionals) > 0 {
		m.OptionalDependencies = optionals
	}
	return nil
}

// strongDepVersion returns the manifest version for a strong dependency: the
// version its own conversion resolved, else the declared constraint, else any
// version. The placeholder only survives when the dependency's unit never
// loaded, which the final sweep turns into an error.
func (c *conversion) strongDepVersion(name, constraint string) string {
	dep := c.unit.reg.Lookup(name)
	if dep == nil || !dep.loadLatch.resolved() {
		return domain.PlaceholderVersion
	}
	if v := dep.ResolvedVersion(); v != "" {
		return "^" + v
	}
	return constraintOr(constraint, "*")
}

func constraintOr(constraint, fallback string) string {
	if constraint == "" {
		return fallback
	}
	return domain.SanitizeVersion(constraint)
}
