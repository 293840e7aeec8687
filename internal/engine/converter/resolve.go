package converter

import (
	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/engine/analysis"
)

// reservedProviders maps globals owned by the legacy core runtime to the
// legacy package providing them. They resolve through this static table
// instead of the dependency walk, which also breaks the core package's
// self-import special case.
var reservedProviders = map[string]string{
	"Meteor":                    "meteor",
	"Package":                   "meteor",
	"__meteor_runtime_config__": "meteor",
}

// resolveGlobals maps each used free symbol of one build target to the module
// specifier providing it. Providers are searched in dependency declaration
// order: a dependency's own exports first, then the symbols that dependency
// itself resolved (binding the same provider), then the exports of the
// packages it implies. The first match wins; symbols nobody provides are left
// out and fall back to the unit's namespace placeholders.
func (u *Unit) resolveGlobals(archName string, used, owned map[string]struct{}) map[string]string {
	resolved := make(map[string]string)
	selfName := u.Name()
	scope := u.reg.deps.Settings.Scope
	depNames := u.depNamesFor(archName)

	for name := range used {
		if _, ok := owned[name]; ok {
			continue
		}
		if analysis.IsEnvGlobal(name) {
			continue
		}

		if provider, ok := reservedProviders[name]; ok {
			if provider != selfName {
				resolved[name] = domain.NpmName(scope, provider)
			}
			continue
		}

		if spec := u.lookupProvider(archName, depNames, name); spec != "" {
			resolved[name] = spec
		}
	}
	return resolved
}

// lookupProvider walks the strong dependencies in declaration order and
// returns the specifier of the first one providing the symbol.
func (u *Unit) lookupProvider(archName string, depNames []string, symbol string) string {
	for _, depName := range depNames {
		dep := u.reg.Lookup(depName)
		if dep == nil {
			continue
		}

		if contains(dep.ExportsFor(archName), symbol) {
			return dep.NpmName()
		}
		if spec, ok := dep.ResolvedFor(archName)[symbol]; ok {
			return spec
		}
		for _, impliedName := range dep.ImpliedFor(archName) {
			implied := u.reg.Lookup(impliedName)
			if implied == nil {
				continue
			}
			if contains(implied.ExportsFor(archName), symbol) {
				return implied.NpmName()
			}
		}
	}
	return ""
}

// depNamesFor returns the strong dependency names visible to one build
// target, in declaration order.
func (u *Unit) depNamesFor(archName string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	preload := u.nearestArch(archName).PreloadPackages(false)
	names := make([]string, 0, len(preload))
	for _, n := range preload {
		names = append(names, n.String())
	}
	return names
}
