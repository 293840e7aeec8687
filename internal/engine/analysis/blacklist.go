package analysis

// envGlobals are the hosting environment's own names: never reported as free
// symbols. The list covers the ECMAScript builtins plus the Node and browser
// globals the legacy corpus touches.
var envGlobals = map[string]struct{}{}

// frameworkReserved are names the legacy framework injects specially. They
// are reported as free reads so the resolver and the capability detection can
// see them, but they must never be classified as package-owned.
var frameworkReserved = map[string]struct{}{
	"Npm":                       {},
	"Assets":                    {},
	"Cordova":                   {},
	"require":                   {},
	"__meteor_bootstrap__":      {},
	"__meteor_runtime_config__": {},
}

func init() {
	names := []string{
		// ECMAScript builtins.
		"Object", "Array", "String", "Number", "Boolean", "Function", "Symbol",
		"BigInt", "Math", "JSON", "Date", "RegExp", "Promise", "Proxy",
		"Reflect", "Map", "Set", "WeakMap", "WeakSet", "WeakRef",
		"FinalizationRegistry", "ArrayBuffer", "SharedArrayBuffer", "DataView",
		"Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array",
		"Uint16Array", "Int32Array", "Uint32Array", "Float32Array",
		"Float64Array", "BigInt64Array", "BigUint64Array", "Atomics", "Intl",
		"Error", "EvalError", "RangeError", "ReferenceError", "SyntaxError",
		"TypeError", "URIError", "AggregateError",
		"globalThis", "undefined", "NaN", "Infinity", "eval", "isFinite",
		"isNaN", "parseFloat", "parseInt", "decodeURI", "decodeURIComponent",
		"encodeURI", "encodeURIComponent", "escape", "unescape",
		// Shared host globals.
		"console", "setTimeout", "clearTimeout", "setInterval",
		"clearInterval", "setImmediate", "clearImmediate", "queueMicrotask",
		"structuredClone", "fetch", "URL", "URLSearchParams", "TextEncoder",
		"TextDecoder", "AbortController", "AbortSignal", "crypto",
		"performance", "atob", "btoa",
		// Node.
		"Buffer", "process", "global", "module", "exports", "__dirname",
		"__filename",
		// Browser.
		"window", "document", "navigator", "location", "history",
		"localStorage", "sessionStorage", "XMLHttpRequest", "WebSocket",
		"Worker", "alert", "confirm", "prompt", "arguments",
	}
	for _, n := range names {
		envGlobals[n] = struct{}{}
	}
}

// IsEnvGlobal reports whether name belongs to the hosting environment.
func IsEnvGlobal(name string) bool {
	_, ok := envGlobals[name]
	return ok
}

// IsFrameworkReserved reports whether name is injected specially by the
// legacy framework and must not become package-owned.
func IsFrameworkReserved(name string) bool {
	_, ok := frameworkReserved[name]
	return ok
}
