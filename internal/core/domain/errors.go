package domain

import "go.trai.ch/zerr"

var (
	// ErrParseFailure is returned when a source file cannot be parsed.
	// It is fatal for the whole package conversion.
	ErrParseFailure = zerr.New("source file parse failure")

	// ErrMissingDependency is returned when a declared dependency cannot be
	// found or loaded.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrMissingToolchain is returned when the legacy framework installation
	// is absent or a requested package is not installed by it.
	ErrMissingToolchain = zerr.New("legacy toolchain or package not installed")

	// ErrWriteFailure is returned when any step of the package write phase
	// fails. It carries the package name, output root and phase index.
	ErrWriteFailure = zerr.New("package write failure")

	// ErrPlaceholderVersion is returned when a dependency version placeholder
	// survives to manifest emission.
	ErrPlaceholderVersion = zerr.New("unresolved dependency version placeholder")

	// ErrUnknownArchitecture is returned when a build refers to a target the
	// converter does not model.
	ErrUnknownArchitecture = zerr.New("unknown build architecture")

	// ErrConversionFailed is returned by the application layer when the run
	// aborted; the cause is attached.
	ErrConversionFailed = zerr.New("conversion failed")

	// ErrNoPackagesRequested is returned when neither the CLI nor the
	// configuration names any package to convert.
	ErrNoPackagesRequested = zerr.New("no packages requested")
)
