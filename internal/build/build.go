// Package build holds build-time information.
package build

// Version is the exodus release version.
// It defaults to "dev" and is overwritten at release time via -ldflags.
var Version = "dev"
