// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/exodus/internal/adapters/config"
	_ "go.trai.ch/exodus/internal/adapters/descriptor"
	_ "go.trai.ch/exodus/internal/adapters/fs"
	_ "go.trai.ch/exodus/internal/adapters/isopack"
	_ "go.trai.ch/exodus/internal/adapters/logger"
	_ "go.trai.ch/exodus/internal/adapters/npm"
	_ "go.trai.ch/exodus/internal/adapters/state"
	_ "go.trai.ch/exodus/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/exodus/internal/app"
	_ "go.trai.ch/exodus/internal/engine/converter"
)
