// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/tsmulti/internal/adapters/compilers"
	_ "go.trai.ch/tsmulti/internal/adapters/config"
	_ "go.trai.ch/tsmulti/internal/adapters/fs"
	_ "go.trai.ch/tsmulti/internal/adapters/logger"
	_ "go.trai.ch/tsmulti/internal/adapters/process"
	_ "go.trai.ch/tsmulti/internal/adapters/telemetry"
	_ "go.trai.ch/tsmulti/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/tsmulti/internal/app"
	_ "go.trai.ch/tsmulti/internal/engine/orchestrator"
)
