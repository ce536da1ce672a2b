// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/kiln/internal/adapters/config"
	_ "go.trai.ch/kiln/internal/adapters/devserver"
	_ "go.trai.ch/kiln/internal/adapters/fs"
	_ "go.trai.ch/kiln/internal/adapters/logger"
	_ "go.trai.ch/kiln/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/kiln/internal/app"
)
