// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/reweave/reweave/internal/adapters/config"
	_ "github.com/reweave/reweave/internal/adapters/fs"
	_ "github.com/reweave/reweave/internal/adapters/instrument"
	_ "github.com/reweave/reweave/internal/adapters/logger"
	_ "github.com/reweave/reweave/internal/adapters/telemetry"
	// Register app nodes.
	_ "github.com/reweave/reweave/internal/app"
)
