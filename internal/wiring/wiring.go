// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/grocer/internal/adapters/config"
	_ "go.trai.ch/grocer/internal/adapters/logger"
	_ "go.trai.ch/grocer/internal/adapters/metrics"
	_ "go.trai.ch/grocer/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/grocer/internal/app"
)
