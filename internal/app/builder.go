package app

import (
	"go.trai.ch/grocer/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App     *App
	Logger  ports.Logger
	Metrics *metrics.Prometheus
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger, m *metrics.Prometheus) *Components {
	return &Components{
		App:     app,
		Logger:  logger,
		Metrics: m,
	}
}
