package ports

import "go.trai.ch/grocer/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the parsed project. A file path is read directly; a directory starts an
	// upward search for the configuration file.
	Load(cwd string) (*domain.Project, error)
}
