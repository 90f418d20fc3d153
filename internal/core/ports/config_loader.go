package ports

import "go.trai.ch/tend/internal/core/domain"

// ConfigLoader defines the interface for loading the maintenance configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration. An explicit path wins over discovery from cwd.
	// When no file is found the defaults are returned.
	Load(cwd, path string) (*domain.Config, error)
}
