package ports

import "github.com/depstrap/depstrap/internal/core/domain"

// ConfigLoader defines the interface for loading the bootstrap plan.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load builds the plan for the given working directory. cacheRoot
	// overrides the configured cache directory when non-empty. A missing
	// config file is not an error; the built-in plan is returned.
	Load(cwd, cacheRoot string) (*domain.Plan, error)
}
