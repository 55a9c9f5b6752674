// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/depstrap/depstrap/internal/adapters/config"
	_ "github.com/depstrap/depstrap/internal/adapters/git"
	_ "github.com/depstrap/depstrap/internal/adapters/logger"
	_ "github.com/depstrap/depstrap/internal/adapters/manifest"
	_ "github.com/depstrap/depstrap/internal/adapters/shell"
	// Register app nodes.
	_ "github.com/depstrap/depstrap/internal/app"
)
