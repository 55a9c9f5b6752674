// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"github.com/depstrap/depstrap/internal/core/domain"
)

// Executor defines the interface for running external build commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and waits for it to exit.
	//
	// The env parameter contains the complete environment in "KEY=VALUE"
	// format; the subprocess inherits nothing beyond it except an
	// allow-listed slice of the system environment.
	//
	// It returns an error if the command exits non-zero.
	Execute(ctx context.Context, cmd *domain.Command, env []string, stdout, stderr io.Writer) error
}
