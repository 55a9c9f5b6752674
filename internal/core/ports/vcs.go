package ports

import (
	"context"
	"io"

	"github.com/depstrap/depstrap/internal/core/domain"
)

// Syncer defines the interface for materializing and refreshing source
// repositories in the cache.
//
//go:generate mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type Syncer interface {
	// Clone checks the repository out into dir at its configured shallow depth.
	Clone(ctx context.Context, repo *domain.Repository, dir string, env []string, out io.Writer) error

	// Update refreshes an existing checkout to the latest upstream state.
	Update(ctx context.Context, dir string, env []string, out io.Writer) error
}
