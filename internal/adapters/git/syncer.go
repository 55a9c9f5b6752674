// Package git implements repository syncing by shelling out to the git CLI.
package git

import (
	"context"
	"io"
	"strconv"

	"go.trai.ch/zerr"

	"github.com/depstrap/depstrap/internal/core/domain"
	"github.com/depstrap/depstrap/internal/core/ports"
)

// Syncer implements ports.Syncer on top of the executor port, so clone and
// pull invocations flow through the same subprocess path as build commands.
type Syncer struct {
	executor ports.Executor
}

// NewSyncer creates a Syncer backed by the given executor.
func NewSyncer(executor ports.Executor) *Syncer {
	return &Syncer{executor: executor}
}

// Clone checks out the repository into dir at its configured shallow depth.
func (s *Syncer) Clone(
	ctx context.Context,
	repo *domain.Repository,
	dir string,
	env []string,
	out io.Writer,
) error {
	argv := []string{"git", "clone"}
	if repo.Depth > 0 {
		argv = append(argv, "--depth", strconv.Itoa(repo.Depth))
	}
	argv = append(argv, repo.URL, dir)

	cmd := &domain.Command{Argv: argv}
	if err := s.executor.Execute(ctx, cmd, env, out, out); err != nil {
		return zerr.With(zerr.Wrap(err, "git clone failed"), "url", repo.URL)
	}
	return nil
}

// Update fast-forwards an existing checkout to the latest upstream state.
func (s *Syncer) Update(ctx context.Context, dir string, env []string, out io.Writer) error {
	cmd := &domain.Command{
		Argv: []string{"git", "pull", "--ff-only"},
		Dir:  dir,
	}
	if err := s.executor.Execute(ctx, cmd, env, out, out); err != nil {
		return zerr.With(zerr.Wrap(err, "git pull failed"), "dir", dir)
	}
	return nil
}
