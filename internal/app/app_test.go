package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/depstrap/depstrap/internal/app"
	"github.com/depstrap/depstrap/internal/core/domain"
	"github.com/depstrap/depstrap/internal/core/ports/mocks"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	syncer   *mocks.MockSyncer
	store    *mocks.MockManifestStore
	logger   *mocks.MockLogger
	app      *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		syncer:   mocks.NewMockSyncer(ctrl),
		store:    mocks.NewMockManifestStore(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	f.app = app.New(f.loader, f.executor, f.syncer, f.store, f.logger)
	return f
}

func emptyPlan(cacheRoot string) *domain.Plan {
	return &domain.Plan{CacheRoot: cacheRoot}
}

func TestApp_Run_EmptyPlan(t *testing.T) {
	f := newFixture(t)
	cacheRoot := t.TempDir()
	f.loader.EXPECT().Load(".", "").Return(emptyPlan(cacheRoot), nil)

	err := f.app.Run(context.Background(), app.RunOptions{OutputMode: "ci"})
	require.NoError(t, err)
}

func TestApp_Run_ConfigLoadFailure(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".", "").Return(nil, errors.New("no such file"))

	err := f.app.Run(context.Background(), app.RunOptions{OutputMode: "ci"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Run_CacheDirIsForwarded(t *testing.T) {
	f := newFixture(t)
	cacheRoot := t.TempDir()
	f.loader.EXPECT().Load(".", "/override").Return(emptyPlan(cacheRoot), nil)

	err := f.app.Run(context.Background(), app.RunOptions{CacheDir: "/override", OutputMode: "ci"})
	require.NoError(t, err)
}

func TestApp_Run_CloneFailureReturnsBootstrapError(t *testing.T) {
	f := newFixture(t)
	cacheRoot := t.TempDir()

	plan := &domain.Plan{
		CacheRoot:    cacheRoot,
		Repositories: []domain.Repository{{Name: "petsc", URL: "https://gitlab.com/petsc/petsc.git"}},
		Stages:       []domain.Stage{{Name: "petsc", Repo: "petsc", Build: [][]string{{"make"}}}},
	}
	f.loader.EXPECT().Load(".", "").Return(plan, nil)
	f.syncer.EXPECT().
		Clone(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("network unreachable"))

	err := f.app.Run(context.Background(), app.RunOptions{OutputMode: "ci"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBootstrapFailed)
}

func TestApp_Status(t *testing.T) {
	f := newFixture(t)
	cacheRoot := t.TempDir()
	plan := domain.DefaultPlan(cacheRoot)
	f.loader.EXPECT().Load(".", "").Return(plan, nil)

	// First stage completed and current, the rest never ran.
	done := &domain.StageInfo{
		Stage:       "openblas",
		Fingerprint: plan.Stages[0].Fingerprint(cacheRoot),
		CompletedAt: time.Now(),
	}
	f.store.EXPECT().Get(cacheRoot, "openblas").Return(done, nil)
	for _, name := range []string{"petsc", "slepc", "petsc4py", "slepc4py", "mpi4py"} {
		f.store.EXPECT().Get(cacheRoot, name).Return(nil, nil)
	}

	err := f.app.Status(context.Background(), app.StatusOptions{})
	require.NoError(t, err)
}

func TestApp_Status_StoreFailure(t *testing.T) {
	f := newFixture(t)
	cacheRoot := t.TempDir()
	f.loader.EXPECT().Load(".", "").Return(domain.DefaultPlan(cacheRoot), nil)
	f.store.EXPECT().Get(cacheRoot, "openblas").Return(nil, errors.New("permission denied"))

	err := f.app.Status(context.Background(), app.StatusOptions{})
	require.Error(t, err)
}

func TestApp_Clean_RemovesManifest(t *testing.T) {
	f := newFixture(t)
	cacheRoot := t.TempDir()
	f.loader.EXPECT().Load(".", "").Return(emptyPlan(cacheRoot), nil)
	f.store.EXPECT().Delete(cacheRoot).Return(nil)

	err := f.app.Clean(context.Background(), app.CleanOptions{})
	require.NoError(t, err)
}

func TestApp_Clean_SourcesRemovesCacheRoot(t *testing.T) {
	f := newFixture(t)
	cacheRoot := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.MkdirAll(filepath.Join(cacheRoot, "petsc"), 0o750))
	f.loader.EXPECT().Load(".", "").Return(emptyPlan(cacheRoot), nil)

	err := f.app.Clean(context.Background(), app.CleanOptions{Sources: true})
	require.NoError(t, err)

	_, statErr := os.Stat(cacheRoot)
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_Clean_ManifestDeleteFailure(t *testing.T) {
	f := newFixture(t)
	cacheRoot := t.TempDir()
	f.loader.EXPECT().Load(".", "").Return(emptyPlan(cacheRoot), nil)
	f.store.EXPECT().Delete(cacheRoot).Return(errors.New("read-only filesystem"))

	err := f.app.Clean(context.Background(), app.CleanOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to remove stage manifest")
}
