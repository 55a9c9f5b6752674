package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/depstrap/depstrap/internal/app"
	"github.com/depstrap/depstrap/internal/core/domain"
	"github.com/depstrap/depstrap/internal/core/ports/mocks"
)

func newTestComponents(ctrl *gomock.Controller, loader *mocks.MockConfigLoader) (*app.Components, *mocks.MockLogger) {
	logger := mocks.NewMockLogger(ctrl)

	application := app.New(
		loader,
		mocks.NewMockExecutor(ctrl),
		mocks.NewMockSyncer(ctrl),
		mocks.NewMockManifestStore(ctrl),
		logger,
	)

	return &app.Components{App: application, Logger: logger}, logger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	components, _ := newTestComponents(ctrl, mocks.NewMockConfigLoader(ctrl))
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loader := mocks.NewMockConfigLoader(ctrl)
	components, logger := newTestComponents(ctrl, loader)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	// Mock Load failing to simulate execution failure
	loader.EXPECT().Load(".", "").Return(nil, errors.New("load failed"))

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"status"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	blockCh := make(chan struct{})

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(func(_, _ string) (*domain.Plan, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	components, logger := newTestComponents(ctrl, loader)
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"status"}, io.Discard, func(context.Context) (*app.Components, func(), error) {
			return components, func() {}, nil
		})
	}()

	// Wait a bit to ensure run() reaches Load()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
