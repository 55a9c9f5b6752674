// Package app implements the application layer for depstrap.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/depstrap/depstrap/internal/adapters/detector"
	"github.com/depstrap/depstrap/internal/adapters/linear"
	"github.com/depstrap/depstrap/internal/adapters/telemetry"
	"github.com/depstrap/depstrap/internal/core/domain"
	"github.com/depstrap/depstrap/internal/core/ports"
	"github.com/depstrap/depstrap/internal/engine/pipeline"
	"github.com/depstrap/depstrap/internal/ui/style"
)

// jsonSwitcher describes a logger that can switch to JSON records.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	syncer       ports.Syncer
	store        ports.ManifestStore
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	syncer ports.Syncer,
	store ports.ManifestStore,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		syncer:       syncer,
		store:        store,
		logger:       log,
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Force      bool
	SkipTests  bool
	Only       string
	CacheDir   string
	OutputMode string
}

// Run executes the bootstrap pipeline.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	// 1. Load the plan
	plan, err := a.configLoader.Load(".", opts.CacheDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 2. Initialize Renderer
	// Detect environment and resolve output mode
	autoMode := detector.DetectEnvironment()
	mode := detector.ResolveMode(autoMode, opts.OutputMode)

	var renderer ports.Renderer
	switch mode {
	case detector.ModePretty:
		renderer = linear.NewPrettyRenderer(os.Stdout, os.Stderr)
	case detector.ModeJSON:
		if l, ok := a.logger.(jsonSwitcher); ok {
			l.SetJSON(true)
		}
		renderer = linear.NewRenderer(os.Stdout, os.Stderr)
	default:
		renderer = linear.NewRenderer(os.Stdout, os.Stderr)
	}

	// 3. Initialize Telemetry
	// Create a bridge that sends OTel spans to the renderer, and register a
	// provider that forwards every started span through it.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	// The tracer gets the renderer directly so stage output can stream
	// without going through span events.
	tracer := telemetry.NewOTelTracer("depstrap").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	// 4. Initialize Pipeline
	pipe := pipeline.New(a.executor, a.syncer, a.store, tracer, a.logger)

	// 5. Run Renderer and Pipeline concurrently
	g, ctx := errgroup.WithContext(ctx)

	// Renderer Routine
	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	// Pipeline Routine
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "Pipeline panic: %v\n", r)
			}
			_ = renderer.Stop()
		}()

		if err := pipe.Run(ctx, plan, pipeline.RunOptions{
			Force:     opts.Force,
			SkipTests: opts.SkipTests,
			Only:      opts.Only,
		}); err != nil {
			return errors.Join(domain.ErrBootstrapFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// StatusOptions configuration for the Status method.
type StatusOptions struct {
	CacheDir string
}

// Status prints a table of every planned stage and its manifest state.
func (a *App) Status(_ context.Context, opts StatusOptions) error {
	plan, err := a.configLoader.Load(".", opts.CacheDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STAGE", "REPOSITORY", "STATE", "COMPLETED")

	for i := range plan.Stages {
		stage := &plan.Stages[i]

		info, err := a.store.Get(plan.CacheRoot, stage.Name)
		if err != nil {
			return err
		}

		state := style.Circle + " pending"
		completed := "-"
		switch {
		case info == nil:
		case info.Fingerprint == stage.Fingerprint(plan.CacheRoot):
			state = style.Check + " done"
			completed = info.CompletedAt.Format("2006-01-02 15:04:05")
		default:
			state = style.Tilde + " stale"
			completed = info.CompletedAt.Format("2006-01-02 15:04:05")
		}

		t.Row(stage.Name, stage.Repo, state, completed)
	}

	fmt.Fprintf(os.Stdout, "Cache root: %s\n%s\n", plan.CacheRoot, t)
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	CacheDir string

	// Sources also removes the cached checkouts, not just the manifest.
	Sources bool
}

// Clean removes manifest records, and optionally the cached checkouts.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	plan, err := a.configLoader.Load(".", opts.CacheDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Sources {
		a.logger.Info(fmt.Sprintf("removing cache root %s...", plan.CacheRoot))
		if err := os.RemoveAll(plan.CacheRoot); err != nil {
			return zerr.Wrap(err, "failed to remove cache root")
		}
		a.logger.Info("removed cache root")
		return nil
	}

	a.logger.Info("removing stage manifest...")
	if err := a.store.Delete(plan.CacheRoot); err != nil {
		return zerr.Wrap(err, "failed to remove stage manifest")
	}
	a.logger.Info("removed stage manifest")
	return nil
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
