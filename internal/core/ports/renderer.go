package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering. It decouples the span
// stream produced by the pipeline from presentation, so the same events can
// drive plain CI logs or a colored terminal.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to flush buffered output and shut down.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once with the ordered stage names of this run.
	OnPlanEmit(stages []string)

	// OnStageStart is called when a stage (or setup phase) begins.
	OnStageStart(spanID, parentID, name string, startTime time.Time)

	// OnStageLog is called when a stage's subprocess emits output.
	// data may contain partial lines or ANSI sequences.
	OnStageLog(spanID string, data []byte)

	// OnStageComplete is called when a stage finishes.
	// err is nil on success.
	OnStageComplete(spanID string, endTime time.Time, err error)
}
