package telemetry

import (
	"context"

	"github.com/depstrap/depstrap/internal/core/ports"
)

// NoopTracer is a Tracer that records nothing. Used in tests and for
// commands that do not render a pipeline.
type NoopTracer struct{}

// NewNoop returns a NoopTracer.
func NewNoop() *NoopTracer {
	return &NoopTracer{}
}

// Start returns a span that discards everything.
func (t *NoopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

// EmitPlan does nothing.
func (t *NoopTracer) EmitPlan(_ context.Context, _ []string) {}

type noopSpan struct{}

func (noopSpan) Write(p []byte) (int, error)  { return len(p), nil }
func (noopSpan) End()                         {}
func (noopSpan) RecordError(_ error)          {}
func (noopSpan) SetAttribute(_ string, _ any) {}
