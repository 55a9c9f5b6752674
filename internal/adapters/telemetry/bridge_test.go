package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/mock/gomock"

	"github.com/depstrap/depstrap/internal/adapters/telemetry"
	"github.com/depstrap/depstrap/internal/core/ports"
	"github.com/depstrap/depstrap/internal/core/ports/mocks"
)

// newBridgedProvider wires a Bridge into a real SDK tracer provider so span
// lifecycle events reach the renderer the same way they do in production.
func newBridgedProvider(renderer ports.Renderer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)),
	)
}

func TestBridge_SpanLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var startedID string
	renderer.EXPECT().
		OnStageStart(gomock.Any(), "", "openblas", gomock.Any()).
		Do(func(spanID, _, _ string, _ any) { startedID = spanID })
	renderer.EXPECT().
		OnStageComplete(gomock.Any(), gomock.Any(), nil).
		Do(func(spanID string, _ any, _ error) {
			assert.Equal(t, startedID, spanID)
		})

	tp := newBridgedProvider(renderer)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "openblas")
	span.End()
}

func TestBridge_ParentSpanID(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var rootID string
	renderer.EXPECT().
		OnStageStart(gomock.Any(), "", "pipeline", gomock.Any()).
		Do(func(spanID, _, _ string, _ any) { rootID = spanID })
	renderer.EXPECT().
		OnStageStart(gomock.Any(), gomock.Any(), "petsc", gomock.Any()).
		Do(func(_, parentID, _ string, _ any) {
			assert.Equal(t, rootID, parentID)
		})
	renderer.EXPECT().OnStageComplete(gomock.Any(), gomock.Any(), nil).Times(2)

	tp := newBridgedProvider(renderer)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, root := tp.Tracer("test").Start(context.Background(), "pipeline")
	_, child := tp.Tracer("test").Start(ctx, "petsc")
	child.End()
	root.End()
}

func TestBridge_ErrorStatusIsForwarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	renderer.EXPECT().OnStageStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().
		OnStageComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ any, err error) {
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configure failed")
		})

	tp := newBridgedProvider(renderer)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	// Use the tracer adapter so RecordError sets the span status.
	tracer := telemetry.NewOTelTracerWithProvider(tp, "test")
	_, span := tracer.Start(context.Background(), "petsc")
	span.RecordError(errors.New("configure failed"))
	span.End()
}

func TestBridge_NilRendererIsSafe(t *testing.T) {
	tp := newBridgedProvider(nil)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "slepc")
	span.End()
}

func TestOTelSpan_WriteStreamsToRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnStageStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	renderer.EXPECT().OnStageComplete(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	var logged []byte
	renderer.EXPECT().
		OnStageLog(gomock.Any(), gomock.Any()).
		Do(func(_ string, data []byte) { logged = data })

	tp := newBridgedProvider(renderer)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracerWithProvider(tp, "test").WithRenderer(renderer)
	_, span := tracer.Start(context.Background(), "mpi4py")

	buf := []byte("collecting mpi4py\n")
	n, err := span.Write(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, buf, logged)

	// The span keeps its own copy.
	buf[0] = 'X'
	assert.NotEqual(t, buf[0], logged[0])

	span.End()
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnPlanEmit([]string{"openblas", "petsc"})

	tracer := telemetry.NewOTelTracer("test").WithRenderer(renderer)
	tracer.EmitPlan(context.Background(), []string{"openblas", "petsc"})
}
