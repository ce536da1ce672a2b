package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestTracer_ReportsSpansThroughBridge(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := telemetry.NewOTelTracerFromProvider(tp, telemetry.InstrumentationName)

	var stylesID string
	gomock.InOrder(
		renderer.EXPECT().OnTaskStart(gomock.Any(), "build", gomock.Any()),
		renderer.EXPECT().OnTaskStart(gomock.Any(), "styles", gomock.Any()).
			Do(func(spanID, _ string, _ any) { stylesID = spanID }),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Not(nil)).
			Do(func(spanID string, _ any, err error) {
				assert.Equal(t, stylesID, spanID)
				assert.ErrorContains(t, err, "boom")
			}),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil),
	)

	ctx, build := tracer.Start(t.Context(), "build")
	_, styles := tracer.Start(ctx, "styles")
	styles.RecordError(errors.New("boom"))
	styles.End()
	build.End()
}

func TestBridge_IgnoresForeignScopes(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("net/http").Start(t.Context(), "GET /")
	span.End()
}

func TestBridge_NilRenderer(_ *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := telemetry.NewOTelTracerFromProvider(tp, "test").Start(context.Background(), "noop")
	span.End()
}

func TestNoOpTracer(t *testing.T) {
	ctx := t.Context()
	got, span := telemetry.NewNoOpTracer().Start(ctx, "anything")
	assert.Equal(t, ctx, got)
	span.RecordError(errors.New("ignored"))
	span.End()
}
