package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

// InstrumentationName names the tracer used for task spans.
const InstrumentationName = "kiln"

var _ ports.Tracer = (*OTelTracer)(nil)

// Setup creates a TracerProvider that forwards every span to renderer. Callers shut it
// down once their spans have ended.
func Setup(renderer ports.Renderer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	)
}

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracerFromProvider creates a tracer bound to tp.
func NewOTelTracerFromProvider(tp trace.TracerProvider, name string) *OTelTracer {
	return &OTelTracer{tracer: tp.Tracer(name)}
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &OTelSpan{span: span}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span trace.Span
}

// End completes the span.
func (s *OTelSpan) End() {
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}
