// Package telemetry adapts OpenTelemetry spans to task progress reporting.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge is a span processor that reports task spans to a Renderer. Spans of other
// instrumentation scopes are ignored.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer. A nil renderer reports nothing.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

func (b *Bridge) reports(s sdktrace.ReadOnlySpan) bool {
	return b.renderer != nil &&
		s.SpanContext().IsValid() &&
		s.InstrumentationScope().Name == InstrumentationName
}

// OnStart announces the task named by the span.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if !b.reports(s) {
		return
	}
	b.renderer.OnTaskStart(s.SpanContext().SpanID().String(), s.Name(), s.StartTime())
}

// OnEnd reports the outcome of the task. A span with an error status becomes the
// task's error.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !b.reports(s) {
		return
	}

	var err error
	if status := s.Status(); status.Code == codes.Error {
		msg := status.Description
		if msg == "" {
			msg = "task failed"
		}
		err = zerr.With(zerr.New(msg), "task", s.Name())
	}
	b.renderer.OnTaskComplete(s.SpanContext().SpanID().String(), s.EndTime(), err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(context.Context) error { return nil }

// Shutdown does nothing.
func (b *Bridge) Shutdown(context.Context) error { return nil }
