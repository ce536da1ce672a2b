package ports

import "context"

// Tracer starts spans around task executions.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// Start creates a span named after a task.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a single task execution.
type Span interface {
	// RecordError marks the span as failed.
	RecordError(err error)
	// End completes the span.
	End()
}
