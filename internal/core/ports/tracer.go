package ports

import "context"

// Span is one traced unit of work.
type Span interface {
	End()
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
	// RecordError records err and marks the span as failed.
	RecordError(err error)
}

// Tracer starts spans.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}
