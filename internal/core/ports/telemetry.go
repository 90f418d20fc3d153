package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Span attribute keys describing a task's result.
const (
	AttrCategory = "task.category"
	AttrStatus   = "task.status"
	AttrMessage  = "task.message"
)

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals the ordered list of tasks about to run.
	EmitPlan(ctx context.Context, taskNames []string)
}

// Span represents a unit of work.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	Category string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithCategory tags the span with the task category.
func WithCategory(category string) SpanOption {
	return func(c *SpanConfig) {
		c.Category = category
	}
}
