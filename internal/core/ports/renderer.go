package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for console progress output.
// It decouples telemetry collection from presentation.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes buffered output. No events are accepted afterwards.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once with the task names in execution order.
	OnPlanEmit(tasks []string)

	// OnTaskStart is called when a task begins execution.
	OnTaskStart(spanID, name string, startTime time.Time)

	// OnTaskLog is called when a task emits command output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a task finishes.
	// status is the task status name; message is the result message.
	OnTaskComplete(spanID string, endTime time.Time, status, message string)
}
