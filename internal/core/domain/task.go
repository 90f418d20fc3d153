package domain

import "context"

// Category classifies how the runner treats a task's failures.
type Category uint8

const (
	// Independent tasks run once; any failure is terminal for the task.
	Independent Category = iota
	// PrerequisiteGated tasks skip their remaining sub-steps when a gate sub-step fails.
	PrerequisiteGated
	// Retryable tasks get one recovery action and one retry after a failure.
	Retryable
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case Independent:
		return "independent"
	case PrerequisiteGated:
		return "prerequisite-gated"
	case Retryable:
		return "retryable"
	default:
		return "unknown"
	}
}

// Outcome is what an action reports when it completes without failure.
type Outcome struct {
	// Message is a short human-readable result, e.g. "no integrity violations".
	Message string
	// Recovered is set by the retry policy when the task only succeeded after recovery.
	Recovered bool
	// Network carries the adapter diff produced by the network reset task.
	Network *NetworkReport
}

// Action is the single capability every maintenance step implements.
type Action interface {
	Run(ctx context.Context) (Outcome, error)
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(ctx context.Context) (Outcome, error)

// Run calls f(ctx).
func (f ActionFunc) Run(ctx context.Context) (Outcome, error) {
	return f(ctx)
}

// Task is one discrete maintenance operation in the ordered run.
// Tasks are immutable once registered with the orchestrator.
type Task struct {
	Name     string
	Category Category
	Action   Action
	// Recovery is executed once between a failed attempt and the retry.
	// Only Retryable tasks use it.
	Recovery Action
}

// Validate checks that the task can be registered.
func (t Task) Validate() error {
	if t.Name == "" {
		return ErrEmptyTaskName
	}
	if t.Action == nil {
		return ErrMissingAction
	}
	if t.Category == Retryable && t.Recovery == nil {
		return ErrMissingRecovery
	}
	return nil
}
