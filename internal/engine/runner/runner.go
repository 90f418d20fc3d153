// Package runner executes a single maintenance task and contains its failure.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/tend/internal/engine/retry"
	"go.trai.ch/zerr"
)

var _ ports.TaskRunner = (*Runner)(nil)

// Runner implements ports.TaskRunner.
type Runner struct {
	journal ports.Journal
	tracer  ports.Tracer
	policy  *retry.Policy
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New creates a Runner.
func New(journal ports.Journal, tracer ports.Tracer, opts ...Option) *Runner {
	r := &Runner{
		journal: journal,
		tracer:  tracer,
		policy:  retry.New(journal),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes task and returns exactly one result. Errors and panics raised
// by the task's actions are recorded in the result and never propagate.
func (r *Runner) Run(ctx context.Context, task domain.Task) domain.TaskResult {
	result := domain.TaskResult{Task: task.Name, StartedAt: r.now()}
	r.journal.Record(domain.LevelInfo, "starting "+task.Name)

	ctx, span := r.tracer.Start(ctx, task.Name, ports.WithCategory(task.Category.String()))
	defer span.End()
	ctx = ports.WithOutput(ctx, span)

	out, err := r.invoke(ctx, task)
	result.FinishedAt = r.now()
	result.Network = out.Network

	var prereq *domain.PrerequisiteError
	switch {
	case err == nil && out.Recovered:
		result.Status = domain.StatusRecoveredAfterRetry
		result.Message = out.Message
		r.journal.Record(domain.LevelInfo, completion(task.Name, "recovered after retry", out.Message))
	case err == nil:
		result.Status = domain.StatusSuccess
		result.Message = out.Message
		r.journal.Record(domain.LevelInfo, completion(task.Name, "completed", out.Message))
	case task.Category == domain.PrerequisiteGated && errors.As(err, &prereq):
		result.Status = domain.StatusSkipped
		result.Message = err.Error()
		r.journal.Record(domain.LevelError, fmt.Sprintf("%s skipped: %s", task.Name, domain.Describe(err)))
	default:
		result.Status = domain.StatusFailure
		result.Message = err.Error()
		span.RecordError(err)
		if task.Category != domain.Retryable {
			r.journal.Record(domain.LevelError, fmt.Sprintf("%s failed: %s", task.Name, domain.Describe(err)))
		}
	}

	span.SetAttribute(ports.AttrStatus, result.Status)
	span.SetAttribute(ports.AttrMessage, result.Message)
	return result
}

func (r *Runner) invoke(ctx context.Context, task domain.Task) (domain.Outcome, error) {
	if task.Action == nil {
		return domain.Outcome{}, domain.ErrMissingAction
	}
	if task.Category == domain.Retryable {
		guarded := task
		guarded.Action = contained(task.Action)
		if task.Recovery != nil {
			guarded.Recovery = contained(task.Recovery)
		}
		return r.policy.Run(ctx, guarded)
	}
	return contained(task.Action).Run(ctx)
}

// contained turns a panic inside a into an error.
func contained(a domain.Action) domain.Action {
	return domain.ActionFunc(func(ctx context.Context) (out domain.Outcome, err error) {
		defer func() {
			if p := recover(); p != nil {
				out = domain.Outcome{}
				err = zerr.Wrap(fmt.Errorf("%v", p), domain.ErrTaskPanicked.Error())
			}
		}()
		return a.Run(ctx)
	})
}

func completion(name, verb, message string) string {
	if message == "" {
		return name + " " + verb
	}
	return name + " " + verb + ": " + message
}
