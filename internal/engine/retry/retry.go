// Package retry implements the recover-then-retry-once protocol for
// retryable tasks.
package retry

import (
	"context"
	"fmt"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

// Policy runs a retryable task's action at most twice with its recovery
// action in between. Every failure it observes is journaled here, so callers
// must not journal the returned error again.
type Policy struct {
	journal ports.Journal
}

// New creates a Policy that journals to j.
func New(j ports.Journal) *Policy {
	return &Policy{journal: j}
}

// Run executes task.Action. On failure it runs task.Recovery once and, if the
// recovery succeeded, retries the action once. A successful retry yields an
// outcome with Recovered set.
func (p *Policy) Run(ctx context.Context, task domain.Task) (domain.Outcome, error) {
	out, err := task.Action.Run(ctx)
	if err == nil {
		return out, nil
	}
	p.journal.Record(domain.LevelError, fmt.Sprintf("%s failed: %s; running recovery action", task.Name, domain.Describe(err)))

	if task.Recovery == nil {
		return domain.Outcome{}, zerr.Wrap(err, domain.ErrMissingRecovery.Error())
	}

	if _, recErr := task.Recovery.Run(ctx); recErr != nil {
		p.journal.Record(domain.LevelError, fmt.Sprintf("%s recovery action failed: %s; not retrying", task.Name, domain.Describe(recErr)))
		wrapped := zerr.Wrap(recErr, domain.ErrRecoveryFailed.Error())
		return domain.Outcome{}, zerr.With(wrapped, "first_attempt", err.Error())
	}
	p.journal.Record(domain.LevelInfo, fmt.Sprintf("%s recovery action succeeded; retrying", task.Name))

	out, err = task.Action.Run(ctx)
	if err != nil {
		p.journal.Record(domain.LevelError, fmt.Sprintf("%s retry failed: %s", task.Name, domain.Describe(err)))
		return domain.Outcome{}, zerr.Wrap(err, domain.ErrRetryFailed.Error())
	}

	out.Recovered = true
	return out, nil
}
