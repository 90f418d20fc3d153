package tasks

import (
	"context"
	"fmt"

	"go.trai.ch/tend/internal/core/domain"
)

// Resetter performs a network reset and reports adapter changes.
type Resetter interface {
	Reset(ctx context.Context) (domain.NetworkReport, error)
}

// NetworkReset resets the network stack and attaches the adapter diff to
// its outcome.
type NetworkReset struct {
	Resetter Resetter
}

// Run implements domain.Action.
func (n *NetworkReset) Run(ctx context.Context) (domain.Outcome, error) {
	report, err := n.Resetter.Reset(ctx)
	if err != nil {
		return domain.Outcome{}, err
	}
	return domain.Outcome{
		Message: fmt.Sprintf("%d of %d adapter(s) changed state", report.ChangedCount(), len(report.Changes)),
		Network: &report,
	}, nil
}

// PlannedReset stands in for the network reset during a dry run.
type PlannedReset struct {
	Operations []string
}

// Run implements domain.Action.
func (p *PlannedReset) Run(context.Context) (domain.Outcome, error) {
	return domain.Outcome{
		Message: fmt.Sprintf("dry run: would run %d reset operation(s) and restart every adapter", len(p.Operations)),
	}, nil
}
