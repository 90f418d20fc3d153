// Package netdiff resets the network stack and reports how each adapter's
// state changed across the reset.
package netdiff

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/tend/internal/engine/readiness"
	"go.trai.ch/zerr"
)

// Config controls adapter stabilization after the reset.
type Config struct {
	// PollInterval between readiness queries. Zero disables polling and waits
	// the full Timeout instead.
	PollInterval time.Duration
	// Timeout bounds how long to wait for adapters to come back up.
	Timeout time.Duration
}

// Differ performs a network reset bracketed by two adapter snapshots.
type Differ struct {
	adapters ports.NetworkAdapters
	journal  ports.Journal
	cfg      Config
}

// New creates a Differ.
func New(adapters ports.NetworkAdapters, journal ports.Journal, cfg Config) *Differ {
	return &Differ{adapters: adapters, journal: journal, cfg: cfg}
}

// Reset snapshots the adapters, runs every stack reset operation, restarts
// each adapter, waits for them to stabilize and returns the before/after diff.
//
// Only an empty or failed initial enumeration is an error. Everything after
// that is best effort and reported through the journal.
func (d *Differ) Reset(ctx context.Context) (domain.NetworkReport, error) {
	before, err := d.adapters.List(ctx)
	if err != nil {
		return domain.NetworkReport{}, zerr.Wrap(err, domain.ErrNoAdapters.Error())
	}
	if len(before) == 0 {
		return domain.NetworkReport{}, domain.ErrNoAdapters
	}
	d.journal.Record(domain.LevelInfo, fmt.Sprintf("network reset: %d adapter(s) before reset", len(before)))

	for _, op := range d.adapters.ResetOperations() {
		if err := d.adapters.Reset(ctx, op); err != nil {
			d.journal.Record(domain.LevelWarning, fmt.Sprintf("network reset operation %s failed: %s", op, domain.Describe(err)))
		}
	}

	for _, a := range before {
		if err := d.adapters.Restart(ctx, a.Name); err != nil {
			d.journal.Record(domain.LevelError, fmt.Sprintf("failed to restart adapter %s: %s", a.Name, domain.Describe(err)))
		}
	}

	if err := d.stabilize(ctx, before); err != nil {
		if ctx.Err() != nil {
			return domain.NetworkReport{}, ctx.Err()
		}
		d.journal.Record(domain.LevelWarning, fmt.Sprintf("adapters did not stabilize: %v", err))
	}

	after, err := d.adapters.List(ctx)
	if err != nil {
		d.journal.Record(domain.LevelWarning, fmt.Sprintf("failed to list adapters after reset: %v", err))
		after = nil
	}

	report := Diff(before, after)
	for _, c := range report.Changes {
		if c.Changed {
			d.journal.Record(domain.LevelInfo, fmt.Sprintf("adapter %s: %s -> %s", c.Name, c.Before.Status, c.After.Status))
		}
	}
	return report, nil
}

// stabilize waits until every adapter that was up before the reset is up again.
func (d *Differ) stabilize(ctx context.Context, before []domain.AdapterState) error {
	var wantUp []string
	for _, a := range before {
		if a.Status == domain.AdapterUp {
			wantUp = append(wantUp, a.Name)
		}
	}
	if len(wantUp) == 0 {
		return nil
	}

	if d.cfg.PollInterval <= 0 {
		return readiness.Sleep(ctx, d.cfg.Timeout)
	}

	return readiness.Poll(ctx, d.cfg.PollInterval, d.cfg.Timeout, func(ctx context.Context) (bool, error) {
		states, err := d.adapters.List(ctx)
		if err != nil {
			return false, err
		}
		up := make(map[string]bool, len(states))
		for _, s := range states {
			up[s.Name] = s.Status == domain.AdapterUp
		}
		for _, name := range wantUp {
			if !up[name] {
				return false, nil
			}
		}
		return true, nil
	})
}

// Diff pairs every adapter in before with its state in after by name.
// Adapters missing from after are reported as Unknown.
func Diff(before, after []domain.AdapterState) domain.NetworkReport {
	byName := make(map[string]domain.AdapterState, len(after))
	for _, a := range after {
		byName[a.Name] = a
	}

	changes := make([]domain.AdapterChange, 0, len(before))
	for _, b := range before {
		a, ok := byName[b.Name]
		if !ok {
			a = domain.AdapterState{Name: b.Name, Status: domain.AdapterUnknown}
		}
		changes = append(changes, domain.AdapterChange{
			Name:    b.Name,
			Before:  b,
			After:   a,
			Changed: b.Status != a.Status,
		})
	}
	return domain.NetworkReport{Changes: changes}
}
