// Package orchestrator drives the ordered maintenance run.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

// Config is everything a run needs. Nothing is read from package state.
type Config struct {
	// Tasks in execution order.
	Tasks   []domain.Task
	Runner  ports.TaskRunner
	Journal ports.Journal
	// Tracer receives the plan before the first task starts. Optional.
	Tracer ports.Tracer
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Orchestrator runs a fixed task list strictly in order.
type Orchestrator struct {
	tasks   []domain.Task
	runner  ports.TaskRunner
	journal ports.Journal
	tracer  ports.Tracer
	now     func() time.Time
}

// New validates cfg and creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	seen := make(map[string]struct{}, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		if err := t.Validate(); err != nil {
			return nil, zerr.With(err, "task", t.Name)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, zerr.With(domain.ErrDuplicateTask, "task", t.Name)
		}
		seen[t.Name] = struct{}{}
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	tasks := make([]domain.Task, len(cfg.Tasks))
	copy(tasks, cfg.Tasks)

	return &Orchestrator{
		tasks:   tasks,
		runner:  cfg.Runner,
		journal: cfg.Journal,
		tracer:  cfg.Tracer,
		now:     now,
	}, nil
}

// TaskNames returns the registered task names in execution order.
func (o *Orchestrator) TaskNames() []string {
	names := make([]string, len(o.tasks))
	for i, t := range o.tasks {
		names[i] = t.Name
	}
	return names
}

// Run executes every task once and returns the finished run. It always
// yields one result per task: once ctx is done, the tasks that did not start
// are recorded as Skipped.
func (o *Orchestrator) Run(ctx context.Context) *domain.MaintenanceRun {
	run := domain.NewMaintenanceRun(o.now())
	o.journal.Record(domain.LevelInfo, fmt.Sprintf("maintenance run %s started with %d task(s)", run.ID, len(o.tasks)))
	if o.tracer != nil {
		o.tracer.EmitPlan(ctx, o.TaskNames())
	}

	for _, task := range o.tasks {
		if err := ctx.Err(); err != nil {
			now := o.now()
			o.journal.Record(domain.LevelWarning, task.Name+" not started: "+domain.ErrRunInterrupted.Error())
			run.Append(domain.TaskResult{
				Task:       task.Name,
				Status:     domain.StatusSkipped,
				Message:    domain.ErrRunInterrupted.Error(),
				StartedAt:  now,
				FinishedAt: now,
			})
			continue
		}
		run.Append(o.runner.Run(ctx, task))
	}

	run.Finish(o.now())
	o.journalSummary(run.Summarize())
	return run
}

func (o *Orchestrator) journalSummary(s domain.Summary) {
	counts := make([]string, 0, len(domain.Statuses))
	for _, status := range domain.Statuses {
		counts = append(counts, fmt.Sprintf("%s=%d", status, s.Counts[status]))
	}
	o.journal.Record(domain.LevelSummary, fmt.Sprintf(
		"run %s finished in %s: %d task(s), %s",
		s.RunID, s.Duration.Round(time.Second), s.Total, strings.Join(counts, " "),
	))

	for _, r := range s.Tasks {
		line := fmt.Sprintf("%s: %s", r.Task, r.Status)
		if r.Message != "" {
			line += " (" + r.Message + ")"
		}
		o.journal.Record(domain.LevelSummary, line)
	}

	for _, c := range s.NetworkChanges {
		if c.Changed {
			o.journal.Record(domain.LevelSummary, fmt.Sprintf("network %s: %s -> %s", c.Name, c.Before.Status, c.After.Status))
		}
	}
}
