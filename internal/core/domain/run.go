package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceRun aggregates the results of one orchestrator run.
// Results are only ever appended, in execution order.
type MaintenanceRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	results    []TaskResult
}

// NewMaintenanceRun starts a new run aggregate.
func NewMaintenanceRun(startedAt time.Time) *MaintenanceRun {
	return &MaintenanceRun{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
	}
}

// Append records a task result at the end of the run.
func (r *MaintenanceRun) Append(result TaskResult) {
	r.results = append(r.results, result)
}

// Results returns a copy of the recorded results.
func (r *MaintenanceRun) Results() []TaskResult {
	out := make([]TaskResult, len(r.results))
	copy(out, r.results)
	return out
}

// Finish marks the run as complete.
func (r *MaintenanceRun) Finish(finishedAt time.Time) {
	r.FinishedAt = finishedAt
}

// Duration returns FinishedAt - StartedAt, or zero while the run is still open.
func (r *MaintenanceRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summarize builds the structured summary of the run.
func (r *MaintenanceRun) Summarize() Summary {
	s := Summary{
		RunID:      r.ID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Duration:   r.Duration(),
		Total:      len(r.results),
		Counts:     make(map[Status]int, len(Statuses)),
		Tasks:      r.Results(),
	}
	for _, status := range Statuses {
		s.Counts[status] = 0
	}
	for _, res := range r.results {
		s.Counts[res.Status]++
		if res.Network != nil && s.NetworkChanges == nil {
			s.NetworkChanges = res.Network.Changes
		}
	}
	return s
}

// Summary is the structured, serializable record of a finished run.
type Summary struct {
	RunID          string          `json:"runId"`
	StartedAt      time.Time       `json:"startedAt"`
	FinishedAt     time.Time       `json:"finishedAt"`
	Duration       time.Duration   `json:"duration"`
	Total          int             `json:"total"`
	Counts         map[Status]int  `json:"counts"`
	Tasks          []TaskResult    `json:"tasks"`
	NetworkChanges []AdapterChange `json:"networkChanges,omitempty"`
}

// Failed reports whether any task ended in Failure.
func (s Summary) Failed() bool {
	return s.Counts[StatusFailure] > 0
}
