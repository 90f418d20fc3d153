package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// Status is the final state of one task execution.
type Status uint8

const (
	// StatusSuccess indicates the task completed on its first attempt.
	StatusSuccess Status = iota
	// StatusRecoveredAfterRetry indicates the task succeeded after a recovery action and one retry.
	StatusRecoveredAfterRetry
	// StatusFailure indicates the task failed and its failure was contained.
	StatusFailure
	// StatusSkipped indicates the task's remaining sub-steps were not executed.
	StatusSkipped
)

// Statuses lists every status in reporting order.
var Statuses = []Status{StatusSuccess, StatusRecoveredAfterRetry, StatusFailure, StatusSkipped}

var statusNames = map[Status]string{
	StatusSuccess:             "Success",
	StatusRecoveredAfterRetry: "RecoveredAfterRetry",
	StatusFailure:             "Failure",
	StatusSkipped:             "Skipped",
}

// String returns the status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return zerr.With(zerr.New("unknown task status"), "status", string(text))
}

// TaskResult records the outcome of exactly one task execution.
type TaskResult struct {
	Task       string         `json:"task"`
	Status     Status         `json:"status"`
	Message    string         `json:"message"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Network    *NetworkReport `json:"network,omitempty"`
}

// Duration returns how long the task ran.
func (r TaskResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
