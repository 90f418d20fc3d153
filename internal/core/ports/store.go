package ports

import "go.trai.ch/tend/internal/core/domain"

// RunStore persists run summaries.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RunStore interface {
	// Put stores the summary under its run ID.
	Put(summary domain.Summary) error

	// Get retrieves the summary for a run ID.
	Get(runID string) (*domain.Summary, error)

	// Latest returns the most recently finished run, or nil, nil if none is stored.
	Latest() (*domain.Summary, error)
}
