package ports

import (
	"context"

	"go.trai.ch/tend/internal/core/domain"
)

// NetworkAdapters enumerates, restarts and resets the host's network adapters.
//
//go:generate go run go.uber.org/mock/mockgen -source=network.go -destination=mocks/mock_network.go -package=mocks
type NetworkAdapters interface {
	// List returns a snapshot of every adapter.
	List(ctx context.Context) ([]domain.AdapterState, error)

	// Restart restarts a single adapter by name.
	Restart(ctx context.Context, name string) error

	// ResetOperations returns the stack-level reset operations in execution order.
	ResetOperations() []string

	// Reset runs one stack-level reset operation.
	Reset(ctx context.Context, operation string) error
}
