package ports

import (
	"context"

	"go.trai.ch/tend/internal/core/domain"
)

// TaskRunner executes one task and contains its failure.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type TaskRunner interface {
	// Run always returns a result; task errors never escape.
	Run(ctx context.Context, task domain.Task) domain.TaskResult
}
