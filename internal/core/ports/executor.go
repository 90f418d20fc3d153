// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/tend/internal/core/domain"
)

// CommandExecutor runs external OS-level operations.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type CommandExecutor interface {
	// Execute runs the command and blocks until it exits.
	//
	// A non-zero exit code is not an error: the caller maps exit semantics.
	// An error is returned only when the command could not be started or was
	// interrupted by ctx.
	Execute(ctx context.Context, cmd domain.Command) (domain.CommandResult, error)
}

// DryRunner is implemented by executors that can describe commands instead of
// running them.
type DryRunner interface {
	DryRun() CommandExecutor
}

type outputKey struct{}

// WithOutput returns a context that streams command output to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// OutputFrom returns the writer attached with WithOutput, or io.Discard.
func OutputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}
	return io.Discard
}
