// Package main is the entry point for the tend maintenance tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/tend/cmd/tend/commands"
	"go.trai.ch/tend/internal/app"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	_ "go.trai.ch/tend/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	a, results, err := graft.ExecuteFor[*app.App](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	log, err := graft.Result[ports.Logger](results)
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	// Apply options
	for _, opt := range opts {
		opt(a)
	}

	// 2. Interface - CLI
	cli := commands.New(a)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		// The summary already lists the failed tasks.
		if errors.Is(err, domain.ErrRunFailed) {
			return 1
		}
		log.Error(err)
		return 1
	}
	return 0
}
