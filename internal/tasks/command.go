package tasks

import (
	"context"
	"errors"
	"strconv"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

// execute runs cmd and attaches the command line to any start error.
func execute(ctx context.Context, executor ports.CommandExecutor, cmd domain.Command) (domain.CommandResult, error) {
	res, err := executor.Execute(ctx, cmd)
	if err != nil {
		return res, zerr.With(err, "command", cmd.String())
	}
	return res, nil
}

// exitError describes an unexpected exit code with the tail of the output.
func exitError(cmd domain.Command, res domain.CommandResult) error {
	detail := "exit code " + strconv.Itoa(res.ExitCode)
	if tail := res.Tail(2); tail != "" {
		detail += ": " + tail
	}
	err := zerr.Wrap(errors.New(detail), domain.ErrCommandFailed.Error())
	return zerr.With(err, "command", cmd.String())
}

// Command runs an external command that signals success with exit code 0.
type Command struct {
	Executor ports.CommandExecutor
	Cmd      domain.Command
	// Done is the outcome message on success.
	Done string
}

// Run implements domain.Action.
func (c *Command) Run(ctx context.Context) (domain.Outcome, error) {
	res, err := execute(ctx, c.Executor, c.Cmd)
	if err != nil {
		return domain.Outcome{}, err
	}
	if res.ExitCode != 0 {
		return domain.Outcome{}, exitError(c.Cmd, res)
	}
	return domain.Outcome{Message: c.Done}, nil
}
