package tasks

import (
	"context"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
)

// exitRebootRequired is ERROR_SUCCESS_REBOOT_REQUIRED.
const exitRebootRequired = 3010

// ImageServicing runs a DISM servicing command. Exit code 3010 means the
// operation succeeded and a restart is pending.
type ImageServicing struct {
	Executor ports.CommandExecutor
	Cmd      domain.Command
	Done     string
}

// Run implements domain.Action.
func (s *ImageServicing) Run(ctx context.Context) (domain.Outcome, error) {
	res, err := execute(ctx, s.Executor, s.Cmd)
	if err != nil {
		return domain.Outcome{}, err
	}
	switch res.ExitCode {
	case 0:
		return domain.Outcome{Message: s.Done}, nil
	case exitRebootRequired:
		return domain.Outcome{Message: s.Done + ", restart required"}, nil
	default:
		return domain.Outcome{}, exitError(s.Cmd, res)
	}
}
