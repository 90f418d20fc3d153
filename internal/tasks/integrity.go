package tasks

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

// sfc verdicts, matched case-insensitively against whitespace-collapsed output.
const (
	sfcClean      = "did not find any integrity violations"
	sfcRepaired   = "found corrupt files and successfully repaired them"
	sfcUnrepaired = "found corrupt files but was unable to fix"
	sfcAborted    = "could not perform the requested operation"
)

// IntegrityScan runs the system file checker and maps its verdict.
type IntegrityScan struct {
	Executor ports.CommandExecutor
	Cmd      domain.Command
}

// Run implements domain.Action.
func (s *IntegrityScan) Run(ctx context.Context) (domain.Outcome, error) {
	res, err := execute(ctx, s.Executor, s.Cmd)
	if err != nil {
		return domain.Outcome{}, err
	}

	out := strings.ToLower(strings.Join(strings.Fields(res.Output), " "))
	switch {
	case strings.Contains(out, sfcUnrepaired):
		return domain.Outcome{}, zerr.Wrap(errors.New("corrupt files found that could not be repaired"), domain.ErrTaskFailed.Error())
	case strings.Contains(out, sfcAborted):
		return domain.Outcome{}, zerr.Wrap(errors.New("scan could not be performed"), domain.ErrTaskFailed.Error())
	case strings.Contains(out, sfcRepaired):
		return domain.Outcome{Message: "corrupt files found and repaired"}, nil
	case strings.Contains(out, sfcClean):
		return domain.Outcome{Message: "no integrity violations"}, nil
	case res.ExitCode != 0:
		return domain.Outcome{}, exitError(s.Cmd, res)
	default:
		return domain.Outcome{Message: "scan completed"}, nil
	}
}
