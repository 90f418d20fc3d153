package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

// UpdateInstall installs pending OS updates. Whether the installer may reboot
// the host is always passed explicitly.
type UpdateInstall struct {
	Executor   ports.CommandExecutor
	Cmd        domain.Command
	AutoReboot bool
}

// Command returns the command line with the reboot switch applied to the
// last argument.
func (u *UpdateInstall) Command() domain.Command {
	flag := "-IgnoreReboot"
	if u.AutoReboot {
		flag = "-AutoReboot"
	}

	cmd := u.Cmd
	cmd.Args = append([]string(nil), u.Cmd.Args...)
	if n := len(cmd.Args); n > 0 {
		cmd.Args[n-1] += " " + flag
	} else {
		cmd.Args = []string{flag}
	}
	return cmd
}

// Run implements domain.Action.
func (u *UpdateInstall) Run(ctx context.Context) (domain.Outcome, error) {
	cmd := u.Command()
	res, err := execute(ctx, u.Executor, cmd)
	if err != nil {
		return domain.Outcome{}, err
	}
	if res.ExitCode != 0 {
		return domain.Outcome{}, exitError(cmd, res)
	}

	installed, failed := countUpdates(res.Output)
	if failed > 0 {
		err := zerr.Wrap(fmt.Errorf("%d update(s) failed to install", failed), domain.ErrTaskFailed.Error())
		return domain.Outcome{}, zerr.With(err, "installed", installed)
	}
	if installed == 0 {
		return domain.Outcome{Message: "no updates installed"}, nil
	}
	return domain.Outcome{Message: fmt.Sprintf("%d update(s) installed", installed)}, nil
}

// countUpdates reads the Result column of the installer's table output.
func countUpdates(output string) (installed, failed int) {
	for line := range strings.Lines(output) {
		fields := strings.Fields(line)
		switch {
		case slices.Contains(fields, "Failed"):
			failed++
		case slices.Contains(fields, "Installed"):
			installed++
		}
	}
	return installed, failed
}
