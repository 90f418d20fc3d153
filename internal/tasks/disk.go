package tasks

import (
	"context"
	"fmt"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
)

// chkdsk exit codes.
const (
	chkdskClean   = 0
	chkdskFixed   = 1
	chkdskCleanup = 2
)

// DiskCheck runs the volume checker and maps its exit code.
type DiskCheck struct {
	Executor ports.CommandExecutor
	Cmd      domain.Command
}

// Run implements domain.Action.
func (d *DiskCheck) Run(ctx context.Context) (domain.Outcome, error) {
	res, err := execute(ctx, d.Executor, d.Cmd)
	if err != nil {
		return domain.Outcome{}, err
	}
	switch res.ExitCode {
	case chkdskClean:
		return domain.Outcome{Message: "no errors found"}, nil
	case chkdskFixed:
		return domain.Outcome{Message: "errors found and fixed"}, nil
	case chkdskCleanup:
		return domain.Outcome{Message: "disk cleanup performed"}, nil
	default:
		return domain.Outcome{}, exitError(d.Cmd, res)
	}
}

// DiskCleanup runs the disk cleanup utility and reports how much space it
// reclaimed on Volume.
type DiskCleanup struct {
	Executor ports.CommandExecutor
	Volumes  ports.Volumes
	Journal  ports.Journal
	Cmd      domain.Command
	Volume   string
}

// Run implements domain.Action.
func (d *DiskCleanup) Run(ctx context.Context) (domain.Outcome, error) {
	before, beforeErr := d.Volumes.Free(ctx, d.Volume)
	if beforeErr != nil {
		d.Journal.Record(domain.LevelWarning, fmt.Sprintf("cannot read free space on %s: %v", d.Volume, beforeErr))
	}

	res, err := execute(ctx, d.Executor, d.Cmd)
	if err != nil {
		return domain.Outcome{}, err
	}
	if res.ExitCode != 0 {
		return domain.Outcome{}, exitError(d.Cmd, res)
	}

	if beforeErr != nil {
		return domain.Outcome{Message: "cleanup completed"}, nil
	}
	after, err := d.Volumes.Free(ctx, d.Volume)
	if err != nil {
		d.Journal.Record(domain.LevelWarning, fmt.Sprintf("cannot read free space on %s: %v", d.Volume, err))
		return domain.Outcome{Message: "cleanup completed"}, nil
	}

	var freed uint64
	if after > before {
		freed = after - before
	}
	return domain.Outcome{Message: fmt.Sprintf("freed %s, %s available", formatBytes(freed), formatBytes(after))}, nil
}

// formatBytes renders n with a binary unit.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
