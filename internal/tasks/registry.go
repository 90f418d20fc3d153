package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/tend/internal/engine/readiness"
	"go.trai.ch/zerr"
)

// Registry backup gate steps.
const (
	StepExport  = "export"
	StepRelease = "release"
	StepArchive = "archive"
)

const (
	backupPrefix = "registry-"
	backupSuffix = ".reg.zst"
	stampLayout  = "20060102T150405Z"
)

// RegistryBackup exports a registry hive to a temporary file, archives it and
// deletes the temporary file. Export, release of the file by the exporting
// process and archiving each gate the steps after them.
type RegistryBackup struct {
	Executor ports.CommandExecutor
	Files    ports.Files
	Journal  ports.Journal
	Cmd      domain.Command
	Config   domain.RegistryConfig
	DryRun   bool
	Now      func() time.Time
}

// Run implements domain.Action.
func (r *RegistryBackup) Run(ctx context.Context) (domain.Outcome, error) {
	stamp := r.Now().UTC().Format(stampLayout)
	tmp := filepath.Join(r.Config.TempDir, "tend-"+backupPrefix+stamp+".reg")

	cmd := r.Cmd
	cmd.Args = append(append([]string(nil), r.Cmd.Args...), r.Config.Key, tmp, "/y")
	res, err := execute(ctx, r.Executor, cmd)
	if err != nil {
		return domain.Outcome{}, domain.NewPrerequisiteError(StepExport, err)
	}
	if res.ExitCode != 0 {
		return domain.Outcome{}, domain.NewPrerequisiteError(StepExport, exitError(cmd, res))
	}

	if r.DryRun {
		return domain.Outcome{Message: fmt.Sprintf("dry run: would archive %s to %s", r.Config.Key, r.Config.BackupDir)}, nil
	}

	err = readiness.Poll(ctx, r.Config.PollInterval, r.Config.ReleaseTimeout, func(context.Context) (bool, error) {
		return r.Files.Released(tmp)
	})
	if err != nil {
		return domain.Outcome{}, domain.NewPrerequisiteError(StepRelease, err)
	}

	archive := filepath.Join(r.Config.BackupDir, backupPrefix+stamp+backupSuffix)
	size, err := r.Files.Archive(tmp, archive)
	if err != nil {
		return domain.Outcome{}, domain.NewPrerequisiteError(StepArchive, err)
	}
	r.Journal.Record(domain.LevelInfo, fmt.Sprintf("registry %s archived to %s", r.Config.Key, archive))

	if removed := r.Files.Remove([]domain.FileEntry{{Path: tmp}}); len(removed.Failed) > 0 {
		err := zerr.Wrap(errors.New("temporary export could not be deleted"), domain.ErrFileRemoveFailed.Error())
		return domain.Outcome{}, zerr.With(err, "path", tmp)
	}

	pruned := r.rotate()
	msg := fmt.Sprintf("exported %s (%s compressed)", r.Config.Key, formatBytes(uint64(size))) //nolint:gosec // non-negative
	if pruned > 0 {
		msg += fmt.Sprintf(", pruned %d older backup(s)", pruned)
	}
	return domain.Outcome{Message: msg}, nil
}

// rotate keeps the newest Config.Keep archives. Backup names sort
// chronologically.
func (r *RegistryBackup) rotate() int {
	entries, err := r.Files.Scan([]string{r.Config.BackupDir}, []string{backupPrefix + "*" + backupSuffix}, time.Time{})
	if err != nil {
		r.Journal.Record(domain.LevelWarning, fmt.Sprintf("cannot list registry backups: %v", err))
		return 0
	}
	if len(entries) <= r.Config.Keep {
		return 0
	}

	slices.SortFunc(entries, func(a, b domain.FileEntry) int {
		return strings.Compare(filepath.Base(a.Path), filepath.Base(b.Path))
	})
	report := r.Files.Remove(entries[:len(entries)-r.Config.Keep])
	warnInUse(r.Journal, report)
	return report.Removed
}
