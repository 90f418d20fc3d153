package tasks

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
)

// Sweep removes files matching Config that are older than Config.MaxAge.
// Files that are in use are left in place with a warning.
type Sweep struct {
	Files   ports.Files
	Journal ports.Journal
	Config  domain.SweepConfig
	DryRun  bool
	Now     func() time.Time
}

// Run implements domain.Action.
func (s *Sweep) Run(context.Context) (domain.Outcome, error) {
	entries, err := s.Files.Scan(s.Config.Dirs, s.Config.Patterns, cutoff(s.Now, s.Config.MaxAge))
	if err != nil {
		return domain.Outcome{}, err
	}
	if s.DryRun {
		return domain.Outcome{Message: fmt.Sprintf("dry run: would remove %d file(s), %s", len(entries), formatBytes(totalSize(entries)))}, nil
	}

	report := s.Files.Remove(entries)
	warnInUse(s.Journal, report)
	return domain.Outcome{Message: fmt.Sprintf("removed %d file(s), freed %s", report.Removed, formatBytes(uint64(report.Bytes)))}, nil //nolint:gosec // sizes are non-negative
}

// CrashDumps analyzes crash dumps before removing them: how many there are,
// their total size and how many distinct crashes they represent.
type CrashDumps struct {
	Files   ports.Files
	Journal ports.Journal
	Config  domain.SweepConfig
	DryRun  bool
	Now     func() time.Time
}

// Run implements domain.Action.
func (c *CrashDumps) Run(context.Context) (domain.Outcome, error) {
	entries, err := c.Files.Scan(c.Config.Dirs, c.Config.Patterns, cutoff(c.Now, c.Config.MaxAge))
	if err != nil {
		return domain.Outcome{}, err
	}
	if len(entries) == 0 {
		return domain.Outcome{Message: "no crash dumps found"}, nil
	}

	unique := make(map[uint64]struct{}, len(entries))
	for _, e := range entries {
		sum, err := c.Files.Digest(e.Path)
		if err != nil {
			c.Journal.Record(domain.LevelWarning, fmt.Sprintf("cannot fingerprint crash dump %s: %v", e.Path, err))
			continue
		}
		unique[sum] = struct{}{}
	}
	analysis := fmt.Sprintf("%d crash dump(s), %d distinct, %s", len(entries), len(unique), formatBytes(totalSize(entries)))
	c.Journal.Record(domain.LevelInfo, "crash dump analysis: "+analysis)

	if c.DryRun {
		return domain.Outcome{Message: "dry run: would remove " + analysis}, nil
	}

	report := c.Files.Remove(entries)
	warnInUse(c.Journal, report)
	return domain.Outcome{Message: fmt.Sprintf("removed %d of %s", report.Removed, analysis)}, nil
}

func cutoff(now func() time.Time, maxAge time.Duration) time.Time {
	if maxAge <= 0 {
		return time.Time{}
	}
	return now().Add(-maxAge)
}

func totalSize(entries []domain.FileEntry) uint64 {
	var n uint64
	for _, e := range entries {
		n += uint64(e.Size) //nolint:gosec // sizes are non-negative
	}
	return n
}

func warnInUse(j ports.Journal, report domain.SweepReport) {
	if len(report.Failed) == 0 {
		return
	}
	j.Record(domain.LevelWarning, fmt.Sprintf("%d file(s) in use were left in place", len(report.Failed)))
}
