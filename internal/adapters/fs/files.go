package fs

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Files = (*Files)(nil)

// Files implements ports.Files on the local file system.
type Files struct {
	walker *Walker
}

// NewFiles creates a new Files adapter.
func NewFiles(walker *Walker) *Files {
	return &Files{walker: walker}
}

// Scan returns the files under roots that match patterns and were last
// modified before olderThan. A zero olderThan matches every file.
func (f *Files) Scan(roots, patterns []string, olderThan time.Time) ([]domain.FileEntry, error) {
	var entries []domain.FileEntry
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to scan directory"), "root", root)
		}

		for path, d := range f.walker.WalkFiles(root) {
			if !matchAny(d.Name(), patterns) {
				continue
			}
			info, err := d.Info()
			if err != nil {
				continue
			}
			if !olderThan.IsZero() && !info.ModTime().Before(olderThan) {
				continue
			}
			entries = append(entries, domain.FileEntry{
				Path:    path,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}
	return entries, nil
}

// Remove deletes entries, collecting the paths that could not be removed.
func (f *Files) Remove(entries []domain.FileEntry) domain.SweepReport {
	var report domain.SweepReport
	for _, e := range entries {
		if err := os.Remove(e.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			report.Failed = append(report.Failed, e.Path)
			continue
		}
		report.Removed++
		report.Bytes += e.Size
	}
	return report
}

// Digest computes the XXHash of a file's content.
func (f *Files) Digest(path string) (uint64, error) {
	file, err := os.Open(path) //nolint:gosec // path is produced by Scan
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	defer file.Close() //nolint:errcheck // read-only

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return hasher.Sum64(), nil
}

// Released reports whether path can be opened for writing. A file that does
// not exist yet is not released; any other open error means another process
// still holds it.
func (f *Files) Released(path string) (bool, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0) //nolint:gosec // path is chosen by the caller
	if err != nil {
		return false, err
	}
	return true, file.Close()
}
