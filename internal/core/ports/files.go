package ports

import (
	"time"

	"go.trai.ch/tend/internal/core/domain"
)

// Files finds, fingerprints and removes files for the cleanup tasks.
//
//go:generate go run go.uber.org/mock/mockgen -source=files.go -destination=mocks/mock_files.go -package=mocks
type Files interface {
	// Scan returns the regular files under roots whose base name matches one of
	// patterns and whose modification time is before olderThan.
	// Missing roots are ignored.
	Scan(roots, patterns []string, olderThan time.Time) ([]domain.FileEntry, error)

	// Remove deletes the given files, continuing past individual failures.
	Remove(entries []domain.FileEntry) domain.SweepReport

	// Digest returns a content fingerprint of the file.
	Digest(path string) (uint64, error)

	// Released reports whether path exists and no other process holds it open
	// for writing.
	Released(path string) (bool, error)

	// Archive writes a compressed copy of src to dst and returns its size.
	Archive(src, dst string) (int64, error)
}
