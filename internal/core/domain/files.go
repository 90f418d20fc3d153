package domain

import "time"

// FileEntry is a file found by a sweep.
type FileEntry struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// SweepReport summarizes a file removal pass.
type SweepReport struct {
	Removed int
	Bytes   int64
	// Failed holds the paths that could not be removed, typically because they are in use.
	Failed []string
}
