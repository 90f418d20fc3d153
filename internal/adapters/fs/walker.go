// Package fs provides file system adapters for the cleanup tasks.
package fs

import (
	iofs "io/fs"
	"iter"
	"path/filepath"
)

// Walker walks directory trees.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root. Directories that cannot be
// read are skipped; system temp trees routinely contain a few.
func (w *Walker) WalkFiles(root string) iter.Seq2[string, iofs.DirEntry] {
	return func(yield func(string, iofs.DirEntry) bool) {
		_ = filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !yield(path, d) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// matchAny reports whether name matches one of the glob patterns.
func matchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
