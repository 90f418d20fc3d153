// Package store persists run summaries as one JSON file per run.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

// fileTimeLayout prefixes file names so that lexical order is start order.
const fileTimeLayout = "20060102T150405.000000000Z"

var _ ports.RunStore = (*Store)(nil)

// Store implements ports.RunStore in a directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on first Put.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Put writes the summary to <start>-<run id>.json.
func (s *Store) Put(summary domain.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "dir", s.dir)
	}

	name := summary.StartedAt.UTC().Format(fileTimeLayout) + "-" + summary.RunID + ".json"
	//nolint:gosec // path is built from the store directory and a generated run ID
	if err := os.WriteFile(filepath.Join(s.dir, name), data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// Get retrieves the summary of a run.
func (s *Store) Get(runID string) (*domain.Summary, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, zerr.With(domain.ErrRunNotFound, "run_id", runID)
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, "*-"+runID+".json"))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	if len(matches) == 0 {
		return nil, zerr.With(domain.ErrRunNotFound, "run_id", runID)
	}
	return readSummary(matches[0])
}

// Latest returns the most recently started run, or nil when the store is empty.
func (s *Store) Latest() (*domain.Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	slices.Sort(names)
	return readSummary(filepath.Join(s.dir, names[len(names)-1]))
}

func readSummary(path string) (*domain.Summary, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the store directory
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var summary domain.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", path)
	}
	return &summary, nil
}
