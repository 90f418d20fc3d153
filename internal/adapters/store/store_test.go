package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/internal/adapters/store"
	"go.trai.ch/tend/internal/core/domain"
)

func summaryAt(start time.Time) domain.Summary {
	run := domain.NewMaintenanceRun(start)
	run.Append(domain.TaskResult{
		Task:       "disk-check",
		Status:     domain.StatusSuccess,
		Message:    "no problems found",
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
	})
	run.Append(domain.TaskResult{
		Task:       "network-reset",
		Status:     domain.StatusFailure,
		Message:    "no network adapters could be enumerated",
		StartedAt:  start.Add(time.Minute),
		FinishedAt: start.Add(2 * time.Minute),
		Network: &domain.NetworkReport{Changes: []domain.AdapterChange{{
			Name:    "Ethernet",
			Before:  domain.AdapterState{Name: "Ethernet", Status: domain.AdapterUp, LinkSpeed: 1e9},
			After:   domain.AdapterState{Name: "Ethernet", Status: domain.AdapterDown},
			Changed: true,
		}}},
	})
	run.Finish(start.Add(2 * time.Minute))
	return run.Summarize()
}

func TestStore_PutGet(t *testing.T) {
	s := store.NewStore(filepath.Join(t.TempDir(), "runs"))
	want := summaryAt(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	require.NoError(t, s.Put(want))

	got, err := s.Get(want.RunID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStore_GetMissing(t *testing.T) {
	s := store.NewStore(t.TempDir())

	_, err := s.Get(uuid.NewString())
	require.ErrorContains(t, err, domain.ErrRunNotFound.Error())

	_, err = s.Get("../../etc/passwd")
	require.ErrorContains(t, err, domain.ErrRunNotFound.Error())
}

func TestStore_Latest(t *testing.T) {
	dir := t.TempDir()
	s := store.NewStore(dir)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	newer := summaryAt(base.Add(time.Hour))
	require.NoError(t, s.Put(newer))
	require.NoError(t, s.Put(summaryAt(base)))

	latest, err = s.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.RunID, latest.RunID)
}

func TestStore_LatestMissingDir(t *testing.T) {
	s := store.NewStore(filepath.Join(t.TempDir(), "never-created"))
	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	s := store.NewStore(dir)
	sum := summaryAt(time.Now().UTC())
	require.NoError(t, s.Put(sum))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{"), domain.FilePerm))

	_, err = s.Get(sum.RunID)
	require.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}
