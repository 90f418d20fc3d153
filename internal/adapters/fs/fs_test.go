package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/internal/adapters/fs"
	"go.trai.ch/tend/internal/core/domain"
)

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	writeFile(t, filepath.Join(root, "a.log"), "a", now)
	writeFile(t, filepath.Join(root, "sub", "b.log"), "b", now)

	var got []string
	for path := range fs.NewWalker().WalkFiles(root) {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
	}
	assert.ElementsMatch(t, []string{"a.log", "sub/b.log"}, got)
}

func TestWalker_StopsEarly(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	for _, name := range []string{"1", "2", "3"} {
		writeFile(t, filepath.Join(root, name), name, now)
	}

	count := 0
	for range fs.NewWalker().WalkFiles(root) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestFiles_Scan(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	old := now.Add(-10 * 24 * time.Hour)

	writeFile(t, filepath.Join(root, "old.log"), "old", old)
	writeFile(t, filepath.Join(root, "new.log"), "new", now)
	writeFile(t, filepath.Join(root, "old.txt"), "txt", old)
	writeFile(t, filepath.Join(root, "nested", "old.cab"), "cab", old)

	files := fs.NewFiles(fs.NewWalker())
	entries, err := files.Scan(
		[]string{root, filepath.Join(root, "missing")},
		[]string{"*.log", "*.cab"},
		now.Add(-7*24*time.Hour),
	)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, filepath.Base(e.Path))
	}
	assert.ElementsMatch(t, []string{"old.log", "old.cab"}, names)
}

func TestFiles_Scan_ZeroCutoff(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x.dmp"), "x", time.Now())

	entries, err := fs.NewFiles(fs.NewWalker()).Scan([]string{root}, []string{"*.dmp"}, time.Time{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Size)
}

func TestFiles_Remove(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	a := filepath.Join(root, "a")
	writeFile(t, a, "12345", now)

	report := fs.NewFiles(fs.NewWalker()).Remove([]domain.FileEntry{
		{Path: a, Size: 5},
		{Path: filepath.Join(root, "gone"), Size: 7},
	})

	assert.Equal(t, 2, report.Removed)
	assert.Equal(t, int64(12), report.Bytes)
	assert.Empty(t, report.Failed)
	assert.NoFileExists(t, a)
}

func TestFiles_Remove_Failure(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "dir")
	writeFile(t, filepath.Join(dir, "child"), "c", time.Now())

	// A non-empty directory cannot be removed with os.Remove.
	report := fs.NewFiles(fs.NewWalker()).Remove([]domain.FileEntry{{Path: dir}})

	assert.Equal(t, 0, report.Removed)
	assert.Equal(t, []string{dir}, report.Failed)
}

func TestFiles_Digest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "dump.dmp")
	writeFile(t, path, "crash", time.Now())

	files := fs.NewFiles(fs.NewWalker())
	sum, err := files.Digest(path)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("crash"), sum)

	_, err = files.Digest(filepath.Join(root, "missing"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFileHashFailed.Error())
}

func TestFiles_Released(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.reg")
	files := fs.NewFiles(fs.NewWalker())

	ok, err := files.Released(path)
	require.Error(t, err)
	assert.False(t, ok)

	writeFile(t, path, "Windows Registry Editor Version 5.00", time.Now())
	ok, err = files.Released(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFiles_Archive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "export.reg")
	dst := filepath.Join(dir, "backups", "registry-20260301T020000Z.reg.zst")
	content := strings.Repeat("[HKEY_LOCAL_MACHINE\\SOFTWARE\\Vendor]\n\"Key\"=\"Value\"\n", 200)
	writeFile(t, src, content, time.Now())

	size, err := fs.NewFiles(fs.NewWalker()).Archive(src, dst)
	require.NoError(t, err)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), size)
	assert.Less(t, size, int64(len(content)))

	compressed, err := os.ReadFile(dst)
	require.NoError(t, err)
	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	plain, err := dec.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, content, string(plain))
}

func TestFiles_ArchiveMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.zst")

	_, err := fs.NewFiles(fs.NewWalker()).Archive(filepath.Join(dir, "missing.reg"), dst)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrArchiveFailed.Error())
	assert.NoFileExists(t, dst)
}
