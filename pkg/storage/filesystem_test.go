package storage

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStoreSaveAndOpen(t *testing.T) {
	store, err := NewReportStore(t.TempDir())
	require.NoError(t, err)

	clean, err := store.Save("2026/09/attendance-job-1.csv", []byte("Date,Group\n"))
	require.NoError(t, err)
	assert.Equal(t, "2026/09/attendance-job-1.csv", clean)

	file, err := store.Open(clean)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "Date,Group\n", string(data))
}

func TestReportStoreRejectsEscapingPaths(t *testing.T) {
	store, err := NewReportStore(t.TempDir())
	require.NoError(t, err)

	for _, relPath := range []string{"", "/etc/passwd", "..", "../outside.csv", "2026/../../outside.csv"} {
		_, err := store.Save(relPath, []byte("x"))
		assert.Error(t, err, "path %q should be rejected", relPath)
	}
}

func TestReportStoreDeleteMissingFile(t *testing.T) {
	store, err := NewReportStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("2026/09/never-written.csv"))
}

func TestReportStoreCleanupOlderThan(t *testing.T) {
	store, err := NewReportStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("2026/09/attendance-job-1.csv", []byte("Date,Group\n"))
	require.NoError(t, err)

	deleted, err := store.CleanupOlderThan(-time.Hour)
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	_, err = store.Open("2026/09/attendance-job-1.csv")
	assert.Error(t, err)
}
