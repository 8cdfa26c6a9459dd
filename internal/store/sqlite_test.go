package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandenburg-angeln/spot-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndCompleteRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, 120)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.Equal(t, 120, run.Total)

	require.NoError(t, st.CompleteRun(ctx, run.ID, 117, 3, "data.json"))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, 117, runs[0].Succeeded)
	assert.Equal(t, 3, runs[0].Failed)
	assert.Equal(t, "data.json", runs[0].Snapshot)
	require.NotNil(t, runs[0].FinishedAt)
}

func TestSQLite_FailRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, 5)
	require.NoError(t, err)
	require.NoError(t, st.FailRun(ctx, run.ID, "write snapshot: disk full"))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "disk full")
	assert.Empty(t, runs[0].Snapshot)
}

func TestSQLite_UpdateUnknownRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	err := st.CompleteRun(ctx, "no-such-run", 1, 0, "data.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = st.FailRun(ctx, "no-such-run", "boom")
	require.Error(t, err)
}

func TestSQLite_ListRunsNewestFirstWithLimit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.CreateRun(ctx, i)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestNew_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
