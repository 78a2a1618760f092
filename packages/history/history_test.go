package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(id string, started time.Time) *runner.RunResult {
	return &runner.RunResult{
		ID:        id,
		StartedAt: started,
		Duration:  20 * time.Millisecond,
		Results: []runner.CaseResult{
			{Suite: "Arith", Case: "add", Outcome: suite.Pass(), Duration: 2 * time.Millisecond},
			{Suite: "Arith", Case: "sub", Outcome: suite.Fail("expected 2 got 3"), Duration: 3 * time.Millisecond},
			{Suite: "Arith", Case: "teardown", Outcome: suite.Errored(errors.New("leak")), Synthetic: true},
		},
		FailedSetups: []runner.SuiteFailure{{Suite: "DB", Message: "no database"}},
	}
}

func TestOpen_DSNWithParameters(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "history.db") + "?cache=shared&_busy_timeout=1000"
	store, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	var fk int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	require.NoError(t, store.Save(ctx, sampleRun("run-dsn", time.Now())))
	cases, err := store.Cases(ctx, "run-dsn")
	require.NoError(t, err)
	assert.Len(t, cases, 4)
}

func TestSaveAndCases(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRun("run-1", time.Now())))

	cases, err := store.Cases(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, cases, 4)

	assert.Equal(t, "Arith.add", cases[0].FullName())
	assert.Equal(t, "PASS", cases[0].Outcome)
	assert.Equal(t, 2*time.Millisecond, cases[0].Duration)

	assert.Equal(t, "FAIL", cases[1].Outcome)
	assert.Equal(t, "expected 2 got 3", cases[1].Message)

	assert.True(t, cases[2].Synthetic)
	assert.Equal(t, "DB.setup", cases[3].FullName())
	assert.Equal(t, "ERROR", cases[3].Outcome)
}

func TestRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	r := runs[0]
	assert.Equal(t, base.Add(2*time.Hour), r.StartedAt)
	assert.Equal(t, 20*time.Millisecond, r.Duration)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Errored)
	assert.Equal(t, 1, r.SetupFailures)
	assert.False(t, r.Success)

	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSave_DuplicateRunID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRun("dup", time.Now())))
	assert.Error(t, store.Save(ctx, sampleRun("dup", time.Now())))

	cases, err := store.Cases(ctx, "dup")
	require.NoError(t, err)
	assert.Len(t, cases, 4, "failed save must not add rows")
}

func TestSave_Nil(t *testing.T) {
	assert.Error(t, openStore(t).Save(context.Background(), nil))
}

func TestCases_UnknownRun(t *testing.T) {
	_, err := openStore(t).Cases(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestCases_EmptyRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &runner.RunResult{ID: "empty", StartedAt: time.Now()}))
	cases, err := store.Cases(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, cases)

	runs, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Success)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "history.db"))
	assert.Error(t, err)
}
