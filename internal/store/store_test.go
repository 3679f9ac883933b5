package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/isingsweep/internal/sweep"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig() sweep.Config {
	seed := int64(7)
	return sweep.Config{
		LatticeSize:  8,
		Temperatures: []float64{1.5, 2.5},
		Samples:      10,
		WarmupSteps:  5,
		SampleStride: 2,
		OutputPath:   "med_L_8",
		Seed:         &seed,
		Parallel:     1,
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.StartRun(context.Background(), "run-1", testConfig()))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}

func TestOpen_SetsSchemaVersion(t *testing.T) {
	s := openTestStore(t)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestStartRun_AssignsIncreasingSeq(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.StartRun(ctx, id, testConfig()))
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.Equal(t, int64(3), runs[0].Seq)
	assert.Equal(t, int64(1), runs[2].Seq)
}

func TestStartRun_StoresConfig(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cfg := testConfig()

	require.NoError(t, s.StartRun(ctx, "run-1", cfg))

	r, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, cfg, r.Config)
	assert.Equal(t, "med_L_8", r.OutputPath)
	assert.Equal(t, 2, r.Temperatures)
	assert.Equal(t, "running", r.Status)
}

func TestStartRun_DuplicateIDFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.StartRun(ctx, "run-1", testConfig()))
	assert.Error(t, s.StartRun(ctx, "run-1", testConfig()))
}

func TestRecordInvocation_OrderedByIndex(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.StartRun(ctx, "run-1", testConfig()))

	// Parallel sweeps may record out of order.
	require.NoError(t, s.RecordInvocation(ctx, "run-1", sweep.InvocationRecord{Index: 1, Temperature: 2.5, ExitCode: 3, Err: "boom"}))
	require.NoError(t, s.RecordInvocation(ctx, "run-1", sweep.InvocationRecord{Index: 0, Temperature: 1.5, Bytes: 24}))

	invs, err := s.RunInvocations(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, invs, 2)

	assert.Equal(t, Invocation{Index: 0, Temperature: 1.5, Bytes: 24}, invs[0])
	assert.Equal(t, Invocation{Index: 1, Temperature: 2.5, ExitCode: 3, Error: "boom"}, invs[1])
}

func TestRecordInvocation_UnknownRunFails(t *testing.T) {
	s := openTestStore(t)

	err := s.RecordInvocation(context.Background(), "missing", sweep.InvocationRecord{Index: 0})
	assert.Error(t, err)
}

func TestRunInvocations_EmptyNotNil(t *testing.T) {
	s := openTestStore(t)

	invs, err := s.RunInvocations(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, invs)
	assert.Empty(t, invs)
}

func TestFinishRun_UpdatesStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.StartRun(ctx, "run-1", testConfig()))

	require.NoError(t, s.FinishRun(ctx, "run-1", sweep.Outcome{Status: sweep.StatusFailed, Rows: 1, Err: "exit 3"}))

	r, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, sweep.StatusFailed, r.Status)
	assert.Equal(t, 1, r.Rows)
	assert.Equal(t, "exit 3", r.Error)
}

func TestFinishRun_UnknownRun(t *testing.T) {
	s := openTestStore(t)

	err := s.FinishRun(context.Background(), "missing", sweep.Outcome{Status: sweep.StatusOK})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns_Limit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.StartRun(ctx, id, testConfig()))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestListRuns_EmptyNotNil(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}
