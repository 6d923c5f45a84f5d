package iocache

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryHistoryStore(t *testing.T) contract.HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func reportedResult(repo string, day time.Time) schema.DayRepoResult {
	return schema.DayRepoResult{
		Day:            day,
		Repo:           repo,
		Branch:         "main",
		Status:         schema.ReportedStatus,
		CommitMessages: []string{"add feature", "fix typo"},
		Tally: schema.CategoryTally{Categories: []schema.CategoryTotal{
			{Label: "PHP", TotalChanges: 4, Files: []schema.FileChange{
				{Name: "App.php", Path: "src/App.php", ChangeCount: schema.ChangeCount{Added: 3, Removed: 1}},
			}},
			{Label: "SASS/SCSS", TotalChanges: 2, Files: []schema.FileChange{
				{Name: "a.scss", Path: "web/a.scss", ChangeCount: schema.ChangeCount{Added: 1}},
				{Name: "b.scss", Path: "web/b.scss", ChangeCount: schema.ChangeCount{Removed: 1}},
			}},
		}},
		TotalChanges: 6,
		Estimate:     &schema.EffortEstimate{TotalMinutes: 93.8, HoursPart: 1, MinutesPart: 34},
	}
}

func TestHistoryStoreLifecycle(t *testing.T) {
	store := newMemoryHistoryStore(t)
	start := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun(start, map[string]any{"days": 1, "branches": "main"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	require.NoError(t, store.RecordDayRepoResult(runID, reportedResult("/src/widgets", day)))
	require.NoError(t, store.RecordDayRepoResult(runID, schema.DayRepoResult{
		Day: day, Repo: "/src/empty", Status: schema.NoCommitsStatus,
	}), "unreported pairs are skipped without error")

	require.NoError(t, store.EndRun(runID, start.Add(1500*time.Millisecond), 1))

	t.Run("status", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 1, status.TotalRuns)
		assert.Equal(t, int64(1), status.LastRunID)
		assert.True(t, start.Equal(status.LastRunTime))
		assert.True(t, start.Equal(status.OldestRunTime))
		assert.Equal(t, 1, status.TotalReported)
		assert.Equal(t, map[string]int64{
			runsTable:            1,
			dayRepoResultsTable:  1,
			categoryTalliesTable: 2,
		}, status.TableSizes)
	})

	t.Run("runs", func(t *testing.T) {
		runs, err := store.GetAllRuns()
		require.NoError(t, err)
		require.Len(t, runs, 1)

		run := runs[0]
		assert.Equal(t, runID, run.RunID)
		assert.True(t, start.Equal(run.StartTime))
		require.NotNil(t, run.EndTime)
		require.NotNil(t, run.RunDurationMs)
		assert.Equal(t, int32(1500), *run.RunDurationMs)
		assert.Equal(t, int32(1), run.TotalReported)
		require.NotNil(t, run.ConfigParams)

		var params map[string]any
		require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &params))
		assert.Equal(t, "main", params["branches"])
	})

	t.Run("day repo results", func(t *testing.T) {
		results, err := store.GetAllDayRepoResults()
		require.NoError(t, err)
		require.Len(t, results, 1)

		result := results[0]
		assert.Equal(t, "2024-03-15", result.Day)
		assert.Equal(t, "/src/widgets", result.RepoPath)
		assert.Equal(t, "main", result.Branch)
		assert.Equal(t, int32(6), result.TotalChanges)
		assert.InDelta(t, 93.8, result.TotalMinutes, 1e-9)
		assert.Equal(t, int32(1), result.HoursPart)
		assert.Equal(t, int32(34), result.MinutesPart)
		assert.Equal(t, int32(2), result.CommitCount)
		assert.False(t, result.RecordedAt.IsZero())
	})

	t.Run("category tallies", func(t *testing.T) {
		tallies, err := store.GetAllCategoryTallies()
		require.NoError(t, err)
		require.Len(t, tallies, 2)

		assert.Equal(t, "PHP", tallies[0].Label)
		assert.Equal(t, int32(4), tallies[0].TotalChanges)
		assert.Equal(t, int32(1), tallies[0].FileCount)
		assert.Equal(t, "SASS/SCSS", tallies[1].Label)
		assert.Equal(t, int32(2), tallies[1].FileCount)
	})
}

func TestHistoryStoreDuplicatePair(t *testing.T) {
	store := newMemoryHistoryStore(t)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	require.NoError(t, store.RecordDayRepoResult(runID, reportedResult("/src/widgets", day)))
	err = store.RecordDayRepoResult(runID, reportedResult("/src/widgets", day))
	assert.ErrorContains(t, err, "failed to insert result for /src/widgets on 2024-03-15")

	tallies, err := store.GetAllCategoryTallies()
	require.NoError(t, err)
	assert.Len(t, tallies, 2, "the failed transaction must not leave tallies behind")
}

func TestHistoryStoreEndRunUnknown(t *testing.T) {
	store := newMemoryHistoryStore(t)
	err := store.EndRun(42, time.Now(), 0)
	assert.ErrorContains(t, err, "failed to get start_time for run 42")
}

func TestHistoryStoreNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), map[string]any{"days": 1})
	assert.NoError(t, err)
	assert.Zero(t, runID)
	assert.NoError(t, store.RecordDayRepoResult(runID, reportedResult("/src/widgets", time.Now())))
	assert.NoError(t, store.EndRun(runID, time.Now(), 1))

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, store.Close())
}

func TestHistoryStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	_, err = first.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err, "reopening an up-to-date schema should be a no-op migration")
	defer func() { _ = second.Close() }()

	status, err := second.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
}

func TestInsertQuery(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		want    string
	}{
		{"sqlite", schema.SQLiteBackend, `INSERT INTO "t" (a, b) VALUES (?, ?)`},
		{"mysql", schema.MySQLBackend, "INSERT INTO `t` (a, b) VALUES (?, ?)"},
		{"postgres", schema.PostgreSQLBackend, `INSERT INTO "t" (a, b) VALUES ($1, $2)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &HistoryStoreImpl{backend: tt.backend}
			assert.Equal(t, tt.want, store.insertQuery("t", "a", "b"))
		})
	}
}
