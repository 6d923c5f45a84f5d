package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/diffeffort/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	t.Run("latest", func(t *testing.T) {
		require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, -1))
		require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, -1), "second run has no change")
	})

	t.Run("specific version", func(t *testing.T) {
		require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, 1))

		db, err := openDatabase(schema.SQLiteBackend, path, "")
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		var count int
		err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, categoryTalliesTable).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count, "version 1 only has the runs table")
	})

	t.Run("roll back everything", func(t *testing.T) {
		require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, 0))
		require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, 0), "second rollback has no change")
	})

	t.Run("store migrates on open", func(t *testing.T) {
		store, err := NewHistoryStore(schema.SQLiteBackend, path)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Len(t, status.TableSizes, len(historyTables()))
	})
}

func TestMigrateHistoryErrors(t *testing.T) {
	t.Run("none backend", func(t *testing.T) {
		err := MigrateHistory(schema.NoneBackend, "", -1)
		assert.ErrorContains(t, err, "not supported for NoneBackend")
	})

	t.Run("unsupported backend", func(t *testing.T) {
		err := MigrateHistory("oracle", "", -1)
		assert.ErrorContains(t, err, "unsupported backend")
	})
}

func TestMigrationFilesPerBackend(t *testing.T) {
	for _, dir := range []string{"sqlite", "mysql", "postgres"} {
		t.Run(dir, func(t *testing.T) {
			entries, err := migrationsFS.ReadDir("migrations/" + dir)
			require.NoError(t, err)
			assert.Len(t, entries, 6, "three up and three down migrations")
		})
	}
}

func TestClearHistoryRemovesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, -1))
	require.NoError(t, ClearHistory(schema.SQLiteBackend, path, ""))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
