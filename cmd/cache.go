package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/internal/iocache"
	"github.com/huangsam/diffeffort/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// backendFromViper reads and validates a backend and its connection string.
// An empty backend resolves to fallback.
func backendFromViper(backendKey, connKey string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, string, error) {
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString(backendKey)))
	if backend == "" {
		backend = fallback
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid %s '%s'. must be sqlite, mysql, postgresql, none", backendKey, backend)
	}
	connStr := viper.GetString(connKey)
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", fmt.Errorf("%s: %w", connKey, err)
	}
	return backend, connStr, nil
}

// sqliteFilePath returns the database file a SQLite connection string points at.
func sqliteFilePath(connStr, defaultPath string) string {
	if connStr == "" {
		return defaultPath
	}
	return connStr
}

// cacheSetup loads minimal configuration needed for cache operations.
// The store is only opened when open is set; clearing works on a closed database.
func cacheSetup(open bool) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := backendFromViper("cache-backend", "cache-db-connect", schema.SQLiteBackend)
	if err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	if open {
		if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the report. This avoids directory validation
// and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Git diff cache (improves performance)",
	Long: `Manage the cache of Git diffs that speeds up repeated reports.

The diff between two commits never changes, so diffeffort stores every diff it fetches
keyed by repository and commit pair. Re-running a report over the same days then skips
the git invocation entirely.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  diffeffort cache status

  # Clear cache after rewriting history
  diffeffort cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached diffs",
	Long: `Delete all cached diffs from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  diffeffort cache clear

  # Clear MySQL cache (set connection string via env variable)
  DIFFEFFORT_CACHE_BACKEND=mysql DIFFEFFORT_CACHE_DB_CONNECT="..." diffeffort cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return cacheSetup(false) },
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := sqliteFilePath(cfg.CacheDBConnect, contract.GetCacheDBFilePath())
		if err := iocache.ClearCache(cfg.CacheBackend, dbFile, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the diff cache.

Displays:
- Backend type and connection status
- Total number of cached diffs
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  diffeffort cache status`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return cacheSetup(true) },
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetDiffStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
