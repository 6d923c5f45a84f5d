package cmd

import (
	"fmt"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/internal/iocache"
	"github.com/huangsam/diffeffort/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for history operations.
// The store is only opened when open is set. Clearing and migrating work on the
// database directly so that they also succeed on a fresh or broken schema.
func historySetup(open bool) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, connStr, err := backendFromViper("history-backend", "history-db-connect", schema.NoneBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	if open {
		if err := iocache.InitStores("", "", backend, connStr); err != nil {
			return fmt.Errorf("failed to initialize history: %w", err)
		}
	}
	return nil
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage run history tracking and exports",
	Long: `Manage the history of report runs.

When --history-backend is set, every report run stores:
- Run metadata (timestamp, configuration, duration)
- Every reported day and repository with its change total and estimate
- The per-category change tallies of each reported pair

This enables trend tracking across runs and data export for BI tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Track runs in the default SQLite file
  diffeffort report ~/src --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  diffeffort history export --history-backend sqlite --output-file effort`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	Long: `Delete all stored runs, day/repository results and category tallies.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  diffeffort history export --history-backend sqlite --output-file backup
  diffeffort history clear --history-backend sqlite`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return historySetup(false) },
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := sqliteFilePath(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath())
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFile, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history tracking statistics and connection details",
	Long: `Show detailed information about run history tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Database table sizes

Examples:
  diffeffort history status --history-backend sqlite`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return historySetup(true) },
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored history to Parquet files named after --output-file:

- <prefix>.runs.parquet - one row per report run
- <prefix>.day_repo_results.parquet - one row per reported day and repository
- <prefix>.category_tallies.parquet - one row per category of a reported pair

Examples:
  diffeffort history export --history-backend sqlite --output-file effort
  duckdb -c "SELECT repo, sum(total_changes) FROM read_parquet('effort.day_repo_results.parquet') GROUP BY repo"`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return historySetup(true) },
	Run: func(_ *cobra.Command, _ []string) {
		var store contract.HistoryStore
		if cfg.HistoryBackend != schema.NoneBackend {
			store = iocache.Manager.GetHistoryStore()
		}
		if err := iocache.ExecuteHistoryExport(store, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  diffeffort history migrate --history-backend sqlite

  # Migrate to specific version
  diffeffort history migrate --history-backend sqlite --target-version 1

  # Rollback everything
  diffeffort history migrate --history-backend sqlite --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error { return historySetup(false) },
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
