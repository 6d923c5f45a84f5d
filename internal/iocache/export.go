package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/internal/parquet"
)

// Suffixes appended to the export prefix, one Parquet file per history table.
const (
	runsExportSuffix       = ".runs.parquet"
	resultsExportSuffix    = ".day_repo_results.parquet"
	categoriesExportSuffix = ".category_tallies.parquet"
)

// ExecuteHistoryExport exports the run history held by store to Parquet files named
// after outputPrefix.
func ExecuteHistoryExport(store contract.HistoryStore, outputPrefix string) error {
	if outputPrefix == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized. Set --history-backend to enable run tracking")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total day/repo results: %d\n", status.TableSizes[dayRepoResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	results, err := store.GetAllDayRepoResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve day/repo results: %w", err)
	}
	tallies, err := store.GetAllCategoryTallies()
	if err != nil {
		return fmt.Errorf("failed to retrieve category tallies: %w", err)
	}

	runsFile := outputPrefix + runsExportSuffix
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	resultsFile := outputPrefix + resultsExportSuffix
	if err := parquet.WriteDayRepoResultsParquet(parquet.ConvertDayRepoRecords(results), resultsFile); err != nil {
		return fmt.Errorf("failed to write day/repo results: %w", err)
	}
	fmt.Printf("Exported %d day/repo results to: %s\n", len(results), resultsFile)

	talliesFile := outputPrefix + categoriesExportSuffix
	if err := parquet.WriteCategoryTalliesParquet(parquet.ConvertCategoryRecords(tallies), talliesFile); err != nil {
		return fmt.Errorf("failed to write category tallies: %w", err)
	}
	fmt.Printf("Exported %d category tallies to: %s\n", len(tallies), talliesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow), Apache Spark or any other Parquet-compatible tool.")
	return nil
}
