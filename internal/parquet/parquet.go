// Package parquet provides data structures and functions for exporting diffeffort
// run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/diffeffort/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single report run with metadata.
// This struct maps to the diffeffort_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalReported is the number of (day, repository) pairs that produced a report
	TotalReported int32 `parquet:"total_reported,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// DayRepoResult is one reported (day, repository) pair.
// This struct maps to the diffeffort_day_repo_results database table.
type DayRepoResult struct {
	RunID        int64     `parquet:"run_id,snappy"`
	Day          string    `parquet:"day,dict,snappy"`
	RepoPath     string    `parquet:"repo_path,dict,snappy"`
	Branch       string    `parquet:"branch,dict,snappy"`
	TotalChanges int32     `parquet:"total_changes,snappy"`
	TotalMinutes float64   `parquet:"total_minutes,snappy"`
	HoursPart    int32     `parquet:"hours_part,snappy"`
	MinutesPart  int32     `parquet:"minutes_part,snappy"`
	CommitCount  int32     `parquet:"commit_count,snappy"`
	RecordedAt   time.Time `parquet:"recorded_at,snappy"`
}

// CategoryTally is the change total of one category within a reported pair.
// This struct maps to the diffeffort_category_tallies database table.
type CategoryTally struct {
	RunID        int64  `parquet:"run_id,snappy"`
	Day          string `parquet:"day,dict,snappy"`
	RepoPath     string `parquet:"repo_path,dict,snappy"`
	Label        string `parquet:"label,dict,snappy"`
	TotalChanges int32  `parquet:"total_changes,snappy"`
	FileCount    int32  `parquet:"file_count,snappy"`
}

// writeParquet writes rows to outputPath using the schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteDayRepoResultsParquet writes a slice of DayRepoResult structs to a Parquet file.
func WriteDayRepoResultsParquet(data []DayRepoResult, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteCategoryTalliesParquet writes a slice of CategoryTally structs to a Parquet file.
func WriteCategoryTalliesParquet(data []CategoryTally, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to parquet.Run.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalReported: record.TotalReported,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertDayRepoRecords converts schema.DayRepoRecord to parquet.DayRepoResult.
func ConvertDayRepoRecords(records []schema.DayRepoRecord) []DayRepoResult {
	result := make([]DayRepoResult, len(records))
	for i, record := range records {
		result[i] = DayRepoResult{
			RunID:        record.RunID,
			Day:          record.Day,
			RepoPath:     record.RepoPath,
			Branch:       record.Branch,
			TotalChanges: record.TotalChanges,
			TotalMinutes: record.TotalMinutes,
			HoursPart:    record.HoursPart,
			MinutesPart:  record.MinutesPart,
			CommitCount:  record.CommitCount,
			RecordedAt:   record.RecordedAt,
		}
	}
	return result
}

// ConvertCategoryRecords converts schema.CategoryRecord to parquet.CategoryTally.
func ConvertCategoryRecords(records []schema.CategoryRecord) []CategoryTally {
	result := make([]CategoryTally, len(records))
	for i, record := range records {
		result[i] = CategoryTally(record)
	}
	return result
}
