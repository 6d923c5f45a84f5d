package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
)

// Table names for run history.
const (
	runsTable            = "diffeffort_runs"
	dayRepoResultsTable  = "diffeffort_day_repo_results"
	categoryTalliesTable = "diffeffort_category_tallies"
)

// historyTables lists the history tables in creation order.
func historyTables() []string {
	return []string{runsTable, dayRepoResultsTable, categoryTalliesTable}
}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend and brings
// its schema up to date.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// insertQuery renders an INSERT with backend-specific placeholders.
func (hs *HistoryStoreImpl) insertQuery(table string, columns ...string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(table, hs.backend),
		strings.Join(columns, ", "),
		strings.Join(placeholders(hs.backend, len(columns)), ", "),
	)
}

// BeginRun creates a new report run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	query := hs.insertQuery(runsTable, "start_time", "config_params")
	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		err = hs.db.QueryRow(query+" RETURNING run_id", startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = hs.db.Exec(query, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalReported int) error {
	if hs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	ph := placeholders(hs.backend, 4)

	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, ph[0])
	startTime, err := hs.scanTime(hs.db.QueryRow(selectQuery, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_reported = %s WHERE run_id = %s`,
		quotedTableName, ph[0], ph[1], ph[2], ph[3])
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalReported, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordDayRepoResult stores a reported (day, repository) pair and its category tallies
// in one transaction. Pairs that were not reported are ignored.
func (hs *HistoryStoreImpl) RecordDayRepoResult(runID int64, result schema.DayRepoResult) error {
	if hs.disabled() || !result.Reported() {
		return nil
	}

	var estimate schema.EffortEstimate
	if result.Estimate != nil {
		estimate = *result.Estimate
	}
	day := result.DayString()

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	resultQuery := hs.insertQuery(dayRepoResultsTable,
		"run_id", "day", "repo_path", "branch", "total_changes", "total_minutes",
		"hours_part", "minutes_part", "commit_count", "recorded_at")
	if _, err := tx.Exec(resultQuery,
		runID, day, result.Repo, result.Branch, result.TotalChanges, estimate.TotalMinutes,
		estimate.HoursPart, estimate.MinutesPart, len(result.CommitMessages), formatTime(time.Now(), hs.backend),
	); err != nil {
		return fmt.Errorf("failed to insert result for %s on %s: %w", result.Repo, day, err)
	}

	tallyQuery := hs.insertQuery(categoryTalliesTable,
		"run_id", "day", "repo_path", "label", "total_changes", "file_count")
	for _, category := range result.Tally.Categories {
		if _, err := tx.Exec(tallyQuery,
			runID, day, result.Repo, category.Label, category.TotalChanges, len(category.Files),
		); err != nil {
			return fmt.Errorf("failed to insert %s tally for %s on %s: %w", category.Label, result.Repo, day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result for %s on %s: %w", result.Repo, day, err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// scanTime reads a single timestamp column in the backend's storage format.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return parseTime(s)
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT MAX(run_id) FROM %s", quotedRuns)).Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		ph := placeholders(hs.backend, 1)[0]
		timeQuery := fmt.Sprintf("SELECT start_time FROM %s WHERE run_id = %s", quotedRuns, ph)
		lastRunTime, err := hs.scanTime(hs.db.QueryRow(timeQuery, status.LastRunID))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		oldestRunTime, err := hs.scanTime(hs.db.QueryRow(oldestQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		sumQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_reported), 0) FROM %s", quotedRuns)
		if err := hs.db.QueryRow(sumQuery).Scan(&status.TotalReported); err != nil {
			return status, fmt.Errorf("failed to get total reported pairs: %w", err)
		}
	}

	for _, table := range historyTables() {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_reported, config_params FROM %s ORDER BY run_id",
		quoteTableName(runsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalReported, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := parseTime(startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalReported, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllDayRepoResults retrieves all recorded (day, repository) results.
func (hs *HistoryStoreImpl) GetAllDayRepoResults() ([]schema.DayRepoRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, day, repo_path, branch, total_changes, total_minutes,
		hours_part, minutes_part, commit_count, recorded_at
		FROM %s ORDER BY run_id, day, repo_path`, quoteTableName(dayRepoResultsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query day/repo results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DayRepoRecord
	for rows.Next() {
		var record schema.DayRepoRecord
		var recordedAt any = &record.RecordedAt
		var recordedAtStr string
		if hs.backend == schema.SQLiteBackend {
			recordedAt = &recordedAtStr
		}
		if err := rows.Scan(&record.RunID, &record.Day, &record.RepoPath, &record.Branch, &record.TotalChanges,
			&record.TotalMinutes, &record.HoursPart, &record.MinutesPart, &record.CommitCount, recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan day/repo result: %w", err)
		}
		if hs.backend == schema.SQLiteBackend {
			t, err := parseTime(recordedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
			}
			record.RecordedAt = t
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day/repo results: %w", err)
	}
	return results, nil
}

// GetAllCategoryTallies retrieves all recorded category tallies.
func (hs *HistoryStoreImpl) GetAllCategoryTallies() ([]schema.CategoryRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, day, repo_path, label, total_changes, file_count
		FROM %s ORDER BY run_id, day, repo_path, label`, quoteTableName(categoryTalliesTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category tallies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CategoryRecord
	for rows.Next() {
		var record schema.CategoryRecord
		if err := rows.Scan(&record.RunID, &record.Day, &record.RepoPath, &record.Label,
			&record.TotalChanges, &record.FileCount); err != nil {
			return nil, fmt.Errorf("failed to scan category tally: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category tallies: %w", err)
	}
	return results, nil
}
