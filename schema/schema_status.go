package schema

import "time"

// CacheStatus represents the status of the diff cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalReported int              `json:"total_reported"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the diffeffort_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalReported int32
	ConfigParams  *string
}

// DayRepoRecord represents a row from the diffeffort_day_repo_results table.
type DayRepoRecord struct {
	RunID        int64
	Day          string
	RepoPath     string
	Branch       string
	TotalChanges int32
	TotalMinutes float64
	HoursPart    int32
	MinutesPart  int32
	CommitCount  int32
	RecordedAt   time.Time
}

// CategoryRecord represents a row from the diffeffort_category_tallies table.
type CategoryRecord struct {
	RunID        int64
	Day          string
	RepoPath     string
	Label        string
	TotalChanges int32
	FileCount    int32
}
