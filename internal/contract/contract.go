// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/diffeffort/schema"
)

// GitClient defines the git operations needed to estimate effort for one repository and day.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	RemoteLister

	// Run executes a git command and returns its stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// BranchExists reports whether a local branch with the given name exists.
	BranchExists(ctx context.Context, repoPath string, branch string) (bool, error)

	// RevBefore returns the hash of the last commit on ref made before the given
	// git date expression, or "" when there is none.
	RevBefore(ctx context.Context, repoPath string, ref string, before string) (string, error)

	// Diff returns the raw unified diff between two commits.
	Diff(ctx context.Context, repoPath string, from, to string) (string, error)

	// CommitSubjects returns the subject line of every commit in from..to, newest first.
	CommitSubjects(ctx context.Context, repoPath string, from, to string) ([]string, error)
}

// RemoteLister lists the remotes of a repository as "name url" entries.
type RemoteLister interface {
	RemoteURLs(ctx context.Context, repoPath string) ([]string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetDiffStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs and their results.
type HistoryStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalReported int) error

	// RecordDayRepoResult stores one reported (day, repository) pair and its category tallies
	RecordDayRepoResult(runID int64, result schema.DayRepoResult) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all run records
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllDayRepoResults retrieves all recorded (day, repository) results
	GetAllDayRepoResults() ([]schema.DayRepoRecord, error)

	// GetAllCategoryTallies retrieves all recorded category tallies
	GetAllCategoryTallies() ([]schema.CategoryRecord, error)

	// Close closes the underlying connection
	Close() error
}
