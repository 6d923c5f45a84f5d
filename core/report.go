package core

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// pairResult is one cell of the (repository, day) result table.
type pairResult struct {
	repoIndex int
	dayIndex  int
	result    schema.DayRepoResult
}

// resultTable collects results from concurrent workers.
type resultTable struct {
	mu    sync.Mutex
	cells []pairResult
}

func (t *resultTable) add(repoIndex, dayIndex int, result schema.DayRepoResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cells = append(t.cells, pairResult{repoIndex: repoIndex, dayIndex: dayIndex, result: result})
}

// sorted returns the results ordered by repository discovery order, then by day as configured.
func (t *resultTable) sorted() []schema.DayRepoResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	slices.SortFunc(t.cells, func(a, b pairResult) int {
		if a.repoIndex != b.repoIndex {
			return a.repoIndex - b.repoIndex
		}
		return a.dayIndex - b.dayIndex
	})
	results := make([]schema.DayRepoResult, len(t.cells))
	for i, cell := range t.cells {
		results[i] = cell.result
	}
	return results
}

// GetReportResults discovers the repositories under cfg.RootDir and analyzes every
// (repository, day) pair. Repositories are processed concurrently, up to cfg.Workers at a
// time; the days of one repository are processed in order. Git failures are logged and
// recorded as FailedStatus without stopping the run. Only cancellation of ctx aborts it.
func GetReportResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, lister contract.RemoteLister, mgr contract.CacheManager) ([]schema.DayRepoResult, error) {
	// --- 1. Discovery ---
	repos, err := DiscoverRepositories(ctx, cfg.RootDir, cfg.RemoteFilter, lister)
	if err != nil {
		return nil, err
	}
	contract.LogDebug("discovered %d repositories under %s", len(repos), cfg.RootDir)
	if len(repos) == 0 {
		return []schema.DayRepoResult{}, nil
	}

	analyzer, err := NewDayRepoAnalyzer(cfg, client, mgr)
	if err != nil {
		return nil, err
	}

	// --- 2. Begin run tracking (if configured) ---
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	var runID int64
	if history != nil {
		runID, err = history.BeginRun(time.Now(), cfg.ConfigParams())
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			history = nil
		}
	}

	// --- 3. Parallel analysis ---
	bar := newProgressBar(ctx, cfg, len(repos)*len(cfg.Days))
	table := &resultTable{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for ri, repo := range repos {
		g.Go(func() error {
			for di, day := range cfg.Days {
				if err := gctx.Err(); err != nil {
					return err
				}
				result, err := analyzer.Analyze(gctx, repo.Path, day)
				if err != nil {
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
					contract.LogWarn(fmt.Sprintf("Cannot analyze %s on %s", repo.Path, day.Format(schema.DayFormat)), err)
				}
				table.add(ri, di, result)
				if bar != nil {
					_ = bar.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("report cancelled: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	results := table.sorted()

	// --- 4. Record run (if configured) ---
	if history != nil {
		recordRun(history, runID, results)
	}

	return results, nil
}

// recordRun stores the reported pairs of a run and closes it.
func recordRun(history contract.HistoryStore, runID int64, results []schema.DayRepoResult) {
	reported := 0
	for _, result := range results {
		if !result.Reported() {
			continue
		}
		reported++
		if err := history.RecordDayRepoResult(runID, result); err != nil {
			contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on %s", result.Repo, result.DayString()), err)
		}
	}
	if err := history.EndRun(runID, time.Now(), reported); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// newProgressBar returns a stderr progress bar for quiet text reports on a terminal, or nil.
func newProgressBar(ctx context.Context, cfg *contract.Config, total int) *progressbar.ProgressBar {
	if shouldSuppressHeader(ctx) || cfg.Verbosity > 1 || cfg.Output != schema.TextOut {
		return nil
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
