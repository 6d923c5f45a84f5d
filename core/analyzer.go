package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/diffeffort/core/diff"
	"github.com/huangsam/diffeffort/core/effort"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
	"github.com/samber/lo"
)

// Git date expressions bounding a calendar day.
const (
	dayStartClock = "00:00"
	dayEndClock   = "23:59"
)

// DayRepoAnalyzer turns the git history of one repository on one day into a DayRepoResult.
// It is safe for concurrent use once built.
type DayRepoAnalyzer struct {
	cfg     *contract.Config
	client  contract.GitClient
	diffs   contract.CacheStore
	matcher *diff.Matcher
}

// NewDayRepoAnalyzer compiles the category rules of cfg and binds the analyzer to a git
// client and an optional diff cache.
func NewDayRepoAnalyzer(cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*DayRepoAnalyzer, error) {
	matcher, err := diff.NewMatcher(cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid category rules: %w", err)
	}
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetDiffStore()
	}
	return &DayRepoAnalyzer{cfg: cfg, client: client, diffs: store, matcher: matcher}, nil
}

// Analyze estimates the effort spent in repo on day.
//
// A pair with nothing to report comes back with a non-reported status and a nil error.
// A git failure comes back with FailedStatus and the wrapped error.
func (a *DayRepoAnalyzer) Analyze(ctx context.Context, repo string, day time.Time) (schema.DayRepoResult, error) {
	result := schema.DayRepoResult{Day: day, Repo: repo}
	dayStr := day.Format(schema.DayFormat)

	// --- 1. Branch resolution ---
	branch, err := a.resolveBranch(ctx, repo)
	if err != nil {
		result.Status = schema.FailedStatus
		return result, fmt.Errorf("failed to resolve branch in %s: %w", repo, err)
	}
	if branch == "" {
		result.Status = schema.NoBranchStatus
		return result, nil
	}
	result.Branch = branch

	// --- 2. Day boundaries ---
	start, err := a.client.RevBefore(ctx, repo, branch, dayStr+" "+dayStartClock)
	if err != nil {
		result.Status = schema.FailedStatus
		return result, fmt.Errorf("failed to find start commit for %s on %s: %w", repo, dayStr, err)
	}
	end, err := a.client.RevBefore(ctx, repo, branch, dayStr+" "+dayEndClock)
	if err != nil {
		result.Status = schema.FailedStatus
		return result, fmt.Errorf("failed to find end commit for %s on %s: %w", repo, dayStr, err)
	}
	if start == "" || end == "" {
		contract.LogDebug("no commits on %s in %s before %s", branch, repo, dayStr)
		result.Status = schema.NoCommitsStatus
		return result, nil
	}
	result.StartCommit, result.EndCommit = start, end

	// --- 3. Diff retrieval and filtering ---
	raw, err := cachedDiff(ctx, a.client, a.diffs, repo, start, end)
	if err != nil {
		result.Status = schema.FailedStatus
		return result, fmt.Errorf("failed to diff %s..%s in %s: %w", shortHash(start), shortHash(end), repo, err)
	}
	filtered := diff.Filter(raw, diff.FilterOptions{
		MaxLineLength: a.cfg.MaxLineLength,
		ExcludePaths:  a.cfg.ExcludePaths,
	})
	if filtered == "" {
		result.Status = schema.NoDiffStatus
		return result, nil
	}
	result.Diff = filtered

	// --- 4. Commit messages ---
	subjects, err := a.client.CommitSubjects(ctx, repo, start, end)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Cannot read commit messages for %s on %s", repo, dayStr), err)
	} else {
		result.CommitMessages = normalizeSubjects(subjects)
	}

	// --- 5. Aggregation ---
	result.Tally = diff.Aggregate(filtered, a.matcher, diff.AggregateOptions{
		IncludeUnclassified: a.cfg.IncludeUnclassified,
	})
	if result.Tally.IsZero() {
		result.Status = schema.NoChangesStatus
		return result, nil
	}
	result.TotalChanges = result.Tally.Total()

	// --- 6. Estimation ---
	estimate, err := effort.Estimate(result.TotalChanges, a.cfg.Cost)
	if err != nil {
		result.Status = schema.FailedStatus
		return result, fmt.Errorf("failed to estimate effort for %s on %s: %w", repo, dayStr, err)
	}
	result.Estimate = &estimate
	result.Status = schema.ReportedStatus
	return result, nil
}

// resolveBranch returns the first configured branch that exists in repo, or "".
func (a *DayRepoAnalyzer) resolveBranch(ctx context.Context, repo string) (string, error) {
	for _, branch := range a.cfg.Branches {
		ok, err := a.client.BranchExists(ctx, repo, branch)
		if err != nil {
			return "", err
		}
		if ok {
			return branch, nil
		}
	}
	return "", nil
}

// normalizeSubjects trims commit subjects and drops repeats, keeping first occurrences.
func normalizeSubjects(subjects []string) []string {
	if len(subjects) == 0 {
		return nil
	}
	trimmed := lo.Map(subjects, func(s string, _ int) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return schema.EmptyCommitLabel
		}
		return s
	})
	return lo.Uniq(trimmed)
}
