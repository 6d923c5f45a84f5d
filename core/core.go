// Package core has core logic for discovering repositories and estimating effort per day.
package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/huangsam/diffeffort/core/effort"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/internal/outwriter"
	"github.com/huangsam/diffeffort/schema"
)

// ExecuteReport runs the day by repository report and prints results to stdout.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	results, err := GetReportResults(ctx, cfg, contract.NewLocalGitClient(), contract.NewGoGitRemoteLister(), mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintReport(results, cfg, duration)
}

// ExecuteRepos lists the repositories a report would cover.
func ExecuteRepos(ctx context.Context, cfg *contract.Config) error {
	repos, err := DiscoverRepositories(ctx, cfg.RootDir, cfg.RemoteFilter, contract.NewGoGitRemoteLister())
	if err != nil {
		return err
	}
	return outwriter.PrintRepos(repos, cfg)
}

// ExecuteCategories lists the effective category rules.
func ExecuteCategories(cfg *contract.Config) error {
	return outwriter.PrintCategories(cfg.Categories, cfg)
}

// ExecuteEstimate prints the effort estimate for a change count.
func ExecuteEstimate(changes int, cfg *contract.Config) error {
	result, err := GetEstimateResult(changes, cfg.Cost)
	if err != nil {
		return err
	}
	return outwriter.PrintEstimate(result, cfg)
}

// GetEstimateResult estimates the effort for a change count and pairs it with the
// upper bound of the cost model.
func GetEstimateResult(changes int, cost schema.CostParameters) (schema.EstimateResult, error) {
	estimate, err := effort.Estimate(changes, cost)
	if err != nil {
		return schema.EstimateResult{}, fmt.Errorf("cannot estimate %d changes: %w", changes, err)
	}
	result := schema.EstimateResult{Changes: changes, Cost: cost, Estimate: estimate}
	if bound := effort.UpperBound(cost); !math.IsInf(bound, 1) {
		result.UpperBound = &bound
	}
	return result, nil
}

// AnalyzeRepoDay analyzes a single repository on a single day.
func AnalyzeRepoDay(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, repo string, day time.Time) (schema.DayRepoResult, error) {
	if !isDirectory(repo) {
		return schema.DayRepoResult{}, fmt.Errorf("%q is not a directory", repo)
	}
	analyzer, err := NewDayRepoAnalyzer(cfg, client, mgr)
	if err != nil {
		return schema.DayRepoResult{}, err
	}
	return analyzer.Analyze(ctx, repo, day)
}
