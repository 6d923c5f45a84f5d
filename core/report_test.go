package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/internal/iocache"
	"github.com/huangsam/diffeffort/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reportFixture builds two fake repositories: alpha has work on testDay only,
// beta has none of the configured branches.
func reportFixture(t *testing.T) (*contract.Config, *contract.MockGitClient, string, string) {
	t.Helper()
	root := t.TempDir()
	makeTree(t, root, "alpha/.git", "beta/.git")
	alpha := filepath.Join(root, "alpha")
	beta := filepath.Join(root, "beta")

	client := &contract.MockGitClient{}
	client.On("RemoteURLs", mock.Anything, alpha).Return([]string{"origin https://github.com/acme/alpha.git"}, nil)
	client.On("RemoteURLs", mock.Anything, beta).Return([]string{"origin https://github.com/acme/beta.git"}, nil)

	client.On("BranchExists", mock.Anything, alpha, "develop").Return(false, nil)
	client.On("BranchExists", mock.Anything, alpha, "main").Return(true, nil)
	client.On("RevBefore", mock.Anything, alpha, "main", "2024-03-15 00:00").Return("aaa", nil)
	client.On("RevBefore", mock.Anything, alpha, "main", "2024-03-15 23:59").Return("bbb", nil)
	client.On("RevBefore", mock.Anything, alpha, "main", "2024-03-14 00:00").Return("", nil)
	client.On("RevBefore", mock.Anything, alpha, "main", "2024-03-14 23:59").Return("aaa", nil)
	client.On("Diff", mock.Anything, alpha, "aaa", "bbb").Return(appPHPDiff, nil)
	client.On("CommitSubjects", mock.Anything, alpha, "aaa", "bbb").Return([]string{"add feature"}, nil)

	client.On("BranchExists", mock.Anything, beta, mock.Anything).Return(false, nil)

	cfg := testConfig()
	cfg.RootDir = root
	cfg.Days = []time.Time{testDay, testDayBefore}
	return cfg, client, alpha, beta
}

func TestGetReportResults_Ordering(t *testing.T) {
	cfg, client, alpha, beta := reportFixture(t)

	results, err := GetReportResults(WithSuppressHeader(context.Background()), cfg, client, client, nil)
	require.NoError(t, err)
	require.Len(t, results, 4)

	want := []struct {
		repo   string
		day    time.Time
		status schema.ReportStatus
	}{
		{alpha, testDay, schema.ReportedStatus},
		{alpha, testDayBefore, schema.NoCommitsStatus},
		{beta, testDay, schema.NoBranchStatus},
		{beta, testDayBefore, schema.NoBranchStatus},
	}
	for i, w := range want {
		assert.Equal(t, w.repo, results[i].Repo, "result %d", i)
		assert.True(t, w.day.Equal(results[i].Day), "result %d", i)
		assert.Equal(t, w.status, results[i].Status, "result %d", i)
	}
	assert.Equal(t, 4, results[0].TotalChanges)
	client.AssertNotCalled(t, "Diff", mock.Anything, beta, mock.Anything, mock.Anything)
}

func TestGetReportResults_Deterministic(t *testing.T) {
	cfg, client, _, _ := reportFixture(t)
	cfg.Workers = 4

	first, err := GetReportResults(WithSuppressHeader(context.Background()), cfg, client, client, nil)
	require.NoError(t, err)
	for range 5 {
		again, err := GetReportResults(WithSuppressHeader(context.Background()), cfg, client, client, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGetReportResults_FailuresContinue(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "alpha/.git", "broken/.git")
	alpha := filepath.Join(root, "alpha")
	broken := filepath.Join(root, "broken")

	client := &contract.MockGitClient{}
	client.On("RemoteURLs", mock.Anything, mock.Anything).Return(nil, nil)
	client.On("BranchExists", mock.Anything, broken, "develop").Return(false, assert.AnError)
	client.On("BranchExists", mock.Anything, alpha, "develop").Return(true, nil)
	client.On("RevBefore", mock.Anything, alpha, "develop", mock.Anything).Return("", nil)

	cfg := testConfig()
	cfg.RootDir = root

	results, err := GetReportResults(WithSuppressHeader(context.Background()), cfg, client, client, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, schema.NoCommitsStatus, results[0].Status)
	assert.Equal(t, schema.FailedStatus, results[1].Status)
}

func TestGetReportResults_NoRepositories(t *testing.T) {
	cfg := testConfig()
	cfg.RootDir = t.TempDir()

	results, err := GetReportResults(WithSuppressHeader(context.Background()), cfg, &contract.MockGitClient{}, &contract.MockGitClient{}, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetReportResults_Cancelled(t *testing.T) {
	cfg, client, _, _ := reportFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GetReportResults(WithSuppressHeader(ctx), cfg, client, client, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetReportResults_RecordsHistory(t *testing.T) {
	cfg, client, alpha, _ := reportFixture(t)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(7), nil)
	history.On("RecordDayRepoResult", int64(7), mock.MatchedBy(func(r schema.DayRepoResult) bool {
		return r.Repo == alpha && r.Reported()
	})).Return(nil).Once()
	history.On("EndRun", int64(7), mock.AnythingOfType("time.Time"), 1).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDiffStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	_, err := GetReportResults(WithSuppressHeader(context.Background()), cfg, client, client, mgr)
	require.NoError(t, err)
	history.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestGetReportResults_HistoryBeginFailure(t *testing.T) {
	cfg, client, _, _ := reportFixture(t)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDiffStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	results, err := GetReportResults(WithSuppressHeader(context.Background()), cfg, client, client, mgr)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	history.AssertNotCalled(t, "RecordDayRepoResult", mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestResultTableSorted(t *testing.T) {
	table := &resultTable{}
	table.add(1, 0, schema.DayRepoResult{Repo: "b0"})
	table.add(0, 1, schema.DayRepoResult{Repo: "a1"})
	table.add(1, 1, schema.DayRepoResult{Repo: "b1"})
	table.add(0, 0, schema.DayRepoResult{Repo: "a0"})

	var repos []string
	for _, r := range table.sorted() {
		repos = append(repos, r.Repo)
	}
	assert.Equal(t, []string{"a0", "a1", "b0", "b1"}, repos)
}
