package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock of the GitClient interface.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// BranchExists implements the GitClient interface.
func (m *MockGitClient) BranchExists(ctx context.Context, repoPath string, branch string) (bool, error) {
	ret := m.Called(ctx, repoPath, branch)
	return ret.Bool(0), ret.Error(1)
}

// RevBefore implements the GitClient interface.
func (m *MockGitClient) RevBefore(ctx context.Context, repoPath string, ref string, before string) (string, error) {
	ret := m.Called(ctx, repoPath, ref, before)
	return ret.String(0), ret.Error(1)
}

// Diff implements the GitClient interface.
func (m *MockGitClient) Diff(ctx context.Context, repoPath string, from, to string) (string, error) {
	ret := m.Called(ctx, repoPath, from, to)
	return ret.String(0), ret.Error(1)
}

// CommitSubjects implements the GitClient interface.
func (m *MockGitClient) CommitSubjects(ctx context.Context, repoPath string, from, to string) ([]string, error) {
	ret := m.Called(ctx, repoPath, from, to)
	subjects, _ := ret.Get(0).([]string)
	return subjects, ret.Error(1)
}

// RemoteURLs implements the RemoteLister interface.
func (m *MockGitClient) RemoteURLs(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	remotes, _ := ret.Get(0).([]string)
	return remotes, ret.Error(1)
}
