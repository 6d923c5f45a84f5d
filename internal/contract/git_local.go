package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command against repoPath and returns its stdout.
// The working directory of the process is never changed.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// BranchExists implements the GitClient interface.
func (c *LocalGitClient) BranchExists(ctx context.Context, repoPath string, branch string) (bool, error) {
	out, err := c.Run(ctx, repoPath, "branch", "--list", branch)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// RevBefore implements the GitClient interface.
func (c *LocalGitClient) RevBefore(ctx context.Context, repoPath string, ref string, before string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-list", "-n", "1", "--before="+before, ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Diff implements the GitClient interface.
func (c *LocalGitClient) Diff(ctx context.Context, repoPath string, from, to string) (string, error) {
	out, err := c.Run(ctx, repoPath, "diff", from, to)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CommitSubjects implements the GitClient interface.
func (c *LocalGitClient) CommitSubjects(ctx context.Context, repoPath string, from, to string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "log", "--pretty=format:%s", from+".."+to)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return strings.Split(strings.TrimRight(string(out), "\n"), "\n"), nil
}

// RemoteURLs implements the RemoteLister interface using 'git remote -v'.
// Each remote appears once, formatted as "name url".
func (c *LocalGitClient) RemoteURLs(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "remote", "-v")
	if err != nil {
		return nil, err
	}
	var remotes []string
	seen := make(map[string]bool)
	for line := range strings.SplitSeq(strings.TrimSpace(string(out)), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		entry := fields[0] + " " + fields[1]
		if !seen[entry] {
			seen[entry] = true
			remotes = append(remotes, entry)
		}
	}
	return remotes, nil
}
