package contract

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// GoGitRemoteLister reads remotes straight from the repository config with go-git,
// so discovery does not fork a git process per candidate directory.
type GoGitRemoteLister struct{}

var _ RemoteLister = &GoGitRemoteLister{} // Compile-time check

// NewGoGitRemoteLister creates a new go-git backed remote lister.
func NewGoGitRemoteLister() *GoGitRemoteLister {
	return &GoGitRemoteLister{}
}

// RemoteURLs implements the RemoteLister interface.
func (l *GoGitRemoteLister) RemoteURLs(_ context.Context, repoPath string) ([]string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", repoPath, err)
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to read remotes of %q: %w", repoPath, err)
	}
	var entries []string
	for _, remote := range remotes {
		cfg := remote.Config()
		if len(cfg.URLs) == 0 {
			entries = append(entries, cfg.Name)
			continue
		}
		for _, url := range cfg.URLs {
			entries = append(entries, cfg.Name+" "+url)
		}
	}
	return entries, nil
}
