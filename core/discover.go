package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
)

// gitDirName marks a working tree.
const gitDirName = ".git"

// DiscoverRepositories walks root and returns every git working tree found beneath it,
// root included, in lexical walk order. When filter is not empty, only repositories with
// a remote whose name or URL contains filter (ignoring case) are kept.
func DiscoverRepositories(ctx context.Context, root, filter string, lister contract.RemoteLister) ([]schema.RepoInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", root, err)
	}

	seen := set.New[string](16)
	var paths []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			contract.LogDebug("skipping unreadable %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == gitDirName {
			if repo := filepath.Dir(path); seen.Insert(repo) {
				paths = append(paths, repo)
			}
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for repositories: %w", root, err)
	}

	repos := make([]schema.RepoInfo, 0, len(paths))
	for _, path := range paths {
		remotes, err := lister.RemoteURLs(ctx, path)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot list remotes of %s", path), err)
			if filter != "" {
				continue
			}
		}
		if !remoteMatches(remotes, filter) {
			contract.LogDebug("skipping %s: no remote matches %q", path, filter)
			continue
		}
		repos = append(repos, schema.RepoInfo{Path: path, Remotes: remotes})
	}
	return repos, nil
}

// remoteMatches reports whether any remote entry contains filter, ignoring case.
// An empty filter matches everything.
func remoteMatches(remotes []string, filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for _, remote := range remotes {
		if strings.Contains(strings.ToLower(remote), needle) {
			return true
		}
	}
	return false
}

// isDirectory reports whether path exists and is a directory.
func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
