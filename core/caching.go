package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/huangsam/diffeffort/internal/contract"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cachedDiff returns the diff between two commits, going through the diff cache when one
// is configured. A diff between two fixed commits never changes, so entries do not expire.
func cachedDiff(ctx context.Context, client contract.GitClient, store contract.CacheStore, repo, from, to string) (string, error) {
	if store == nil {
		return client.Diff(ctx, repo, from, to)
	}

	key := diffCacheKey(repo, from, to)

	if diff, ok := checkCacheHit(store, key); ok {
		contract.LogDebug("diff cache hit for %s %s..%s", repo, shortHash(from), shortHash(to))
		return diff, nil
	}

	return computeAndStore(ctx, client, store, key, repo, from, to)
}

// checkCacheHit attempts to retrieve and validate a cached diff
func checkCacheHit(store contract.CacheStore, key string) (string, bool) {
	data, version, _, err := store.Get(key)
	if err != nil {
		return "", false // Cache miss
	}
	if version != currentCacheVersion {
		return "", false // Written by an older layout
	}
	return string(data), true
}

// computeAndStore fetches the diff and stores it in cache
func computeAndStore(ctx context.Context, client contract.GitClient, store contract.CacheStore, key, repo, from, to string) (string, error) {
	diff, err := client.Diff(ctx, repo, from, to)
	if err != nil {
		return "", err
	}

	if err := store.Set(key, []byte(diff), currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Cannot write diff cache entry", err)
	}

	return diff, nil
}

// diffCacheKey creates a unique key for a diff between two commits of a repository
func diffCacheKey(repo, from, to string) string {
	key := fmt.Sprintf("%s:%s:%s", repo, from, to)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
