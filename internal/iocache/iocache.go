// Package iocache persists git diffs and report history across runs.
package iocache

import (
	"sync"

	"github.com/huangsam/diffeffort/internal/contract"
)

// CacheStoreManager manages the diff cache and the history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	diffs        contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetDiffStore returns the diff CacheStore.
func (mgr *CacheStoreManager) GetDiffStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.diffs
}

// GetHistoryStore returns the run HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
