// Package iocache caches expensive I/O calls, mainly raw git logs.
package iocache

import (
	"sync"

	"github.com/huangsam/teamspot/internal/contract"
)

// CacheStoreManager manages the CacheStore instances of the process.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	logs         contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetLogStore returns the git log CacheStore.
func (mgr *CacheStoreManager) GetLogStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.logs
}
