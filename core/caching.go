package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/internal/contract"
)

// currentCacheVersion defines the version of the cached log payload
const currentCacheVersion = 1

// cacheTTL is how long a cached log stays fresh.
const cacheTTL = 7 * 24 * time.Hour

// logSource loads raw git logs, consulting the log cache when one is configured.
type logSource struct {
	cfg    *contract.Config
	client contract.GitClient
	mgr    contract.CacheManager
}

var _ gitlog.LogSource = &logSource{} // Compile-time check

// NewLogSource returns a LogSource for the repository and window in cfg.
// A nil manager or a manager without a log store always reads from git.
func NewLogSource(cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) gitlog.LogSource {
	return &logSource{cfg: cfg, client: client, mgr: mgr}
}

// LoadCachedLog implements the gitlog.LogSource interface.
func (s *logSource) LoadCachedLog(ctx context.Context) (string, error) {
	var store contract.CacheStore
	if s.mgr != nil {
		store = s.mgr.GetLogStore()
	}
	if store == nil {
		// Fallback to direct computation
		return s.fetch(ctx)
	}

	key := s.cacheKey(ctx)
	if text, ok := checkCacheHit(store, key); ok {
		contract.LogDebug("Log cache hit", map[string]any{"repo": s.cfg.RepoPath})
		return text, nil
	}
	return s.computeAndStore(ctx, store, key)
}

// fetch asks git for the activity log of the configured window.
func (s *logSource) fetch(ctx context.Context) (string, error) {
	out, err := s.client.GetActivityLog(ctx, s.cfg.RepoPath, s.cfg.GetAnalysisStartTime(), s.cfg.GetAnalysisEndTime())
	if err != nil {
		return "", fmt.Errorf("failed to get activity log: %w", err)
	}
	return string(out), nil
}

// checkCacheHit returns the cached log when it has the current version and is fresh.
func checkCacheHit(store contract.CacheStore, key string) (string, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return "", false // Cache miss
	}
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return "", false // Stale or version mismatch
	}
	return string(data), true
}

// computeAndStore fetches the log and stores it. A failed write is not fatal.
func (s *logSource) computeAndStore(ctx context.Context, store contract.CacheStore, key string) (string, error) {
	text, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	if err := store.Set(key, []byte(text), currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to write log cache", err)
	}
	return text, nil
}

// cacheKey identifies a log by repository, HEAD and analysis window.
func (s *logSource) cacheKey(ctx context.Context) string {
	// Include repo hash to invalidate cache when repository state changes
	repoHash, err := s.client.GetRepoHash(ctx, s.cfg.RepoPath)
	if err != nil {
		repoHash = ""
	}

	key := fmt.Sprintf("%s:%d:%d:%s",
		s.cfg.RepoPath,
		s.cfg.GetAnalysisStartTime().Unix(),
		s.cfg.GetAnalysisEndTime().Unix(),
		repoHash,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
