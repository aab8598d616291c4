// Package core wires the git log parser to its consumers and output writers.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/teamspot/core/agg"
	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/huangsam/teamspot/internal/outwriter"
	"github.com/huangsam/teamspot/schema"
)

// ErrNoScopes is returned by analyses that need at least one scope.
var ErrNoScopes = errors.New("no scopes configured. Add scopes to .teamspot.yaml or pass --scopes")

// ExecutorFunc defines the function signature for executing the analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteTeamAlignment computes the team alignment matrix and prints it.
// It serves as the main entry point for the 'alignment' command.
func ExecuteTeamAlignment(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetTeamAlignmentResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAlignment(result, cfg, duration)
}

// ExecuteHotspots ranks the files of the repository and prints them.
// It serves as the main entry point for the 'hotspots' command.
func ExecuteHotspots(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	hotspots, duration, err := GetHotspotResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHotspots(hotspots, cfg, duration)
}

// ExecuteAggregatedHotspots counts hotspots per scope and prints them.
func ExecuteAggregatedHotspots(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	aggregated, duration, err := GetAggregatedHotspotResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAggregatedHotspots(aggregated, cfg, duration)
}

// ExecuteLog prints the parsed log entries.
func ExecuteLog(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	entries, err := CollectLogEntries(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLogEntries(entries, cfg)
}

// GetTeamAlignmentResults returns the team alignment matrix and the time it took.
func GetTeamAlignmentResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.TeamAlignmentResult, time.Duration, error) {
	return runTeamAlignment(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

// GetHotspotResults returns the filtered hotspots and the time it took.
func GetHotspotResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.FileHotspot, time.Duration, error) {
	return runHotspots(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

// GetAggregatedHotspotResults returns the per-scope hotspot counts and the time it took.
func GetAggregatedHotspotResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.AggregatedHotspot, time.Duration, error) {
	return runAggregatedHotspots(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

// CollectLogEntries returns every entry the parser emits under the configured limits.
func CollectLogEntries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]gitlog.LogEntry, error) {
	return collectLogEntries(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

func runTeamAlignment(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (schema.TeamAlignmentResult, time.Duration, error) {
	start := time.Now()
	logAnalysisHeader(ctx, cfg, "alignment")

	alignment := agg.NewTeamAlignment(cfg.Scopes, cfg.Teams, cfg.ByUser)
	if err := parseLog(ctx, cfg, client, mgr, alignment.Add); err != nil {
		return schema.TeamAlignmentResult{}, 0, err
	}
	return alignment.Result(), time.Since(start), nil
}

func runHotspots(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.FileHotspot, time.Duration, error) {
	start := time.Now()
	logAnalysisHeader(ctx, cfg, "hotspots")

	hotspots, err := buildHotspots(ctx, cfg, client, mgr)
	if err != nil {
		return nil, 0, err
	}
	filtered := agg.FilterHotspots(hotspots, schema.HotspotCriteria{
		Metric:   cfg.Metric,
		MinScore: cfg.MinScore,
		Module:   cfg.Module,
	})
	return filtered, time.Since(start), nil
}

func runAggregatedHotspots(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.AggregatedHotspot, time.Duration, error) {
	if len(cfg.Scopes) == 0 {
		return nil, 0, ErrNoScopes
	}
	start := time.Now()
	logAnalysisHeader(ctx, cfg, "hotspots aggregated")

	hotspots, err := buildHotspots(ctx, cfg, client, mgr)
	if err != nil {
		return nil, 0, err
	}
	return agg.AggregateHotspots(hotspots, cfg.Scopes, cfg.MinScore), time.Since(start), nil
}

func collectLogEntries(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]gitlog.LogEntry, error) {
	var entries []gitlog.LogEntry
	err := parseLog(ctx, cfg, client, mgr, func(entry gitlog.LogEntry) {
		entries = append(entries, entry)
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// buildHotspots folds the log into per-file activity and scores the files at HEAD.
func buildHotspots(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.FileHotspot, error) {
	counter := agg.NewHotspotCounter(cfg.Scopes, cfg.Excludes)
	if err := parseLog(ctx, cfg, client, mgr, counter.Add); err != nil {
		return nil, err
	}
	contract.LogDebug("Counted file activity", map[string]any{"files": counter.Len()})
	return counter.BuildHotspots(ctx, client, cfg.RepoPath, cfg.Metric, cfg.Workers)
}

// parseLog streams the log of the configured repository into fn.
func parseLog(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, fn gitlog.EntryFunc) error {
	if err := gitlog.ParseGitLog(ctx, NewLogSource(cfg, client, mgr), cfg.Limits, fn); err != nil {
		return fmt.Errorf("failed to parse git log: %w", err)
	}
	return nil
}
