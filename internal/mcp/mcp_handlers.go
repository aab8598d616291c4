package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/teamspot/core"
	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/huangsam/teamspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyCommonArgs copies the repository and limit arguments onto cfg.
func applyCommonArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	limits := gitlog.Limits{
		LimitCommits: request.GetInt("limit_commits", cfg.Limits.LimitCommits),
		LimitMonths:  request.GetInt("limit_months", cfg.Limits.LimitMonths),
	}
	if err := limits.Validate(); err != nil {
		return err
	}
	cfg.Limits = limits
	return nil
}

// applyHotspotArgs copies the metric and score arguments onto cfg.
func applyHotspotArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if m := request.GetString("metric", ""); m != "" {
		metric := schema.ComplexityMetric(strings.ToLower(m))
		if _, ok := schema.ValidComplexityMetrics[metric]; !ok {
			return fmt.Errorf("invalid metric '%s'. must be length, mccabe", m)
		}
		cfg.Metric = metric
	}
	minScore := request.GetFloat("min_score", cfg.MinScore)
	if minScore < 0 || minScore > 100 {
		return fmt.Errorf("min_score must be between 0 and 100 (received %.2f)", minScore)
	}
	cfg.MinScore = minScore
	return nil
}

// toolResultJSON renders data as indented JSON text.
func toolResultJSON(data any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetTeamAlignment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.ByUser = request.GetBool("by_user", cfg.ByUser)

	result, _, err := core.GetTeamAlignmentResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return toolResultJSON(result), nil
}

func (h *toolHandler) handleGetHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if err := applyHotspotArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if m := request.GetString("module", ""); m != "" {
		cfg.Module = strings.TrimPrefix(m, "./")
	}

	hotspots, _, err := core.GetHotspotResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return toolResultJSON(schema.EnrichHotspots(hotspots)), nil
}

func (h *toolHandler) handleGetAggregatedHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommonArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if err := applyHotspotArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	aggregated, _, err := core.GetAggregatedHotspotResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return toolResultJSON(aggregated), nil
}
