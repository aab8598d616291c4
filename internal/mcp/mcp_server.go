// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/teamspot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Teamspot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Teamspot Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_team_alignment ---
	s.AddTool(mcp.NewTool("get_team_alignment",
		mcp.WithDescription("Analyze git history to show how many changed lines each team (or author) contributed to each scope."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithBoolean("by_user", mcp.Description("Group changes by author instead of by team.")),
		mcp.WithNumber("limit_commits", mcp.Description("Only read the most recent N commits (0 means all).")),
		mcp.WithNumber("limit_months", mcp.Description("Only read commits newer than N months (0 means all).")),
	), h.handleGetTeamAlignment)

	// --- 2. Tool: get_hotspots ---
	s.AddTool(mcp.NewTool("get_hotspots",
		mcp.WithDescription("Rank files by commit frequency multiplied by complexity."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("metric", mcp.Description("Complexity metric (length, mccabe). Defaults to 'length'."), mcp.Enum("length", "mccabe")),
		mcp.WithNumber("min_score", mcp.Description("Only return files scoring at least this value (0-100).")),
		mcp.WithString("module", mcp.Description("Only return files under this path prefix.")),
		mcp.WithNumber("limit_commits", mcp.Description("Only read the most recent N commits (0 means all).")),
		mcp.WithNumber("limit_months", mcp.Description("Only read commits newer than N months (0 means all).")),
	), h.handleGetHotspots)

	// --- 3. Tool: get_aggregated_hotspots ---
	s.AddTool(mcp.NewTool("get_aggregated_hotspots",
		mcp.WithDescription("Count hotspot files per configured scope."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("metric", mcp.Description("Complexity metric (length, mccabe)."), mcp.Enum("length", "mccabe")),
		mcp.WithNumber("min_score", mcp.Description("Minimum score for a file to count as a hotspot (0-100).")),
		mcp.WithNumber("limit_commits", mcp.Description("Only read the most recent N commits (0 means all).")),
		mcp.WithNumber("limit_months", mcp.Description("Only read commits newer than N months (0 means all).")),
	), h.handleGetAggregatedHotspots)

	return s
}

// StartMCPServer starts the Teamspot MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
