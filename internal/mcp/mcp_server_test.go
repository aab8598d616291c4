package mcp_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/huangsam/teamspot/internal/contract"
	mcp_internal "github.com/huangsam/teamspot/internal/mcp"
	"github.com/huangsam/teamspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServerConfig() *contract.Config {
	return &contract.Config{
		RepoPath: ".",
		Scopes:   []string{"booking", "checkin"},
		Metric:   schema.LengthMetric,
		Workers:  2,
	}
}

// callTool invokes a registered tool and returns the text of its first content block.
func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func TestMCPServer_Tools(t *testing.T) {
	s := mcp_internal.NewMCPServer(newTestServerConfig(), nil)
	for _, name := range []string{"get_team_alignment", "get_hotspots", "get_aggregated_hotspots"} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
	assert.Nil(t, s.GetTool("get_files_hotspots"))
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantMsg string
	}{
		{"hotspots invalid metric", "get_hotspots", map[string]any{"metric": "halstead"}, "invalid metric"},
		{"hotspots min score too high", "get_hotspots", map[string]any{"min_score": 150.0}, "min_score must be between 0 and 100"},
		{"aggregated negative min score", "get_aggregated_hotspots", map[string]any{"min_score": -1.0}, "min_score must be between 0 and 100"},
		{"alignment negative commit limit", "get_team_alignment", map[string]any{"limit_commits": -1.0}, "limits must be non-negative"},
		{"hotspots negative month limit", "get_hotspots", map[string]any{"limit_months": -2.0}, "limits must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, text := callTool(t, newTestServerConfig(), tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text, "invalid parameters")
			assert.Contains(t, text, tt.wantMsg)
		})
	}
}

func TestMCPServerHandlers_AnalysisErrors(t *testing.T) {
	missingRepo := filepath.Join(t.TempDir(), "missing")

	t.Run("aggregated without scopes", func(t *testing.T) {
		cfg := newTestServerConfig()
		cfg.Scopes = nil
		res, text := callTool(t, cfg, "get_aggregated_hotspots", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, text, "no scopes configured")
	})

	t.Run("alignment on missing repository", func(t *testing.T) {
		res, text := callTool(t, newTestServerConfig(), "get_team_alignment", map[string]any{"repo_path": missingRepo})
		assert.True(t, res.IsError)
		assert.Contains(t, text, "analysis failed")
	})

	t.Run("hotspots on missing repository", func(t *testing.T) {
		res, text := callTool(t, newTestServerConfig(), "get_hotspots", map[string]any{"repo_path": missingRepo, "metric": "mccabe"})
		assert.True(t, res.IsError)
		assert.Contains(t, text, "analysis failed")
	})
}

func TestMCPServerHandlers_BaseConfigUntouched(t *testing.T) {
	cfg := newTestServerConfig()
	_, _ = callTool(t, cfg, "get_hotspots", map[string]any{
		"repo_path": filepath.Join(t.TempDir(), "missing"),
		"metric":    "mccabe",
		"min_score": 40.0,
	})

	assert.Equal(t, ".", cfg.RepoPath)
	assert.Equal(t, schema.LengthMetric, cfg.Metric)
	assert.Zero(t, cfg.MinScore)
}
