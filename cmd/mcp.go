package cmd

import (
	"github.com/huangsam/teamspot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the Teamspot MCP server",
	Long: `Launch an MCP server over stdio so that AI agents can run team alignment
and hotspot analysis via standard tools:
- get_team_alignment
- get_hotspots
- get_aggregated_hotspots`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Headers are suppressed by the tool handlers since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
