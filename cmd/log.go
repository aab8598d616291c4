package cmd

import (
	"github.com/huangsam/teamspot/core"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/spf13/cobra"
)

// logCmd dumps parsed log entries.
var logCmd = &cobra.Command{
	Use:   "log [repo-path]",
	Short: "Print the parsed Git log as JSON.",
	Long: `Print the entries the log parser produces, after rename notation is
resolved and limits are applied. Useful for debugging scopes and teams.

Examples:
  # The last 10 commits
  teamspot log --limit-commits 10`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLog(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot print git log", err)
		}
	},
}
