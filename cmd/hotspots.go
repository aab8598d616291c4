package cmd

import (
	"github.com/huangsam/teamspot/core"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/spf13/cobra"
)

// hotspotsCmd ranks files by change frequency and complexity.
var hotspotsCmd = &cobra.Command{
	Use:   "hotspots [repo-path]",
	Short: "Show files that change often and are complex.",
	Long: `Rank the files of the repository by how often they are committed to,
multiplied by how complex they currently are.

Scores are normalized so the top file scores 100. Complexity is measured
on the working tree with one of two metrics:
- length: number of lines
- mccabe: 1 + number of decision points (if, for, while, case, catch, &&, ||, ?)

Examples:
  # Top hotspots by length
  teamspot hotspots

  # Only serious hotspots inside one module
  teamspot hotspots --metric mccabe --min-score 60 --module booking/

  # Export for further analysis
  teamspot hotspots --output parquet --output-file hotspots.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHotspots(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run hotspot analysis", err)
		}
	},
}

// hotspotsAggregatedCmd counts hotspots per scope.
var hotspotsAggregatedCmd = &cobra.Command{
	Use:   "aggregated [repo-path]",
	Short: "Count hotspot files per scope.",
	Long: `Count, for every configured scope, the files whose hotspot score is at
least --min-score. Scopes are sorted by that count.

Examples:
  # Which scopes hold the most files scoring 50 or more
  teamspot hotspots aggregated --min-score 50`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAggregatedHotspots(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run aggregated hotspot analysis", err)
		}
	},
}
