package cmd

import (
	"github.com/huangsam/teamspot/core"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/spf13/cobra"
)

// alignmentCmd shows how changes are spread across teams and scopes.
var alignmentCmd = &cobra.Command{
	Use:   "alignment [repo-path]",
	Short: "Show which teams change which scopes.",
	Long: `Read Git history and sum the changed lines (added + removed) of every
scope, grouped by the team of each commit author.

Teams are declared in .teamspot.yaml. Authors that belong to no team are
reported under "unknown", which makes unowned work easy to spot:

  scopes:
    - booking
    - checkin
  teams:
    booking: ["John Doe"]
    checkin: ["Jane Doe"]

Examples:
  # Alignment over the last 6 months
  teamspot alignment --limit-months 6

  # Group by author instead of team
  teamspot alignment --by-user

  # Export the matrix for a spreadsheet
  teamspot alignment --output csv --output-file alignment.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTeamAlignment(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run team alignment", err)
		}
	},
}
