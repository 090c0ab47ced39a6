package cmd

import (
	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/spf13/cobra"
)

// snapshotCmd ranks every location for one month.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Rank locations by overall score for a single month",
	Long: `Score every location for one month and rank them by overall score.

Each row shows the overall score, the performance rating, the score of every
category and the trend into that month. The latest month is used unless
--month is given.

Examples:
  # Latest month from the built-in sample data
  locscore snapshot

  # A specific month from a published sheet
  locscore snapshot --data-url "https://docs.google.com/.../export?format=csv" --month 2024-03

  # Export the full ranking to CSV
  locscore snapshot --limit 1000 --output csv --output-file snapshot.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshot(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build snapshot", err)
		}
	},
}

// rollingCmd averages location scores over the most recent months.
var rollingCmd = &cobra.Command{
	Use:   "rolling",
	Short: "Rank locations by their average score over recent months",
	Long: `Average each location's category and overall scores over a rolling window.

The window covers the --months most recent months ending at --month (latest by
default). Locations missing from some months are averaged over the months they
appear in, and the output shows how many months each one had.

Examples:
  # Three-month rolling average (default)
  locscore rolling

  # Six months ending in June
  locscore rolling --months 6 --month 2024-06`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRolling(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build rolling average", err)
		}
	},
}

// monthsCmd lists the months present in the data.
var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the months available in the data",
	Long: `List every month key in the data together with its location count.

Use this to pick values for --month, --base-month and --target-month.

Examples:
  locscore months
  locscore months --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMonths(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list months", err)
		}
	},
}
