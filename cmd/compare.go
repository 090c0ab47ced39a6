package cmd

import (
	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd compares location scores between two months.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare location scores between two months",
	Long: `Compare every location's overall and category scores between a base and a target month.

Results are sorted by the size of the overall change, largest first. Each row shows
the score delta, the tier change and whether the location is new, inactive or
active in both months. The summary reports the net delta and how many locations
improved or declined.

By default the target is the latest month and the base is the month before it.

Examples:
  # Latest month against the previous one
  locscore compare

  # Quarter over quarter
  locscore compare --base-month 2024-01 --target-month 2024-04

  # Machine-readable output
  locscore compare --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compare months", err)
		}
	},
}
