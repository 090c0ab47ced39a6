package cmd

import (
	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/spf13/cobra"
)

// locationCmd drills into one location.
var locationCmd = &cobra.Command{
	Use:   "location <name>",
	Short: "Show the score breakdown, history and improvement actions of one location",
	Long: `Drill into a single location for one month.

Shows:
- Overall score, tier, rating and rank
- Every metric's raw value, target and normalized score
- Trend and score history
- Alert level with its reasons
- Improvement actions for the weakest categories

The name match is case-insensitive.

Examples:
  locscore location "Bronx Clinic"
  locscore location "bronx clinic" --month 2024-02 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteLocation(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot describe location", err)
		}
	},
}
