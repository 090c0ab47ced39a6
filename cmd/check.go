package cmd

import (
	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD alert gating.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail when any location is at critical alert level",
	Long: `Classify every location as critical, warning or ok and exit non-zero on any critical one.

A location is critical when its overall score or any category score falls below
the critical thresholds, and warning below the warning thresholds. Thresholds
come from the alerts section of .locscore.yaml.

Use cases:
- Scheduled jobs that page when a location degrades
- Gating a data publication on network health

Examples:
  # Check the latest month
  locscore check

  # Check a specific month against a published sheet
  locscore check --data-url sheet.csv --month 2024-05`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Alert check failed", err)
		}
	},
}
