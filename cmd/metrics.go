package cmd

import (
	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the active scoring schema.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the scoring schema: categories, metrics, weights and targets",
	Long: `Show how scores are computed.

Lists every category with its weight, and every metric with its weight,
direction and target. Also prints the normalization and overall formulas
and the tier thresholds.

No data is loaded - this is purely informational.

Examples:
  # Built-in schema
  locscore metrics

  # A custom schema with weight overrides from the config file
  locscore metrics --schema-file network.yaml --config .locscore.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
