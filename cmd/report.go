package cmd

import (
	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd builds the network analysis report.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the network analysis report",
	Long: `Build a full analysis report across all locations.

Sections:
- Network performance summary
- Category performance analysis
- Individual location strengths and weaknesses
- Strategic recommendations
- Risk assessment
- Benchmark gaps

The report covers one month (latest by default), or the rolling window with --rolling.

Examples:
  locscore report
  locscore report --rolling --months 6
  locscore report --output-file report.txt`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}
