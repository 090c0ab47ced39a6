// Package cmd defines the command-line interface for locscore.
package cmd

import (
	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(rollingCmd)
	rootCmd.AddCommand(monthsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(locationCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data-url", "", "Monthly metrics sheet: http(s) CSV export URL or local CSV path (empty = sample data)")
	rootCmd.PersistentFlags().String("benchmark-url", "", "Benchmark sheet: http(s) CSV export URL or local CSV path")
	rootCmd.PersistentFlags().String("sample-clinics", "", "Comma-separated location names for sample data")
	rootCmd.PersistentFlags().Int("sample-months", contract.DefaultSampleMonths, "Number of months of sample data")
	rootCmd.PersistentFlags().Int64("seed", 0, "Seed for sample data and random trends (0 = time-seeded)")
	rootCmd.PersistentFlags().String("trend-provider", string(schema.IndexTrends), "Trend provider: index or random or none")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("month", "", "Month to score in YYYY-MM format (empty = latest)")
	rootCmd.PersistentFlags().Int("months", contract.DefaultMonths, "Number of months in the rolling window")
	rootCmd.PersistentFlags().String("schema-file", "", "YAML scoring schema (empty = built-in schema)")
	rootCmd.PersistentFlags().Bool("strict-schema", false, "Reject schemas with missing directions or unbalanced weights")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.LogFormatConsole, "Log format: console or json")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long a fetched sheet stays fresh in the cache")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("base-month", "", "Base month in YYYY-MM format (empty = month before target)")
	compareCmd.Flags().String("target-month", "", "Target month in YYYY-MM format (empty = latest)")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().Bool("rolling", false, "Report over the rolling window instead of a single month")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "HTTP listen address")
	serveCmd.Flags().String("refresh", contract.DefaultRefresh.String(), "Dataset refresh interval (0 disables scheduled refreshes)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
