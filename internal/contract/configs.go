package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/locscore/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
	DefaultSampleMonths = 3
	MaxSampleMonths     = 36
	DefaultMonths       = 3
	DefaultCacheTTL     = 5 * time.Minute
	DefaultRefresh      = 5 * time.Minute
	DefaultServeAddr    = ":8080"
	DefaultLogLevel     = "warn"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ThresholdsRawInput holds tier threshold definitions from the YAML config file.
type ThresholdsRawInput struct {
	Excellent *float64 `mapstructure:"excellent"`
	Good      *float64 `mapstructure:"good"`
	Average   *float64 `mapstructure:"average"`
	Poor      *float64 `mapstructure:"poor"`
}

// AlertsRawInput holds alert threshold definitions from the YAML config file.
type AlertsRawInput struct {
	CriticalOverall  *float64 `mapstructure:"critical_overall"`
	CriticalCategory *float64 `mapstructure:"critical_category"`
	WarningOverall   *float64 `mapstructure:"warning_overall"`
	WarningCategory  *float64 `mapstructure:"warning_category"`
	TargetOverall    *float64 `mapstructure:"target_overall"`
	TargetCategory   *float64 `mapstructure:"target_category"`
}

// Config holds the runtime configuration for scoring.
// This struct remains the "final, validated" config.
type Config struct {
	DataURL       string
	BenchmarkURL  string
	SampleClinics []string
	SampleMonths  int
	Seed          int64
	TrendProvider schema.TrendProviderKind

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	Month       string // Explicit month key; empty means latest
	Months      int    // Rolling window size
	BaseMonth   string
	TargetMonth string
	Rolling     bool // Report over the rolling window instead of a snapshot

	SchemaFile   string
	StrictSchema bool
	Schema       *schema.Schema

	TierThresholds  schema.TierThresholds
	AlertThresholds schema.AlertThresholds

	LogLevel  string
	LogFormat string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	ServeAddr       string
	RefreshInterval time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DataURL           string `mapstructure:"data-url"`
	BenchmarkURL      string `mapstructure:"benchmark-url"`
	SampleClinics     string `mapstructure:"sample-clinics"`
	SampleMonths      int    `mapstructure:"sample-months"`
	Seed              int64  `mapstructure:"seed"`
	TrendProvider     string `mapstructure:"trend-provider"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Color             string `mapstructure:"color"`
	Width             int    `mapstructure:"width"`
	Month             string `mapstructure:"month"`
	Months            int    `mapstructure:"months"`
	SchemaFile        string `mapstructure:"schema-file"`
	StrictSchema      bool   `mapstructure:"strict-schema"`
	LogLevel          string `mapstructure:"log-level"`
	LogFormat         string `mapstructure:"log-format"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`

	// --- Fields from compareCmd.Flags() ---
	BaseMonth   string `mapstructure:"base-month"`
	TargetMonth string `mapstructure:"target-month"`

	// --- Fields from reportCmd.Flags() ---
	Rolling bool `mapstructure:"rolling"`

	// --- Fields from serveCmd.Flags() ---
	Addr    string `mapstructure:"addr"`
	Refresh string `mapstructure:"refresh"`

	// --- Category weight overrides from config file ---
	Weights map[string]*float64 `mapstructure:"weights"`

	// --- Tier thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`

	// --- Alert thresholds from config file ---
	Alerts AlertsRawInput `mapstructure:"alerts"`
}

// Clone returns a copy of the Config struct. The schema pointer is shared
// because it is read-only after load.
func (c *Config) Clone() *Config {
	clone := *c
	if c.SampleClinics != nil {
		clone.SampleClinics = make([]string, len(c.SampleClinics))
		copy(clone.SampleClinics, c.SampleClinics)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processIngestion(cfg, input); err != nil {
		return err
	}
	if err := processTimeWindow(cfg, input); err != nil {
		return err
	}
	if err := processScoringSchema(cfg, input); err != nil {
		return err
	}
	if err := processTierThresholds(cfg, input); err != nil {
		return err
	}
	if err := processAlertThresholds(cfg, input); err != nil {
		return err
	}
	if err := processServe(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.StrictSchema = input.StrictSchema
	cfg.SchemaFile = strings.TrimSpace(input.SchemaFile)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Logging ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(input.LogFormat))
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = LogFormatConsole
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format '%s'. must be json, console", input.LogFormat)
	}

	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl %q: %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", ttl)
		}
		cfg.CacheTTL = ttl
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
			return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
		}
		cfg.AnalysisDBConnect = input.AnalysisDBConnect
		if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
			return err
		}

		// Validate that cache and analysis use different SQLite files
		if cfg.CacheBackend == cfg.AnalysisBackend && cfg.CacheBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			analysisDBPath := cfg.AnalysisDBConnect
			if analysisDBPath == "" {
				analysisDBPath = GetAnalysisDBFilePath()
			}
			if cacheDBPath == analysisDBPath {
				return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// processIngestion validates the data sources and the sample generator settings.
func processIngestion(cfg *Config, input *ConfigRawInput) error {
	cfg.DataURL = strings.TrimSpace(input.DataURL)
	cfg.BenchmarkURL = strings.TrimSpace(input.BenchmarkURL)
	for _, src := range []string{cfg.DataURL, cfg.BenchmarkURL} {
		if err := validateSourceLocation(src); err != nil {
			return err
		}
	}
	if cfg.DataURL == "" && cfg.BenchmarkURL != "" {
		return fmt.Errorf("benchmark-url requires data-url")
	}

	cfg.SampleClinics = SplitList(input.SampleClinics)
	if len(cfg.SampleClinics) == 0 {
		cfg.SampleClinics = append([]string(nil), schema.SampleClinics...)
	}
	if input.SampleMonths < 1 || input.SampleMonths > MaxSampleMonths {
		return fmt.Errorf("sample-months must be between 1 and %d (received %d)", MaxSampleMonths, input.SampleMonths)
	}
	cfg.SampleMonths = input.SampleMonths
	cfg.Seed = input.Seed

	cfg.TrendProvider = schema.TrendProviderKind(strings.ToLower(input.TrendProvider))
	if cfg.TrendProvider == "" {
		cfg.TrendProvider = schema.IndexTrends
	}
	if _, ok := schema.ValidTrendProviders[cfg.TrendProvider]; !ok {
		return fmt.Errorf("invalid trend provider '%s'. must be index, random, none", input.TrendProvider)
	}
	return nil
}

// validateSourceLocation accepts an empty value, an http(s) URL or a local path.
func validateSourceLocation(src string) error {
	if src == "" {
		return nil
	}
	if strings.Contains(src, "://") {
		u, err := url.Parse(src)
		if err != nil {
			return fmt.Errorf("invalid source URL %q: %w", src, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("unsupported source scheme %q in %q", u.Scheme, src)
		}
		if u.Host == "" {
			return fmt.Errorf("source URL %q has no host", src)
		}
	}
	return nil
}

// processTimeWindow validates month keys and the rolling window size.
func processTimeWindow(cfg *Config, input *ConfigRawInput) error {
	cfg.Month = strings.TrimSpace(input.Month)
	cfg.BaseMonth = strings.TrimSpace(input.BaseMonth)
	cfg.TargetMonth = strings.TrimSpace(input.TargetMonth)
	for _, m := range []string{cfg.Month, cfg.BaseMonth, cfg.TargetMonth} {
		if m == "" {
			continue
		}
		if err := ValidateMonthKey(m); err != nil {
			return err
		}
	}
	if cfg.BaseMonth != "" && cfg.TargetMonth != "" && cfg.BaseMonth == cfg.TargetMonth {
		return fmt.Errorf("base-month and target-month must differ (both %s)", cfg.BaseMonth)
	}

	if input.Months < 1 {
		return fmt.Errorf("months must be at least 1 (received %d)", input.Months)
	}
	cfg.Months = input.Months
	cfg.Rolling = input.Rolling
	return nil
}

// processScoringSchema loads the scoring schema and applies category weight overrides.
func processScoringSchema(cfg *Config, input *ConfigRawInput) error {
	if cfg.SchemaFile != "" {
		s, err := LoadScoringSchema(cfg.SchemaFile, cfg.StrictSchema)
		if err != nil {
			return err
		}
		cfg.Schema = s
	} else {
		cfg.Schema = schema.DefaultSchema()
	}
	return ApplyCategoryWeights(cfg.Schema, input.Weights)
}

// processTierThresholds merges config file tier thresholds over the defaults.
func processTierThresholds(cfg *Config, input *ConfigRawInput) error {
	th := schema.DefaultTierThresholds()
	override(&th.Excellent, input.Thresholds.Excellent)
	override(&th.Good, input.Thresholds.Good)
	override(&th.Average, input.Thresholds.Average)
	override(&th.Poor, input.Thresholds.Poor)

	bands := []struct {
		name  string
		value float64
	}{
		{"excellent", th.Excellent},
		{"good", th.Good},
		{"average", th.Average},
		{"poor", th.Poor},
	}
	for i, b := range bands {
		if b.value < 0 || b.value > 100 {
			return fmt.Errorf("tier threshold %s must be between 0 and 100 (received %.2f)", b.name, b.value)
		}
		if i > 0 && b.value >= bands[i-1].value {
			return fmt.Errorf("tier threshold %s (%.2f) must be below %s (%.2f)", b.name, b.value, bands[i-1].name, bands[i-1].value)
		}
	}
	cfg.TierThresholds = th
	return nil
}

// processAlertThresholds merges config file alert thresholds over the defaults.
func processAlertThresholds(cfg *Config, input *ConfigRawInput) error {
	a := schema.DefaultAlertThresholds()
	override(&a.CriticalOverall, input.Alerts.CriticalOverall)
	override(&a.CriticalCategory, input.Alerts.CriticalCategory)
	override(&a.WarningOverall, input.Alerts.WarningOverall)
	override(&a.WarningCategory, input.Alerts.WarningCategory)
	override(&a.TargetOverall, input.Alerts.TargetOverall)
	override(&a.TargetCategory, input.Alerts.TargetCategory)

	for name, v := range map[string]float64{
		"critical_overall":  a.CriticalOverall,
		"critical_category": a.CriticalCategory,
		"warning_overall":   a.WarningOverall,
		"warning_category":  a.WarningCategory,
		"target_overall":    a.TargetOverall,
		"target_category":   a.TargetCategory,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("alert threshold %s must be between 0 and 100 (received %.2f)", name, v)
		}
	}
	if a.CriticalOverall > a.WarningOverall {
		return fmt.Errorf("critical_overall (%.2f) cannot exceed warning_overall (%.2f)", a.CriticalOverall, a.WarningOverall)
	}
	if a.CriticalCategory > a.WarningCategory {
		return fmt.Errorf("critical_category (%.2f) cannot exceed warning_category (%.2f)", a.CriticalCategory, a.WarningCategory)
	}
	cfg.AlertThresholds = a
	return nil
}

// processServe handles the HTTP listen address and refresh interval.
func processServe(cfg *Config, input *ConfigRawInput) error {
	cfg.ServeAddr = strings.TrimSpace(input.Addr)
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}
	cfg.RefreshInterval = DefaultRefresh
	if input.Refresh != "" {
		d, err := time.ParseDuration(input.Refresh)
		if err != nil {
			return fmt.Errorf("invalid refresh interval %q: %w", input.Refresh, err)
		}
		if d != 0 && d < time.Minute {
			return fmt.Errorf("refresh interval must be at least 1m or 0 to disable (received %s)", d)
		}
		cfg.RefreshInterval = d
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

func override(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
