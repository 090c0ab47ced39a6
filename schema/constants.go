package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the status of a location between two months.
	Status string

	// Tier represents one of the five ordered performance bands.
	Tier string

	// TrendDirection represents the direction of a location's score movement.
	TrendDirection string

	// DataSource represents where the rows of a dataset came from.
	DataSource string

	// DatabaseBackend represents the database backend for caching and run tracking.
	DatabaseBackend string

	// AlertLevel represents the alert state of a location.
	AlertLevel string

	// TrendProviderKind selects the trend provider implementation.
	TrendProviderKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All status supported.
const (
	NewStatus      Status = "new"
	ActiveStatus   Status = "active"
	InactiveStatus Status = "inactive"
	UnknownStatus  Status = "unknown"
)

// Performance tiers from best to worst.
const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierAverage   Tier = "average"
	TierPoor      Tier = "poor"
	TierCritical  Tier = "critical"
)

// Trend directions.
const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// Dataset sources.
const (
	SourceLive   DataSource = "live"
	SourceFile   DataSource = "file"
	SourceSample DataSource = "sample"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Alert levels.
const (
	AlertCritical AlertLevel = "critical"
	AlertWarning  AlertLevel = "warning"
	AlertOK       AlertLevel = "ok"
)

// Trend provider kinds.
const (
	IndexTrends  TrendProviderKind = "index" // default
	RandomTrends TrendProviderKind = "random"
	NoTrends     TrendProviderKind = "none"
)

// AllTiers lists tiers from best to worst.
var AllTiers = []Tier{TierExcellent, TierGood, TierAverage, TierPoor, TierCritical}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidTrendProviders lists all valid trend provider kinds.
var ValidTrendProviders = map[TrendProviderKind]struct{}{
	IndexTrends:  {},
	RandomTrends: {},
	NoTrends:     {},
}

// tierRatings maps each tier to its fixed rating label.
var tierRatings = map[Tier]string{
	TierExcellent: "Outstanding Performance",
	TierGood:      "Above Average Performance",
	TierAverage:   "Meets Expectations",
	TierPoor:      "Below Expectations",
	TierCritical:  "Needs Immediate Attention",
}

// RatingFor returns the human-readable rating label for a tier.
func RatingFor(t Tier) string {
	if r, ok := tierRatings[t]; ok {
		return r
	}
	return tierRatings[TierCritical]
}
