package schema

import "time"

// AnalysisRunRecord represents a row from the locscore_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID     int64
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	LocationsTotal int32
	Generation     string
	Source         string
	ConfigParams   *string
}

// LocationScoreRecord represents a row from the locscore_location_scores table.
type LocationScoreRecord struct {
	AnalysisID     int64
	Location       string
	Month          string
	RecordDate     time.Time
	OverallScore   int32
	Tier           string
	Rating         string
	Rank           int32
	CategoryScores string // JSON object of category -> score
}
