// Package parquet provides row types and writers for exporting locscore
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/locscore/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun maps to the locscore_analysis_runs table.
type AnalysisRun struct {
	AnalysisID     int64      `parquet:"analysis_id,snappy"`
	StartTime      time.Time  `parquet:"start_time,snappy"`
	EndTime        *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs  *int32     `parquet:"run_duration_ms,optional,snappy"`
	LocationsTotal int32      `parquet:"locations_total,snappy"`
	Generation     string     `parquet:"generation,snappy"`
	Source         string     `parquet:"source,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// LocationScore maps to the locscore_location_scores table.
type LocationScore struct {
	AnalysisID   int64     `parquet:"analysis_id,snappy"`
	Location     string    `parquet:"location,snappy"`
	Month        string    `parquet:"month,snappy"`
	RecordDate   time.Time `parquet:"record_date,snappy"`
	OverallScore int32     `parquet:"overall_score,snappy"`
	Tier         string    `parquet:"tier,snappy"`
	Rating       string    `parquet:"rating,snappy"`
	Rank         int32     `parquet:"rank,snappy"`

	// CategoryScores is a JSON object of category -> score
	CategoryScores string `parquet:"category_scores,snappy"`
}

// RankedRow is one ranked location of a snapshot or rolling average.
type RankedRow struct {
	Rank           int32    `parquet:"rank,snappy"`
	Location       string   `parquet:"location,snappy"`
	Period         string   `parquet:"period,snappy"` // Month key or "start..end"
	OverallScore   int32    `parquet:"overall_score,snappy"`
	Tier           string   `parquet:"tier,snappy"`
	Rating         string   `parquet:"rating,snappy"`
	CategoryScores string   `parquet:"category_scores,snappy"`
	TrendDirection *string  `parquet:"trend_direction,optional,snappy"`
	TrendChange    *float64 `parquet:"trend_change_percent,optional,snappy"`
}

// Write writes rows to w using the schema inferred from T's struct tags.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteAnalysisRunsParquet writes analysis runs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteLocationScoresParquet writes location scores to a Parquet file.
func WriteLocationScoresParquet(data []LocationScore, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertAnalysisRunRecords converts stored runs for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:     record.AnalysisID,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			LocationsTotal: record.LocationsTotal,
			Generation:     record.Generation,
			Source:         record.Source,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertLocationScoreRecords converts stored location scores for Parquet export.
func ConvertLocationScoreRecords(records []schema.LocationScoreRecord) []LocationScore {
	result := make([]LocationScore, len(records))
	for i, record := range records {
		result[i] = LocationScore{
			AnalysisID:     record.AnalysisID,
			Location:       record.Location,
			Month:          record.Month,
			RecordDate:     record.RecordDate,
			OverallScore:   record.OverallScore,
			Tier:           record.Tier,
			Rating:         record.Rating,
			Rank:           record.Rank,
			CategoryScores: record.CategoryScores,
		}
	}
	return result
}

// ConvertSnapshot converts a ranked snapshot, attaching trends when present.
func ConvertSnapshot(result schema.SnapshotResult) []RankedRow {
	rows := make([]RankedRow, len(result.Records))
	for i, r := range result.Records {
		rows[i] = rankedRow(r, result.Month)
		if trend, ok := result.Trends[r.Location]; ok {
			direction := string(trend.Direction)
			change := trend.ChangePercent
			rows[i].TrendDirection = &direction
			rows[i].TrendChange = &change
		}
	}
	return rows
}

// ConvertRolling converts a ranked rolling average.
func ConvertRolling(result schema.RollingResult) []RankedRow {
	period := result.StartMonth + ".." + result.EndMonth
	rows := make([]RankedRow, len(result.Records))
	for i, r := range result.Records {
		rows[i] = rankedRow(r, period)
	}
	return rows
}

func rankedRow(r schema.ScoredResult, period string) RankedRow {
	categories, _ := json.Marshal(r.GetCategoryScores()) // map[string]int cannot fail
	tier := r.GetTier()
	return RankedRow{
		Rank:           int32(r.GetRank()),
		Location:       r.GetLocation(),
		Period:         period,
		OverallScore:   int32(r.GetOverallScore()),
		Tier:           string(tier),
		Rating:         schema.RatingFor(tier),
		CategoryScores: string(categories),
	}
}
