package core

import (
	"testing"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agg(location string, rank, overall, quality, volume int) schema.AggregatedRecord {
	return schema.AggregatedRecord{
		Location:       location,
		Rank:           rank,
		OverallScore:   overall,
		CategoryScores: map[string]int{"quality": quality, "volume": volume},
	}
}

func threeLocations() []schema.AggregatedRecord {
	return []schema.AggregatedRecord{
		agg("North", 1, 90, 96, 80),
		agg("East", 2, 80, 90, 96),
		agg("South", 3, 70, 70, 60),
	}
}

func TestSummarizeNetwork(t *testing.T) {
	summary := SummarizeNetwork(threeLocations())
	assert.InDelta(t, 80.0, summary.AverageScore, 1e-9)
	assert.Equal(t, 70, summary.MinScore)
	assert.Equal(t, 90, summary.MaxScore)
	assert.InDelta(t, 8.2, summary.StdDev, 1e-9)
	assert.Equal(t, "Moderate", summary.Consistency)
	assert.Equal(t, 3, summary.TotalLocations)
	assert.Equal(t, schema.PerformanceDistribution{Excellent: 1, Good: 1, Average: 1}, summary.Distribution)
}

func TestSummarizeNetworkConsistency(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   string
	}{
		{"identical", []int{80, 80}, "High"},
		{"moderate spread", []int{70, 85}, "Moderate"},
		{"wide spread", []int{50, 90}, "Low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []schema.AggregatedRecord
			for i, s := range tt.scores {
				records = append(records, agg("L", i+1, s, s, s))
			}
			assert.Equal(t, tt.want, SummarizeNetwork(records).Consistency)
		})
	}

	empty := SummarizeNetwork([]schema.AggregatedRecord{})
	assert.Equal(t, 0, empty.TotalLocations)
}

func TestAnalyzeCategories(t *testing.T) {
	insights := AnalyzeCategories(threeLocations(), testSchema())
	require.Len(t, insights, 2)

	quality := insights[0]
	assert.Equal(t, "quality", quality.Key)
	assert.InDelta(t, 85.3, quality.Average, 1e-9)
	assert.Equal(t, 26, quality.Gap)
	assert.Equal(t, "North", quality.TopPerformer)
	assert.Equal(t, "South", quality.BottomPerformer)

	volume := insights[1]
	assert.Equal(t, "East", volume.TopPerformer)
	assert.Equal(t, 36, volume.Gap)
}

func TestAnalyzeCategoriesTieGoesToHigherRank(t *testing.T) {
	records := []schema.AggregatedRecord{agg("First", 1, 90, 90, 90), agg("Second", 2, 90, 90, 90)}
	insights := AnalyzeCategories(records, testSchema())
	assert.Equal(t, "First", insights[0].TopPerformer)
	assert.Equal(t, "First", insights[0].BottomPerformer)
	assert.Zero(t, insights[0].Gap)
}

func TestAnalyzeLocations(t *testing.T) {
	trends := map[string]schema.Trend{"East": {Direction: schema.TrendDeclining}}
	insights := AnalyzeLocations(threeLocations(), testSchema(), trends)
	require.Len(t, insights, 3)

	north := insights[0]
	assert.Equal(t, []schema.CategoryScore{{Key: "quality", Name: "Quality", Score: 96}}, north.Strengths)
	assert.Equal(t, []schema.CategoryScore{{Key: "volume", Name: "Volume", Score: 80}}, north.Weaknesses)
	assert.Equal(t, schema.TrendStable, north.Trend)

	east := insights[1]
	assert.Len(t, east.Strengths, 1)
	assert.Empty(t, east.Weaknesses, "90 is neither a strength nor a weakness")
	assert.Equal(t, schema.TrendDeclining, east.Trend)
}

func TestSummarizeTrends(t *testing.T) {
	trends := map[string]schema.Trend{
		"North": {Direction: schema.TrendImproving, ChangePercent: 4},
		"East":  {Direction: schema.TrendStable, ChangePercent: -0.5},
	}
	summary := SummarizeTrends(threeLocations(), trends)
	assert.Equal(t, []string{"North"}, summary.Improving)
	assert.Equal(t, []string{"East"}, summary.Declining)
	assert.Equal(t, 1, summary.Stable)
}

func TestGenerateRecommendations(t *testing.T) {
	records := threeLocations()
	summary := SummarizeNetwork(records)
	categories := AnalyzeCategories(records, testSchema())
	recs := GenerateRecommendations(summary, categories)

	var titles []string
	for _, r := range recs {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{
		"Overall Performance Improvement Needed",
		"Large Performance Gap in Quality",
		"Volume Requires Attention", // average 78.7
		"Large Performance Gap in Volume",
	}, titles)
	assert.Equal(t, "Network average of 80 is below target. Focus on systematic improvements across all locations.", recs[0].Description)
	assert.Equal(t, "26-point gap between North and South suggests inconsistent practices.", recs[1].Description)
}

func TestGenerateRecommendationsCategoryBelowTarget(t *testing.T) {
	categories := []schema.CategoryInsight{{Key: "volume", Name: "Volume", Average: 72.5, Gap: 3}}
	recs := GenerateRecommendations(schema.NetworkSummary{TotalLocations: 2, AverageScore: 90}, categories)
	require.Len(t, recs, 1)
	assert.Equal(t, "Volume Requires Attention", recs[0].Title)
	assert.Equal(t, "Average score of 72.5 indicates systematic issues in volume.", recs[0].Description)
	assert.Contains(t, recs[0].Actions, "Review volume processes")
}

func TestAssessRisks(t *testing.T) {
	trends := map[string]schema.Trend{
		"North": {Direction: schema.TrendDeclining},
		"East":  {Direction: schema.TrendDeclining},
	}
	risks := AssessRisks(threeLocations(), trends)
	require.Len(t, risks, 2)

	assert.Equal(t, "Performance Decline", risks[0].Type)
	assert.Equal(t, "Medium", risks[0].Severity)
	assert.Equal(t, "2 location(s) showing declining performance", risks[0].Message)
	assert.Equal(t, []string{"North", "East"}, risks[0].Locations)

	assert.Equal(t, "Low Performance", risks[1].Type)
	assert.Equal(t, "High", risks[1].Severity)
	assert.Equal(t, []string{"South"}, risks[1].Locations)

	assert.Empty(t, AssessRisks([]schema.AggregatedRecord{agg("A", 1, 95, 95, 95)}, nil))
}

func TestIdentifyBenchmarkGaps(t *testing.T) {
	gaps := IdentifyBenchmarkGaps(schema.NetworkSummary{TotalLocations: 3, AverageScore: 80})
	require.Len(t, gaps, 1)
	assert.InDelta(t, 10.0, gaps[0].Gap, 1e-9)
	assert.InDelta(t, 90.0, gaps[0].Target, 1e-9)

	assert.Empty(t, IdentifyBenchmarkGaps(schema.NetworkSummary{TotalLocations: 3, AverageScore: 92}))
	assert.Empty(t, IdentifyBenchmarkGaps(schema.NetworkSummary{}))
}

func TestBuildReport(t *testing.T) {
	ds := buildTestDataset(
		uniform("A", "2024-02-10", "90"),
		uniform("A", "2024-03-10", "100"),
		uniform("B", "2024-03-10", "80"),
	)
	snapshot, err := BuildSnapshot(ds, "")
	require.NoError(t, err)

	report := BuildReport(snapshot.Month, snapshot.Records, ds.Schema, snapshot.Trends)
	assert.Equal(t, "Location Performance Analysis Report", report.Title)
	assert.Equal(t, "2024-03", report.Period)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, 2, report.Summary.TotalLocations)
	assert.Equal(t, []string{"A"}, report.Trends.Improving)
	require.Len(t, report.Locations, 2)
	assert.Equal(t, "A", report.Locations[0].Location)
	assert.NotNil(t, report.Risks)
	assert.NotNil(t, report.Recommendations)
}

func TestBuildAnalysisReportRolling(t *testing.T) {
	ds := buildTestDataset(
		uniform("A", "2024-02-10", "90"),
		uniform("A", "2024-03-10", "100"),
	)
	report, months, err := BuildAnalysisReport(ds, "", 2, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02", "2024-03"}, months)
	assert.Equal(t, "2024-02 to 2024-03 (2 months)", report.Period)
	assert.Equal(t, 90, report.Locations[0].Score)

	_, _, err = BuildAnalysisReport(ds, "1999-01", 2, false)
	assert.Error(t, err)
}
