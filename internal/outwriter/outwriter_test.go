package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *schema.Schema {
	return &schema.Schema{
		LocationColumn: schema.DefaultLocationColumn,
		DateColumn:     schema.DefaultDateColumn,
		Categories: []schema.CategoryDefinition{
			{Key: "quality", Name: "Quality", Weight: 0.7},
			{Key: "volume", Name: "Volume", Weight: 0.3},
		},
	}
}

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:    output,
		Precision: 1,
		Width:     200,
		Schema:    testSchema(),
	}
}

func testInfo() schema.DatasetInfo {
	return schema.DatasetInfo{
		Generation: "01J0TESTGENERATION",
		BuiltAt:    time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Source:     schema.SourceFile,
		Months:     []string{"2024-02", "2024-03"},
		Locations:  2,
	}
}

func testSnapshot() schema.SnapshotResult {
	return schema.SnapshotResult{
		Month: "2024-03",
		Records: []schema.ScoredRecord{
			{Location: "Bronx", Month: "2024-03", CategoryScores: map[string]int{"quality": 95, "volume": 88}, OverallScore: 93, Tier: schema.TierExcellent, Rating: schema.RatingFor(schema.TierExcellent), Rank: 1},
			{Location: "Queens", Month: "2024-03", CategoryScores: map[string]int{"quality": 70, "volume": 60}, OverallScore: 67, Tier: schema.TierPoor, Rating: schema.RatingFor(schema.TierPoor), Rank: 2},
		},
		Trends: map[string]schema.Trend{
			"Bronx": {Direction: schema.TrendImproving, ChangePercent: 3.3},
		},
	}
}

func readCSV(t *testing.T, s string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSnapshotFormats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSnapshotTo(&buf, testSnapshot(), testInfo(), testConfig(schema.TextOut), 15*time.Millisecond))
		out := buf.String()
		assert.Contains(t, out, "Snapshot for 2024-03 (2 locations)")
		assert.Contains(t, out, "Bronx")
		assert.Contains(t, out, "Excellent")
		assert.Contains(t, out, "↑ +3.3%")
		assert.Contains(t, out, "Poor")
		assert.Contains(t, out, "Showing 2 locations")
		assert.Contains(t, out, "Scored in 15ms. Source: file, generation: 01J0TESTGENERATION")
		assert.NotContains(t, out, "Degraded")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSnapshotTo(&buf, testSnapshot(), testInfo(), testConfig(schema.CSVOut), 0))
		rows := readCSV(t, buf.String())
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Rank", "Clinic", "Overall Score", "Performance Rating", "Quality", "Volume", "Trend Direction", "Trend Change %"}, rows[0])
		assert.Equal(t, []string{"1", "Bronx", "93", "Outstanding Performance", "95", "88", "improving", "3.3"}, rows[1])
		assert.Equal(t, []string{"2", "Queens", "67", "Below Expectations", "70", "60", "stable", "0.0"}, rows[2])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSnapshotTo(&buf, testSnapshot(), testInfo(), testConfig(schema.JSONOut), 0))

		var decoded struct {
			Dataset schema.DatasetInfo    `json:"dataset"`
			Month   string                `json:"month"`
			Records []schema.ScoredRecord `json:"records"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "2024-03", decoded.Month)
		assert.Equal(t, "01J0TESTGENERATION", decoded.Dataset.Generation)
		require.Len(t, decoded.Records, 2)
		assert.Equal(t, 93, decoded.Records[0].OverallScore)
	})
}

func TestWriteSnapshotDegradedBanner(t *testing.T) {
	info := testInfo()
	info.Source = schema.SourceSample
	info.Degraded = true
	info.DegradedReason = "unexpected status 503"

	var buf bytes.Buffer
	require.NoError(t, writeSnapshotTo(&buf, testSnapshot(), info, testConfig(schema.TextOut), 0))
	out := buf.String()
	assert.Contains(t, out, "Degraded data")
	assert.Contains(t, out, "unexpected status 503")
}

func TestWriteRollingFormats(t *testing.T) {
	result := schema.RollingResult{
		Months:         []string{"2024-02", "2024-03"},
		MonthsAveraged: 2,
		StartMonth:     "2024-02",
		EndMonth:       "2024-03",
		Records: []schema.AggregatedRecord{
			{Location: "Bronx", CategoryScores: map[string]int{"quality": 90, "volume": 80}, OverallScore: 87, Tier: schema.TierGood, Rating: schema.RatingFor(schema.TierGood), Rank: 1, MonthsAveraged: 2, MonthsPresent: 1, StartMonth: "2024-03", EndMonth: "2024-03"},
		},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRollingTo(&buf, result, testInfo(), testConfig(schema.TextOut), 0))
		out := buf.String()
		assert.Contains(t, out, "Rolling average over 2 month(s): 2024-02 to 2024-03")
		assert.Contains(t, out, "1/2")
		assert.Contains(t, out, "Good")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRollingTo(&buf, result, testInfo(), testConfig(schema.CSVOut), 0))
		rows := readCSV(t, buf.String())
		require.Len(t, rows, 2)
		assert.Equal(t, "Months Present", rows[0][6])
		assert.Equal(t, []string{"1", "Bronx", "87", "Above Average Performance", "90", "80", "1", "2", "2024-03", "2024-03"}, rows[1])
	})
}

func TestWriteMonthsFormats(t *testing.T) {
	months := []schema.MonthSummary{
		{Month: "2024-02", Locations: 9},
		{Month: "2024-03", Locations: 10, Latest: true},
	}

	var buf bytes.Buffer
	require.NoError(t, writeMonthsTo(&buf, months, testInfo(), testConfig(schema.TextOut), 0))
	assert.Contains(t, buf.String(), "latest")
	assert.Contains(t, buf.String(), "2 month(s) available")

	buf.Reset()
	require.NoError(t, writeMonthsTo(&buf, months, testInfo(), testConfig(schema.CSVOut), 0))
	assert.Equal(t, [][]string{
		{"month", "locations", "latest"},
		{"2024-02", "9", "false"},
		{"2024-03", "10", "true"},
	}, readCSV(t, buf.String()))
}

func testComparison() schema.ComparisonResult {
	return schema.ComparisonResult{
		BaseMonth:   "2024-02",
		TargetMonth: "2024-03",
		Details: []schema.ComparisonDetail{
			{Location: "Bronx", BeforeScore: 78, AfterScore: 86, Delta: 8, CategoryDeltas: map[string]int{"volume": 2, "quality": 10}, BeforeTier: schema.TierAverage, AfterTier: schema.TierGood, Status: schema.ActiveStatus},
			{Location: "Queens", BeforeScore: 0, AfterScore: 72, Delta: 72, Status: schema.NewStatus, AfterTier: schema.TierAverage},
			{Location: "Yonkers", BeforeScore: 65, AfterScore: 0, Delta: -65, Status: schema.InactiveStatus, BeforeTier: schema.TierPoor},
		},
		Summary: schema.ComparisonSummary{
			NetScoreDelta:          15,
			TotalNewLocations:      1,
			TotalInactiveLocations: 1,
			TotalActiveLocations:   1,
			TotalImproved:          1,
			TotalTierChanges:       1,
		},
	}
}

func TestWriteComparisonFormats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeComparisonTo(&buf, testComparison(), testInfo(), testConfig(schema.TextOut), 0))
		out := buf.String()
		assert.Contains(t, out, "Comparing 2024-02 → 2024-03")
		assert.Contains(t, out, "+8 ▲")
		assert.Contains(t, out, "-65 ▼")
		assert.Contains(t, out, "Average → Good")
		assert.Contains(t, out, "Net score delta: 15, Improved: 1, Declined: 0, Tier changes: 1")
		assert.Contains(t, out, "New locations: 1, Inactive locations: 1, Active locations: 1")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeComparisonTo(&buf, testComparison(), testInfo(), testConfig(schema.CSVOut), 0))
		rows := readCSV(t, buf.String())
		require.Len(t, rows, 4)
		assert.Equal(t, []string{"1", "Bronx", "78", "86", "8", "active", "average", "good", "quality=+10|volume=+2"}, rows[1])
		assert.Equal(t, "new", rows[2][5])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeComparisonTo(&buf, testComparison(), testInfo(), testConfig(schema.JSONOut), 0))
		var decoded schema.ComparisonResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, testComparison().Summary, decoded.Summary)
		assert.Len(t, decoded.Details, 3)
	})
}

func TestFormatTierChange(t *testing.T) {
	tests := []struct {
		name     string
		detail   schema.ComparisonDetail
		expected string
	}{
		{"changed", schema.ComparisonDetail{Status: schema.ActiveStatus, BeforeTier: schema.TierPoor, AfterTier: schema.TierAverage}, "Poor → Average"},
		{"unchanged", schema.ComparisonDetail{Status: schema.ActiveStatus, BeforeTier: schema.TierGood, AfterTier: schema.TierGood}, "Good"},
		{"new", schema.ComparisonDetail{Status: schema.NewStatus, AfterTier: schema.TierExcellent}, "Excellent"},
		{"inactive", schema.ComparisonDetail{Status: schema.InactiveStatus, BeforeTier: schema.TierCritical}, "Critical"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatTierChange(tt.detail))
		})
	}
}

func testLocationDetail() schema.LocationDetail {
	return schema.LocationDetail{
		Location: "Bronx",
		Month:    "2024-03",
		Record: schema.ScoredRecord{
			Location: "Bronx", Month: "2024-03",
			CategoryScores: map[string]int{"quality": 72, "volume": 90},
			OverallScore:   77, Tier: schema.TierAverage, Rating: schema.RatingFor(schema.TierAverage), Rank: 3,
		},
		Metrics: []schema.MetricDetail{
			{Category: "quality", Metric: "a", Name: "Metric A", Score: 80, Target: 100, HigherIsBetter: true},
			{Category: "volume", Metric: "v", Name: "Metric V", Score: 90, Target: 5, HigherIsBetter: false},
		},
		Trend:   schema.Trend{Direction: schema.TrendDeclining, ChangePercent: -2.5},
		History: []schema.HistoryPoint{{Month: "2024-02", Score: 79}, {Month: "2024-03", Score: 77}},
		Alert:   schema.LocationAlert{Location: "Bronx", Level: schema.AlertWarning, Overall: 77, Reasons: []string{"Quality score 72 below 70"}},
		Actions: map[string][]string{"volume": {"Keep volume steady"}, "quality": {"Review quality processes"}},
	}
}

func TestWriteLocationFormats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeLocationTo(&buf, testLocationDetail(), testInfo(), testConfig(schema.TextOut), 0))
		out := buf.String()
		assert.Contains(t, out, "Bronx (2024-03)")
		assert.Contains(t, out, "Overall: 77 (Average) - Meets Expectations, rank #3")
		assert.Contains(t, out, "Trend: ↓ -2.5%")
		assert.Contains(t, out, "Alert: warning")
		assert.Contains(t, out, "History: 2024-02=79, 2024-03=77")
		assert.Contains(t, out, "Metric A")

		quality := strings.Index(out, "Quality (score 72)")
		volume := strings.Index(out, "Volume (score 90)")
		require.NotEqual(t, -1, quality)
		require.NotEqual(t, -1, volume)
		assert.Less(t, quality, volume, "actions follow schema order")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeLocationTo(&buf, testLocationDetail(), testInfo(), testConfig(schema.CSVOut), 0))
		rows := readCSV(t, buf.String())
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Bronx", "2024-03", "quality", "72", "a", "80.0", "100.0", "higher"}, rows[1])
		assert.Equal(t, "lower", rows[2][7])
	})
}

func TestActionOrderWithoutSchema(t *testing.T) {
	actions := map[string][]string{"volume": {"x"}, "finance": {"y"}}
	assert.Equal(t, []string{"finance", "volume"}, actionOrder(&contract.Config{}, actions))
}

func testReport() schema.AnalysisReport {
	return schema.AnalysisReport{
		Title:       "Location Performance Analysis Report",
		Period:      "2024-03",
		GeneratedAt: time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC),
		Summary: schema.NetworkSummary{
			AverageScore: 80, MinScore: 67, MaxScore: 93, StdDev: 13, Consistency: "Low", TotalLocations: 2,
			Distribution: schema.PerformanceDistribution{Excellent: 1, Poor: 1},
		},
		Categories: []schema.CategoryInsight{
			{Key: "quality", Name: "Quality", Average: 82.5, Min: 70, Max: 95, Gap: 25, TopPerformer: "Bronx", BottomPerformer: "Queens"},
		},
		Locations: []schema.LocationInsight{
			{Location: "Bronx", Rank: 1, Score: 93, Strengths: []schema.CategoryScore{{Key: "quality", Name: "Quality", Score: 95}}, Trend: schema.TrendImproving},
			{Location: "Queens", Rank: 2, Score: 67, Weaknesses: []schema.CategoryScore{{Key: "quality", Name: "Quality", Score: 70}, {Key: "volume", Name: "Volume", Score: 60}}, Trend: schema.TrendStable},
		},
		Trends: schema.TrendSummary{Improving: []string{"Bronx"}, Stable: 1},
		Recommendations: []schema.Recommendation{
			{Type: "Performance Gap", Priority: "Medium", Title: "Large Performance Gap in Quality", Description: "25-point gap", Actions: []string{"Share practices", "Pair clinics"}},
		},
		Risks: []schema.Risk{
			{Type: "Low Performance", Severity: "High", Message: "1 location(s) below 75", Locations: []string{"Queens"}, Mitigation: "Intervene"},
		},
		BenchmarkGaps: []schema.BenchmarkGap{
			{Metric: "Overall Performance", Current: 80, Target: 90, Gap: 10, Impact: "Revenue"},
		},
	}
}

func TestWriteReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReportTo(&buf, testReport(), testInfo(), testConfig(schema.TextOut), 0))
	out := buf.String()

	sections := []string{
		"LOCATION PERFORMANCE ANALYSIS REPORT",
		"NETWORK PERFORMANCE SUMMARY",
		"CATEGORY PERFORMANCE ANALYSIS",
		"INDIVIDUAL CLINIC ANALYSIS",
		"STRATEGIC RECOMMENDATIONS",
		"RISK ASSESSMENT",
		"BENCHMARK GAPS",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		require.NotEqual(t, -1, idx, s)
		assert.Greater(t, idx, last, "%s out of order", s)
		last = idx
	}

	assert.Contains(t, out, "Network Average Score: 80.0")
	assert.Contains(t, out, "Performance Distribution: Excellent(1), Good(0), Average(0), Poor(1)")
	assert.Contains(t, out, "Quality: 82.5 (Range: 70-95, Gap: 25)")
	assert.Contains(t, out, "Areas for Improvement: Quality(70), Volume(60)")
	assert.Contains(t, out, "1. Large Performance Gap in Quality (Medium Priority)")
	assert.Contains(t, out, "Actions: Share practices; Pair clinics")
	assert.Contains(t, out, "Affected Clinics: Queens")
	assert.Contains(t, out, "Overall Performance: 80.0 vs target 90.0 (gap 10.0)")
}

func TestWriteReportSkipsEmptySections(t *testing.T) {
	report := testReport()
	report.Recommendations = nil
	report.Risks = nil
	report.BenchmarkGaps = nil

	var buf bytes.Buffer
	require.NoError(t, writeReportText(&buf, report, testInfo(), 1))
	out := buf.String()
	assert.NotContains(t, out, "STRATEGIC RECOMMENDATIONS")
	assert.NotContains(t, out, "RISK ASSESSMENT")
	assert.NotContains(t, out, "BENCHMARK GAPS")
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReportTo(&buf, testReport(), testInfo(), testConfig(schema.CSVOut), 0))
	rows := readCSV(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "Queens", "67", "stable", "", "Quality(70)|Volume(60)"}, rows[2])
}

func testCheck(passed bool) schema.CheckResult {
	result := schema.CheckResult{
		Passed:         passed,
		Period:         "2024-03",
		TotalLocations: 3,
		Thresholds:     schema.DefaultAlertThresholds(),
		Alerts: []schema.LocationAlert{
			{Location: "Yonkers", Level: schema.AlertWarning, Overall: 72, Reasons: []string{"overall 72 below 75"}},
		},
		Counts:      map[schema.AlertLevel]int{schema.AlertCritical: 0, schema.AlertWarning: 1, schema.AlertOK: 2},
		AtTarget:    []string{"Bronx"},
		AvgCategory: map[string]float64{"quality": 81.3, "volume": 77},
	}
	if !passed {
		result.Alerts = append([]schema.LocationAlert{
			{Location: "Queens", Level: schema.AlertCritical, Overall: 55, Reasons: []string{"overall 55 below 60", "Volume 40 below 50"}},
		}, result.Alerts...)
		result.Counts[schema.AlertCritical] = 1
		result.Counts[schema.AlertOK] = 1
	}
	return result
}

func TestWriteCheckText(t *testing.T) {
	t.Run("passed", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCheckTo(&buf, testCheck(true), testInfo(), testConfig(schema.TextOut), time.Second))
		out := buf.String()
		assert.Contains(t, out, "Alert Check Results:")
		assert.Contains(t, out, "overall < 60, category < 50")
		assert.Contains(t, out, "Checked 3 locations in 1s")
		assert.Contains(t, out, "✅ No location at critical level (1 warning, 2 ok, 1 at target)")
		assert.Contains(t, out, "Yonkers (overall: 72): overall 72 below 75")
		assert.Contains(t, out, "Quality: 81.3")
		assert.Contains(t, out, "Volume: 77.0")
	})

	t.Run("failed", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCheckTo(&buf, testCheck(false), testInfo(), testConfig(schema.TextOut), 0))
		out := buf.String()
		assert.Contains(t, out, "❌ Alert check failed: 1 critical, 1 warning across 3 locations")
		assert.Contains(t, out, "Level: critical (1)")
		assert.Contains(t, out, "Queens (overall: 55): overall 55 below 60; Volume 40 below 50")
		assert.Less(t, strings.Index(out, "Level: critical"), strings.Index(out, "Level: warning"))
	})
}

func TestWriteAlertGroupCaps(t *testing.T) {
	var alerts []schema.LocationAlert
	for range maxAlertsShown + 3 {
		alerts = append(alerts, schema.LocationAlert{Location: "L", Level: schema.AlertWarning})
	}
	var buf bytes.Buffer
	require.NoError(t, writeAlertGroup(&buf, alerts, schema.AlertWarning, testConfig(schema.TextOut)))
	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestWriteCheckCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCheckTo(&buf, testCheck(false), testInfo(), testConfig(schema.CSVOut), 0))
	rows := readCSV(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Queens", "critical", "55", "overall 55 below 60|Volume 40 below 50"}, rows[1])
}

func testMetricsModel() schema.MetricsRenderModel {
	return schema.MetricsRenderModel{
		Title:       "Location Scoring Model",
		Description: "Scores are weighted means.",
		Categories: []schema.MetricsCategory{
			{
				Key: "financial", Name: "Financial Performance", Weight: 0.3,
				Metrics: []schema.MetricsMetric{
					{Key: "netProfitPercent", Name: "Net Profit Margin %", Unit: "%", Weight: 0.35, Direction: "higher is better", Target: 15, Formula: "f(x)"},
					{Key: "visits", Name: "Average Visits", Unit: "visits", Weight: 0.65, Direction: "higher is better", Target: 12, Formula: "f(x)"},
				},
			},
		},
		Tiers:          schema.DefaultTierThresholds(),
		OverallFormula: "overall = round(0.30*financial)",
	}
}

func TestWriteMetricsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMetricsText(&buf, testMetricsModel()))
	out := buf.String()
	assert.Contains(t, out, "Location Scoring Model")
	assert.Contains(t, out, "Financial Performance [financial] weight 0.30")
	assert.Contains(t, out, "15%")
	assert.Contains(t, out, "12 visits")
	assert.Contains(t, out, "Overall: overall = round(0.30*financial)")
	assert.Contains(t, out, "Tiers: excellent >= 90, good >= 80, average >= 70, poor >= 60, otherwise critical")
}

func TestWriteMetricsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMetricsCSV(&buf, testMetricsModel()))
	rows := readCSV(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"financial", "0.30", "netProfitPercent", "Net Profit Margin %", "%", "0.35", "higher is better", "15", "f(x)"}, rows[1])
}
