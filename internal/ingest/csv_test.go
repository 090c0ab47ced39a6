package ingest

import (
	"strings"
	"testing"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testSchema() *schema.Schema {
	return &schema.Schema{
		LocationColumn: "Clinic",
		DateColumn:     "Date",
		Categories: []schema.CategoryDefinition{
			{Key: "quality", Name: "Quality", Weight: 0.7, Metrics: []schema.MetricDefinition{
				{Key: "a", Column: "Metric_A", Weight: 0.5, HigherIsBetter: true, Target: 90},
				{Key: "b", Column: "Metric_B", Weight: 0.5, HigherIsBetter: false, Target: 10},
			}},
			{Key: "volume", Name: "Volume", Weight: 0.3, Metrics: []schema.MetricDefinition{
				{Key: "v", Column: "Visits", Weight: 1, HigherIsBetter: true, Target: 12},
			}},
		},
	}
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))
	return logs
}

func TestParseMeasurements(t *testing.T) {
	sheet := "\ufeff Clinic , Date ,Metric_A,Metric_B,Visits,Notes\n" +
		"Bronx Clinic,2024-05-15,88%, 7 ,11.5,ok\n" +
		"Queens Clinic,5/15/2024,,n/a\n"

	rows, err := ParseMeasurements(strings.NewReader(sheet), testSchema())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, schema.RawMeasurement{
		Location: "Bronx Clinic",
		Date:     "2024-05-15",
		Values: map[string]map[string]string{
			"quality": {"a": "88%", "b": "7"},
			"volume":  {"v": "11.5"},
		},
	}, rows[0])

	queens := rows[1]
	assert.Equal(t, "5/15/2024", queens.Date)
	_, ok := queens.Value("quality", "a")
	assert.False(t, ok, "empty cells are not measured")
	b, ok := queens.Value("quality", "b")
	assert.True(t, ok)
	assert.Equal(t, "n/a", b, "bad cells are kept raw for the scorer")
	assert.Empty(t, queens.Values["volume"], "short rows lose trailing columns")
}

func TestParseMeasurementsSkipsBlankLocation(t *testing.T) {
	logs := observeLogs(t)
	sheet := "Clinic,Date,Metric_A\n ,2024-05-15,90\nBronx Clinic,2024-05-15,90\n"

	rows, err := ParseMeasurements(strings.NewReader(sheet), testSchema())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bronx Clinic", rows[0].Location)

	entries := logs.FilterMessage("row without location skipped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["line"])
}

func TestParseMeasurementsErrors(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		want  string
	}{
		{"empty", "", "sheet is empty"},
		{"no location column", "Date,Metric_A\n2024-05-15,90\n", `missing required column "Clinic"`},
		{"no date column", "Clinic,Metric_A\nBronx,90\n", `missing required column "Date"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMeasurements(strings.NewReader(tt.sheet), testSchema())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseMeasurementsHeaderOnly(t *testing.T) {
	rows, err := ParseMeasurements(strings.NewReader("Clinic,Date\n"), testSchema())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseBenchmarks(t *testing.T) {
	sheet := "Metric_A,Metric_B,Visits\n95%,0,abc\n80,5,14\n"

	table, ok, err := ParseBenchmarks(strings.NewReader(sheet), testSchema())
	require.NoError(t, err)
	require.True(t, ok)

	target, _ := table.Target("quality", "a")
	assert.InDelta(t, 95.0, target, 1e-9, "first data row only")
	target, _ = table.Target("quality", "b")
	assert.InDelta(t, 10.0, target, 1e-9, "zero keeps the default")
	target, _ = table.Target("volume", "v")
	assert.InDelta(t, 12.0, target, 1e-9, "unparseable keeps the default")
}

func TestParseBenchmarksMissingColumnKeepsDefault(t *testing.T) {
	table, ok, err := ParseBenchmarks(strings.NewReader("Metric_A\n92\n"), testSchema())
	require.NoError(t, err)
	require.True(t, ok)
	target, found := table.Target("volume", "v")
	assert.True(t, found)
	assert.InDelta(t, 12.0, target, 1e-9)
}

func TestParseBenchmarksNoRows(t *testing.T) {
	table, ok, err := ParseBenchmarks(strings.NewReader("Metric_A,Metric_B\n"), testSchema())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, table)

	_, _, err = ParseBenchmarks(strings.NewReader(""), testSchema())
	assert.Error(t, err)
}
