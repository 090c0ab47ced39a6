package core

import (
	"testing"

	"github.com/huangsam/locscore/schema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testSchema has two categories whose metrics all target 100 (higher is better),
// so a raw value r in [50, 100] normalizes to (r-50)*2.
func testSchema() *schema.Schema {
	return &schema.Schema{
		LocationColumn: schema.DefaultLocationColumn,
		DateColumn:     schema.DefaultDateColumn,
		Categories: []schema.CategoryDefinition{
			{
				Key:    "quality",
				Name:   "Quality",
				Weight: 0.7,
				Metrics: []schema.MetricDefinition{
					{Key: "a", Name: "Metric A", Weight: 0.6, HigherIsBetter: true, Target: 100},
					{Key: "b", Name: "Metric B", Weight: 0.4, HigherIsBetter: true, Target: 100},
				},
			},
			{
				Key:    "volume",
				Name:   "Volume",
				Weight: 0.3,
				Metrics: []schema.MetricDefinition{
					{Key: "v", Name: "Metric V", Weight: 1.0, HigherIsBetter: true, Target: 100},
				},
			},
		},
	}
}

// row builds a raw measurement; empty cells are left out.
func row(location, date, a, b, v string) schema.RawMeasurement {
	quality := map[string]string{}
	if a != "" {
		quality["a"] = a
	}
	if b != "" {
		quality["b"] = b
	}
	volume := map[string]string{}
	if v != "" {
		volume["v"] = v
	}
	return schema.RawMeasurement{
		Location: location,
		Date:     date,
		Values:   map[string]map[string]string{"quality": quality, "volume": volume},
	}
}

// uniform builds a row where every metric has the same raw value.
func uniform(location, date, raw string) schema.RawMeasurement {
	return row(location, date, raw, raw, raw)
}

func newTestScorer() *Scorer {
	return NewScorer(testSchema(), nil, schema.DefaultTierThresholds())
}

func buildTestIndex(rows ...schema.RawMeasurement) schema.MonthlyIndex {
	return newTestScorer().BuildIndex(rows)
}

// buildTestDataset wraps an index in a dataset with index-derived trends.
func buildTestDataset(rows ...schema.RawMeasurement) *Dataset {
	sc := newTestScorer()
	idx := sc.BuildIndex(rows)
	ds := NewDataset(1, schema.SourceFile, sc, idx)
	if latest := idx.LatestMonth(); latest != "" {
		p := IndexTrendProvider{StableThreshold: DefaultStableThreshold}
		ds.Trends = ComputeTrends(p, idx, latest)
		ds.Histories = ComputeHistories(p, idx, historyMonths)
	}
	return ds
}

// observeLogs installs an observer as the global logger for the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}
