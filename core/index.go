package core

import (
	"time"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/schema"
	"go.uber.org/zap"
)

// Scorer turns raw rows into scored records against one schema and benchmark table.
// It holds no mutable state, so one Scorer may be shared across goroutines.
type Scorer struct {
	schema     *schema.Schema
	benchmarks schema.BenchmarkTable
	thresholds schema.TierThresholds
	loc        *time.Location
}

// ScorerOption customizes a Scorer.
type ScorerOption func(*Scorer)

// WithTimeLocation sets the location used to parse row dates. Defaults to time.Local.
func WithTimeLocation(loc *time.Location) ScorerOption {
	return func(s *Scorer) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewScorer creates a Scorer. A nil benchmark table means "none provided" and
// every metric falls back to its schema target.
func NewScorer(s *schema.Schema, benchmarks schema.BenchmarkTable, th schema.TierThresholds, opts ...ScorerOption) *Scorer {
	sc := &Scorer{schema: s, benchmarks: benchmarks, thresholds: th, loc: time.Local}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Schema returns the schema the scorer was built with.
func (sc *Scorer) Schema() *schema.Schema { return sc.schema }

// Target returns the effective target of a metric: the benchmark when present,
// otherwise the static schema target.
func (sc *Scorer) Target(category string, m *schema.MetricDefinition) float64 {
	if t, ok := sc.benchmarks.Target(category, m.Key); ok {
		return t
	}
	return m.Target
}

// Score runs normalize, aggregate and overall scoring on one row.
// Missing metrics shrink their category's denominator; the record never fails.
func (sc *Scorer) Score(row schema.RawMeasurement, date time.Time) schema.ScoredRecord {
	metricScores := make(map[string]map[string]float64, len(sc.schema.Categories))
	categoryScores := make(map[string]int, len(sc.schema.Categories))

	for ci := range sc.schema.Categories {
		cat := &sc.schema.Categories[ci]
		cells, ok := row.Values[cat.Key]
		if !ok || len(cells) == 0 {
			zap.L().Warn("category missing from row",
				zap.String("location", row.Location),
				zap.String("category", cat.Key))
		}

		scores := make(map[string]float64, len(cat.Metrics))
		present := make([]algo.WeightedScore, 0, len(cat.Metrics))
		for mi := range cat.Metrics {
			m := &cat.Metrics[mi]
			cell, ok := cells[m.Key]
			if !ok {
				continue
			}
			raw, ok := algo.ParseRaw(cell)
			if !ok {
				zap.L().Warn("invalid raw value",
					zap.String("location", row.Location),
					zap.String("category", cat.Key),
					zap.String("metric", m.Key),
					zap.String("raw", cell))
				scores[m.Key] = 0
				continue
			}
			target := sc.Target(cat.Key, m)
			score := algo.Normalize(raw, target, m.HigherIsBetter,
				zap.String("location", row.Location),
				zap.String("category", cat.Key),
				zap.String("metric", m.Key))
			scores[m.Key] = score
			present = append(present, algo.WeightedScore{Score: score, Weight: m.Weight})
		}
		metricScores[cat.Key] = scores
		categoryScores[cat.Key] = algo.AggregateCategory(present)
	}

	overall := algo.ScoreOverall(categoryScores, sc.schema)
	tier := algo.TierFor(overall, sc.thresholds)
	return schema.ScoredRecord{
		Location:       row.Location,
		Month:          MonthKey(date),
		Date:           date,
		MetricScores:   metricScores,
		CategoryScores: categoryScores,
		OverallScore:   overall,
		Tier:           tier,
		Rating:         schema.RatingFor(tier),
	}
}

// retainedRow is the latest row seen so far for one (month, location) pair.
type retainedRow struct {
	row   schema.RawMeasurement
	date  time.Time
	order int
}

// BuildIndex groups rows by month and location, keeps the latest-dated row per
// pair and scores it. Each record remembers the input position of the first
// row seen for its pair so ranking can keep sheet order on ties. Rows without
// a location or a parseable date are dropped and logged. The index is always
// rebuilt from scratch.
func (sc *Scorer) BuildIndex(rows []schema.RawMeasurement) schema.MonthlyIndex {
	retained := make(map[string]map[string]retainedRow)
	for i, row := range rows {
		if row.Location == "" {
			zap.L().Warn("row without location dropped", zap.String("date", row.Date))
			continue
		}
		date, err := ParseDate(row.Date, sc.loc)
		if err != nil {
			zap.L().Warn("unparseable date, row dropped",
				zap.String("location", row.Location),
				zap.String("date", row.Date),
				zap.Error(err))
			continue
		}
		month := MonthKey(date)
		byLoc, ok := retained[month]
		if !ok {
			byLoc = make(map[string]retainedRow)
			retained[month] = byLoc
		}
		// Strictly later dates replace; a tie keeps the first row seen.
		cur, ok := byLoc[row.Location]
		switch {
		case !ok:
			byLoc[row.Location] = retainedRow{row: row, date: date, order: i}
		case date.After(cur.date):
			byLoc[row.Location] = retainedRow{row: row, date: date, order: cur.order}
		}
	}

	idx := make(schema.MonthlyIndex, len(retained))
	for month, byLoc := range retained {
		scored := make(map[string]schema.ScoredRecord, len(byLoc))
		for loc, r := range byLoc {
			rec := sc.Score(r.row, r.date)
			rec.Order = r.order
			scored[loc] = rec
		}
		idx[month] = scored
	}
	return idx
}
