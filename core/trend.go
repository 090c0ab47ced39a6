package core

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/schema"
)

// trendPeriod labels every trend; trends always compare against the month before.
const trendPeriod = "vs. last month"

// DefaultStableThreshold is the absolute change percent under which a trend is stable.
const DefaultStableThreshold = 1.0

// TrendProvider decorates records with trend and history data.
// Nothing a provider returns feeds back into scoring.
type TrendProvider interface {
	Trend(idx schema.MonthlyIndex, location, month string) schema.Trend
	History(idx schema.MonthlyIndex, location string, months int) []schema.HistoryPoint
}

// NewTrendProvider returns the provider for kind. The rng only matters for
// RandomTrends and may be nil otherwise.
func NewTrendProvider(kind schema.TrendProviderKind, rng *rand.Rand) TrendProvider {
	switch kind {
	case schema.RandomTrends:
		return NewRandomTrendProvider(rng)
	case schema.NoTrends:
		return NoTrendProvider{}
	default:
		return IndexTrendProvider{StableThreshold: DefaultStableThreshold}
	}
}

// IndexTrendProvider derives trends from the location's previous month in the index.
type IndexTrendProvider struct {
	StableThreshold float64
}

// Trend compares the location's overall score with its previous calendar month.
func (p IndexTrendProvider) Trend(idx schema.MonthlyIndex, location, month string) schema.Trend {
	stable := schema.Trend{Direction: schema.TrendStable, Period: trendPeriod}
	cur, ok := idx.Record(month, location)
	if !ok {
		return stable
	}
	prevMonth, err := PreviousMonth(month)
	if err != nil {
		return stable
	}
	prev, ok := idx.Record(prevMonth, location)
	if !ok || prev.OverallScore == 0 {
		return stable
	}

	change := algo.RoundTo1(float64(cur.OverallScore-prev.OverallScore) / float64(prev.OverallScore) * 100)
	var direction schema.TrendDirection
	switch {
	case math.Abs(change) < p.StableThreshold:
		direction = schema.TrendStable
	case change > 0:
		direction = schema.TrendImproving
	default:
		direction = schema.TrendDeclining
	}
	return schema.Trend{Direction: direction, ChangePercent: change, Period: trendPeriod}
}

// History returns the overall score of the location in each of the most recent
// months it appears in, oldest first. A non-positive months returns all of them.
func (p IndexTrendProvider) History(idx schema.MonthlyIndex, location string, months int) []schema.HistoryPoint {
	points := make([]schema.HistoryPoint, 0)
	for _, m := range idx.Months() {
		if rec, ok := idx.Record(m, location); ok {
			points = append(points, schema.HistoryPoint{Month: m, Score: rec.OverallScore})
		}
	}
	if months > 0 && len(points) > months {
		points = points[len(points)-months:]
	}
	return points
}

// RandomTrendProvider simulates trends and history for demo datasets.
type RandomTrendProvider struct {
	rng *rand.Rand
	now func() time.Time
}

// NewRandomTrendProvider creates a random provider. A nil rng is seeded from the clock.
func NewRandomTrendProvider(rng *rand.Rand) *RandomTrendProvider {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	return &RandomTrendProvider{rng: rng, now: time.Now}
}

// Trend picks a uniform direction with a 1-11% change.
func (p *RandomTrendProvider) Trend(_ schema.MonthlyIndex, _, _ string) schema.Trend {
	directions := []schema.TrendDirection{schema.TrendImproving, schema.TrendDeclining, schema.TrendStable}
	direction := directions[p.rng.IntN(len(directions))]
	change := 0.0
	switch direction {
	case schema.TrendImproving:
		change = p.rng.Float64()*10 + 1
	case schema.TrendDeclining:
		change = -(p.rng.Float64()*10 + 1)
	}
	return schema.Trend{Direction: direction, ChangePercent: algo.RoundTo1(change), Period: trendPeriod}
}

// History synthesizes months+1 points ending at the current month around a
// base score of 70-90 with a slight upward drift.
func (p *RandomTrendProvider) History(_ schema.MonthlyIndex, _ string, months int) []schema.HistoryPoint {
	if months < 0 {
		months = 0
	}
	base := 70 + p.rng.Float64()*20
	now := p.now()
	points := make([]schema.HistoryPoint, 0, months+1)
	for i := months; i >= 0; i-- {
		drift := float64(months-i) * 0.5
		noise := (p.rng.Float64() - 0.5) * 10
		score := algo.Clamp(base+drift+noise, 0, 100)
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		points = append(points, schema.HistoryPoint{Month: MonthKey(month), Score: algo.RoundHalfUp(score)})
	}
	return points
}

// NoTrendProvider reports every location as stable with no history.
type NoTrendProvider struct{}

// Trend always returns a stable trend.
func (NoTrendProvider) Trend(_ schema.MonthlyIndex, _, _ string) schema.Trend {
	return schema.Trend{Direction: schema.TrendStable, Period: trendPeriod}
}

// History always returns an empty series.
func (NoTrendProvider) History(_ schema.MonthlyIndex, _ string, _ int) []schema.HistoryPoint {
	return []schema.HistoryPoint{}
}

// ComputeTrends returns the trend of every location of a month.
func ComputeTrends(p TrendProvider, idx schema.MonthlyIndex, month string) map[string]schema.Trend {
	trends := make(map[string]schema.Trend, len(idx[month]))
	// Sorted iteration keeps random providers reproducible for a given seed.
	for _, loc := range idx.Locations() {
		if _, ok := idx.Record(month, loc); !ok {
			continue
		}
		trends[loc] = p.Trend(idx, loc, month)
	}
	return trends
}

// ComputeHistories returns the score history of every location in the index.
func ComputeHistories(p TrendProvider, idx schema.MonthlyIndex, months int) map[string][]schema.HistoryPoint {
	locations := idx.Locations()
	histories := make(map[string][]schema.HistoryPoint, len(locations))
	for _, loc := range locations {
		histories[loc] = p.History(idx, loc, months)
	}
	return histories
}
