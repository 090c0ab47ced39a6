package core

import (
	"testing"
	"time"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexTrendProvider(t *testing.T) {
	p := IndexTrendProvider{StableThreshold: DefaultStableThreshold}

	tests := []struct {
		name      string
		prev      string
		cur       string
		direction schema.TrendDirection
		change    float64
	}{
		{"improving", "90", "95", schema.TrendImproving, 12.5},   // 80 -> 90
		{"declining", "100", "99.5", schema.TrendDeclining, -1.0}, // 100 -> 99
		{"stable under threshold", "100", "100", schema.TrendStable, 0},
		{"declining by a lot", "100", "75", schema.TrendDeclining, -50.0}, // 100 -> 50
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := buildTestIndex(
				uniform("A", "2024-02-10", tt.prev),
				uniform("A", "2024-03-10", tt.cur),
			)
			trend := p.Trend(idx, "A", "2024-03")
			assert.Equal(t, tt.direction, trend.Direction)
			assert.InDelta(t, tt.change, trend.ChangePercent, 1e-9)
			assert.Equal(t, "vs. last month", trend.Period)
		})
	}
}

func TestIndexTrendProviderWithoutPreviousMonth(t *testing.T) {
	p := IndexTrendProvider{StableThreshold: DefaultStableThreshold}
	// January is not the calendar month before March.
	idx := buildTestIndex(
		uniform("A", "2024-01-10", "100"),
		uniform("A", "2024-03-10", "75"),
	)
	trend := p.Trend(idx, "A", "2024-03")
	assert.Equal(t, schema.TrendStable, trend.Direction)
	assert.Zero(t, trend.ChangePercent)

	assert.Equal(t, schema.TrendStable, p.Trend(idx, "B", "2024-03").Direction)
}

func TestIndexTrendProviderHistory(t *testing.T) {
	p := IndexTrendProvider{}
	idx := buildTestIndex(
		uniform("A", "2024-01-10", "100"),
		uniform("A", "2024-02-10", "90"),
		uniform("B", "2024-02-10", "90"),
		uniform("A", "2024-03-10", "80"),
	)
	assert.Equal(t, []schema.HistoryPoint{
		{Month: "2024-02", Score: 80},
		{Month: "2024-03", Score: 60},
	}, p.History(idx, "A", 2))
	assert.Len(t, p.History(idx, "A", 0), 3)
	assert.Equal(t, []schema.HistoryPoint{{Month: "2024-02", Score: 80}}, p.History(idx, "B", 12))
}

func TestRandomTrendProviderDeterministic(t *testing.T) {
	idx := buildTestIndex(uniform("A", "2024-03-10", "90"), uniform("B", "2024-03-10", "90"))
	a := ComputeTrends(NewRandomTrendProvider(NewRand(42)), idx, "2024-03")
	b := ComputeTrends(NewRandomTrendProvider(NewRand(42)), idx, "2024-03")
	assert.Equal(t, a, b)

	for _, trend := range a {
		switch trend.Direction {
		case schema.TrendImproving:
			assert.GreaterOrEqual(t, trend.ChangePercent, 1.0)
			assert.LessOrEqual(t, trend.ChangePercent, 11.0)
		case schema.TrendDeclining:
			assert.LessOrEqual(t, trend.ChangePercent, -1.0)
			assert.GreaterOrEqual(t, trend.ChangePercent, -11.0)
		default:
			assert.Zero(t, trend.ChangePercent)
		}
	}
}

func TestRandomTrendProviderHistory(t *testing.T) {
	p := NewRandomTrendProvider(NewRand(7))
	p.now = func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.Local) }

	points := p.History(nil, "A", 3)
	require.Len(t, points, 4)
	assert.Equal(t, "2023-12", points[0].Month)
	assert.Equal(t, "2024-03", points[3].Month)
	for _, pt := range points {
		assert.GreaterOrEqual(t, pt.Score, 60)
		assert.LessOrEqual(t, pt.Score, 100)
	}
}

func TestNoTrendProvider(t *testing.T) {
	p := NewTrendProvider(schema.NoTrends, nil)
	assert.Equal(t, schema.TrendStable, p.Trend(nil, "A", "2024-03").Direction)
	assert.Empty(t, p.History(nil, "A", 12))
}

func TestNewTrendProvider(t *testing.T) {
	assert.IsType(t, IndexTrendProvider{}, NewTrendProvider(schema.IndexTrends, nil))
	assert.IsType(t, IndexTrendProvider{}, NewTrendProvider("", nil))
	assert.IsType(t, &RandomTrendProvider{}, NewTrendProvider(schema.RandomTrends, nil))
	assert.IsType(t, NoTrendProvider{}, NewTrendProvider(schema.NoTrends, nil))
}

func TestComputeTrendsOnlyCoversMonth(t *testing.T) {
	idx := buildTestIndex(
		uniform("A", "2024-02-10", "90"),
		uniform("A", "2024-03-10", "95"),
		uniform("B", "2024-02-10", "90"),
	)
	trends := ComputeTrends(IndexTrendProvider{StableThreshold: DefaultStableThreshold}, idx, "2024-03")
	assert.Len(t, trends, 1)
	assert.Equal(t, schema.TrendImproving, trends["A"].Direction)

	histories := ComputeHistories(IndexTrendProvider{}, idx, 12)
	assert.Len(t, histories, 2)
}
