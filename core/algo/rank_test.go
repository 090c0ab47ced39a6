package algo

import (
	"testing"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
)

func TestRankScoredStable(t *testing.T) {
	records := []schema.ScoredRecord{
		{Location: "A", OverallScore: 70},
		{Location: "B", OverallScore: 90},
		{Location: "C", OverallScore: 70},
		{Location: "D", OverallScore: 85},
		{Location: "E", OverallScore: 70},
	}

	ranked := RankScored(records)

	var order []string
	for i, r := range ranked {
		order = append(order, r.Location)
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, order)
}

func TestRankAggregated(t *testing.T) {
	records := []schema.AggregatedRecord{
		{Location: "X", OverallScore: 60},
		{Location: "Y", OverallScore: 60},
		{Location: "Z", OverallScore: 61},
	}

	ranked := RankAggregated(records)
	assert.Equal(t, "Z", ranked[0].Location)
	assert.Equal(t, "X", ranked[1].Location)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestLimit(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2}, Limit(items, 2))
	assert.Equal(t, items, Limit(items, 10))
	assert.Equal(t, items, Limit(items, 0))
}

func TestStats(t *testing.T) {
	values := []int{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(values), 1e-9)
	assert.InDelta(t, 2.0, StdDev(values), 1e-9)
	lo, hi := MinMax(values)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 9, hi)

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev(nil))
	lo, hi = MinMax(nil)
	assert.Equal(t, 0, lo+hi)
}
