package algo

import (
	"sort"

	"github.com/huangsam/locscore/schema"
)

// RankScored sorts records by overall score in descending order and assigns
// 1-based ranks. The sort is stable so ties keep their input order.
func RankScored(records []schema.ScoredRecord) []schema.ScoredRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OverallScore > records[j].OverallScore
	})
	for i := range records {
		records[i].Rank = i + 1
	}
	return records
}

// RankAggregated sorts aggregated records like RankScored.
func RankAggregated(records []schema.AggregatedRecord) []schema.AggregatedRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OverallScore > records[j].OverallScore
	})
	for i := range records {
		records[i].Rank = i + 1
	}
	return records
}

// Limit returns the first 'limit' items. A non-positive limit or a limit
// greater than the number of items returns all of them.
func Limit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
