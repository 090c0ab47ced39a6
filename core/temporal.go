package core

import (
	"fmt"
	"sort"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
)

// ResolveMonth returns the requested month when it exists in the index, or the
// latest month when none is requested.
func ResolveMonth(idx schema.MonthlyIndex, month string) (string, error) {
	if len(idx) == 0 {
		return "", contract.ErrNoData
	}
	if month == "" {
		return idx.LatestMonth(), nil
	}
	if _, ok := idx[month]; !ok {
		return "", fmt.Errorf("%w: %s", contract.ErrUnknownMonth, month)
	}
	return month, nil
}

// Snapshot returns every record of a month ranked by overall score.
// The returned slice is a fresh copy; the index is never reordered.
func Snapshot(idx schema.MonthlyIndex, month string) ([]schema.ScoredRecord, error) {
	byLoc, ok := idx[month]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contract.ErrUnknownMonth, month)
	}
	records := make([]schema.ScoredRecord, 0, len(byLoc))
	for _, rec := range byLoc {
		records = append(records, rec)
	}
	// Input order first, so the stable ranking keeps sheet order on ties.
	sort.Slice(records, func(i, j int) bool {
		return inputBefore(records[i].Order, records[j].Order, records[i].Location, records[j].Location)
	})
	return algo.RankScored(records), nil
}

// inputBefore orders by input position, falling back to name for records
// that share a position.
func inputBefore(orderA, orderB int, locA, locB string) bool {
	if orderA != orderB {
		return orderA < orderB
	}
	return locA < locB
}

// monthsUpTo returns the sorted month keys of idx that are not after end.
// An empty end keeps every month.
func monthsUpTo(idx schema.MonthlyIndex, end string) []string {
	all := idx.Months()
	if end == "" {
		return all
	}
	kept := all[:0]
	for _, m := range all {
		if m <= end {
			kept = append(kept, m)
		}
	}
	return kept
}

// RollingAverage averages each location over the most recent count months in
// months (or fewer when not available). A location is averaged only over the
// months it has a record in, and ties rank by its earliest input position. Category and overall scores are means of the
// already computed scores, rounded half-up per field.
func RollingAverage(idx schema.MonthlyIndex, months []string, count int, th schema.TierThresholds) schema.RollingResult {
	sorted := append([]string(nil), months...)
	sort.Strings(sorted)

	present := sorted[:0]
	for _, m := range sorted {
		if _, ok := idx[m]; ok {
			present = append(present, m)
		}
	}
	if count > 0 && len(present) > count {
		present = present[len(present)-count:]
	}

	result := schema.RollingResult{
		Months:         present,
		MonthsAveraged: len(present),
		Records:        []schema.AggregatedRecord{},
	}
	if len(present) == 0 {
		return result
	}
	result.StartMonth = present[0]
	result.EndMonth = present[len(present)-1]

	type accumulator struct {
		overall    int
		categories map[string]int
		months     []string
		order      int
	}
	acc := make(map[string]*accumulator)
	order := make([]string, 0)
	for _, m := range present {
		locations := make([]string, 0, len(idx[m]))
		for loc := range idx[m] {
			locations = append(locations, loc)
		}
		sort.Strings(locations)
		for _, loc := range locations {
			rec := idx[m][loc]
			a, ok := acc[loc]
			if !ok {
				a = &accumulator{categories: make(map[string]int), order: rec.Order}
				acc[loc] = a
				order = append(order, loc)
			}
			a.order = min(a.order, rec.Order)
			a.overall += rec.OverallScore
			for k, v := range rec.CategoryScores {
				a.categories[k] += v
			}
			a.months = append(a.months, m)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		return inputBefore(acc[order[i]].order, acc[order[j]].order, order[i], order[j])
	})

	records := make([]schema.AggregatedRecord, 0, len(order))
	for _, loc := range order {
		a := acc[loc]
		n := float64(len(a.months))
		categories := make(map[string]int, len(a.categories))
		for k, sum := range a.categories {
			categories[k] = algo.RoundHalfUp(float64(sum) / n)
		}
		overall := algo.RoundHalfUp(float64(a.overall) / n)
		tier := algo.TierFor(overall, th)
		records = append(records, schema.AggregatedRecord{
			Location:       loc,
			CategoryScores: categories,
			OverallScore:   overall,
			Tier:           tier,
			Rating:         schema.RatingFor(tier),
			MonthsAveraged: len(present),
			MonthsPresent:  len(a.months),
			StartMonth:     a.months[0],
			EndMonth:       a.months[len(a.months)-1],
		})
	}
	result.Records = algo.RankAggregated(records)
	return result
}

// RollingWindow resolves the end month (latest by default) and averages over
// the count months ending there.
func RollingWindow(idx schema.MonthlyIndex, end string, count int, th schema.TierThresholds) (schema.RollingResult, error) {
	month, err := ResolveMonth(idx, end)
	if err != nil {
		return schema.RollingResult{}, err
	}
	return RollingAverage(idx, monthsUpTo(idx, month), count, th), nil
}

// MonthSummaries lists every month of the index with its location count.
func MonthSummaries(idx schema.MonthlyIndex) []schema.MonthSummary {
	latest := idx.LatestMonth()
	months := idx.Months()
	out := make([]schema.MonthSummary, 0, len(months))
	for _, m := range months {
		out = append(out, schema.MonthSummary{Month: m, Locations: len(idx[m]), Latest: m == latest})
	}
	return out
}
