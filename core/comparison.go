package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
)

// compareResults is a generic function that compares two batches of scored results.
func compareResults[T schema.ScoredResult](baseResults, targetResults []T, limit int) ([]schema.ComparisonDetail, schema.ComparisonSummary) {
	baseMap := make(map[string]T, len(baseResults))
	targetMap := make(map[string]T, len(targetResults))
	allLocations := make(map[string]struct{})

	// 1. Populate maps and collect all locations
	for _, r := range baseResults {
		baseMap[r.GetLocation()] = r
		allLocations[r.GetLocation()] = struct{}{}
	}
	for _, r := range targetResults {
		targetMap[r.GetLocation()] = r
		allLocations[r.GetLocation()] = struct{}{}
	}

	details := make([]schema.ComparisonDetail, 0, len(allLocations))
	var summary schema.ComparisonSummary

	// 2. Compare all locations
	for loc := range allLocations {
		baseR, baseExists := baseMap[loc]
		targetR, targetExists := targetMap[loc]

		// Scores default to 0 when the location is absent from a month
		baseScore, targetScore := 0, 0
		var baseTier, targetTier schema.Tier
		if baseExists {
			baseScore = baseR.GetOverallScore()
			baseTier = baseR.GetTier()
		}
		if targetExists {
			targetScore = targetR.GetOverallScore()
			targetTier = targetR.GetTier()
		}
		delta := targetScore - baseScore

		categoryDeltas := make(map[string]int)
		if baseExists && targetExists {
			for k, after := range targetR.GetCategoryScores() {
				categoryDeltas[k] = after - baseR.GetCategoryScores()[k]
			}
		}

		summary.NetScoreDelta += delta

		status := determineStatus(baseExists, targetExists)
		switch status {
		case schema.NewStatus:
			summary.TotalNewLocations++
		case schema.ActiveStatus:
			summary.TotalActiveLocations++
			if delta > 0 {
				summary.TotalImproved++
			} else if delta < 0 {
				summary.TotalDeclined++
			}
		case schema.InactiveStatus:
			summary.TotalInactiveLocations++
		}

		detail := schema.ComparisonDetail{
			Location:       loc,
			BeforeScore:    baseScore,
			AfterScore:     targetScore,
			Delta:          delta,
			CategoryDeltas: categoryDeltas,
			BeforeTier:     baseTier,
			AfterTier:      targetTier,
			Status:         status,
		}
		if detail.TierChanged() {
			summary.TotalTierChanges++
		}

		// Only include locations whose overall score moved
		if delta != 0 {
			details = append(details, detail)
		}
	}

	sortComparisonDetails(details)
	return algo.Limit(details, limit), summary
}

// determineStatus returns the status based on existence in base and target.
func determineStatus(baseExists, targetExists bool) schema.Status {
	switch {
	case !baseExists && targetExists:
		return schema.NewStatus
	case baseExists && targetExists:
		return schema.ActiveStatus
	case baseExists: // Target does not exist in this case
		return schema.InactiveStatus
	default:
		return schema.UnknownStatus
	}
}

// sortComparisonDetails sorts details by absolute delta, then delta sign, then location.
func sortComparisonDetails(details []schema.ComparisonDetail) {
	sort.Slice(details, func(i, j int) bool {
		a := details[i]
		b := details[j]

		// Primary: Absolute delta (descending)
		absA, absB := abs(a.Delta), abs(b.Delta)
		if absA != absB {
			return absA > absB
		}

		// Secondary: Delta sign (positive before negative)
		if a.Delta != b.Delta {
			return a.Delta > b.Delta
		}

		// Tertiary: Location (ascending)
		return strings.Compare(a.Location, b.Location) < 0
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CompareMonths compares the snapshots of two months of an index.
func CompareMonths(idx schema.MonthlyIndex, baseMonth, targetMonth string, limit int) (schema.ComparisonResult, error) {
	base, err := Snapshot(idx, baseMonth)
	if err != nil {
		return schema.ComparisonResult{}, err
	}
	target, err := Snapshot(idx, targetMonth)
	if err != nil {
		return schema.ComparisonResult{}, err
	}
	details, summary := compareResults(base, target, limit)
	return schema.ComparisonResult{
		BaseMonth:   baseMonth,
		TargetMonth: targetMonth,
		Details:     details,
		Summary:     summary,
	}, nil
}

// ResolveComparisonMonths fills in defaults: the target is the latest month
// and the base is the month present in the index right before the target.
func ResolveComparisonMonths(idx schema.MonthlyIndex, baseMonth, targetMonth string) (string, string, error) {
	target, err := ResolveMonth(idx, targetMonth)
	if err != nil {
		return "", "", err
	}
	if baseMonth != "" {
		base, err := ResolveMonth(idx, baseMonth)
		return base, target, err
	}
	base := ""
	for _, m := range idx.Months() {
		if m < target {
			base = m
		}
	}
	if base == "" {
		return "", "", fmt.Errorf("%w: no month before %s", contract.ErrUnknownMonth, target)
	}
	return base, target, nil
}
