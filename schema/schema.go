// Package schema has definitions, records and result models for all parts of locscore.
package schema

import (
	"sort"
	"time"
)

// RawMeasurement is one location's one month of raw metric values as ingested.
// Values is keyed by category then metric key; absent keys mean "not measured".
type RawMeasurement struct {
	Location string                       `json:"location"`
	Date     string                       `json:"date"`
	Values   map[string]map[string]string `json:"values"`
}

// Value returns the raw cell for a metric if one was ingested.
func (m RawMeasurement) Value(category, metric string) (string, bool) {
	metrics, ok := m.Values[category]
	if !ok {
		return "", false
	}
	v, ok := metrics[metric]
	return v, ok
}

// ScoredRecord is the scored form of one retained RawMeasurement.
type ScoredRecord struct {
	Location       string                        `json:"location"`
	Month          string                        `json:"month"`
	Date           time.Time                     `json:"date"`
	MetricScores   map[string]map[string]float64 `json:"metric_scores"`   // category -> metric -> normalized score
	CategoryScores map[string]int                `json:"category_scores"` // category -> 0-100
	OverallScore   int                           `json:"overall_score"`
	Tier           Tier                          `json:"tier"`
	Rating         string                        `json:"rating"`
	Rank           int                           `json:"rank"`
	Order          int                           `json:"-"` // Input position of the location's first row in its month
}

// AggregatedRecord is a location's scores averaged across several months.
type AggregatedRecord struct {
	Location       string         `json:"location"`
	CategoryScores map[string]int `json:"category_scores"`
	OverallScore   int            `json:"overall_score"`
	Tier           Tier           `json:"tier"`
	Rating         string         `json:"rating"`
	Rank           int            `json:"rank"`
	MonthsAveraged int            `json:"months_averaged"` // Months used by the whole batch
	MonthsPresent  int            `json:"months_present"`  // Months this location had a record in
	StartMonth     string         `json:"start_month"`
	EndMonth       string         `json:"end_month"`
}

// ScoredResult is the read view shared by snapshot and rolling records.
type ScoredResult interface {
	GetLocation() string
	GetOverallScore() int
	GetCategoryScores() map[string]int
	GetTier() Tier
	GetRank() int
}

// GetLocation returns the location identifier.
func (r ScoredRecord) GetLocation() string { return r.Location }

// GetOverallScore returns the overall score.
func (r ScoredRecord) GetOverallScore() int { return r.OverallScore }

// GetCategoryScores returns the per-category scores.
func (r ScoredRecord) GetCategoryScores() map[string]int { return r.CategoryScores }

// GetTier returns the performance tier.
func (r ScoredRecord) GetTier() Tier { return r.Tier }

// GetRank returns the 1-based rank.
func (r ScoredRecord) GetRank() int { return r.Rank }

// GetLocation returns the location identifier.
func (r AggregatedRecord) GetLocation() string { return r.Location }

// GetOverallScore returns the averaged overall score.
func (r AggregatedRecord) GetOverallScore() int { return r.OverallScore }

// GetCategoryScores returns the averaged per-category scores.
func (r AggregatedRecord) GetCategoryScores() map[string]int { return r.CategoryScores }

// GetTier returns the performance tier of the averaged overall score.
func (r AggregatedRecord) GetTier() Tier { return r.Tier }

// GetRank returns the 1-based rank.
func (r AggregatedRecord) GetRank() int { return r.Rank }

// MonthlyIndex maps month key (YYYY-MM) to location to its scored record.
// It is built once per load and never patched afterwards.
type MonthlyIndex map[string]map[string]ScoredRecord

// Months returns the month keys in ascending order.
func (idx MonthlyIndex) Months() []string {
	months := make([]string, 0, len(idx))
	for m := range idx {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// LatestMonth returns the lexicographically greatest month key, or "" when empty.
func (idx MonthlyIndex) LatestMonth() string {
	latest := ""
	for m := range idx {
		if m > latest {
			latest = m
		}
	}
	return latest
}

// Locations returns every location seen in any month, sorted by name.
func (idx MonthlyIndex) Locations() []string {
	seen := make(map[string]struct{})
	for _, byLoc := range idx {
		for loc := range byLoc {
			seen[loc] = struct{}{}
		}
	}
	locations := make([]string, 0, len(seen))
	for loc := range seen {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations
}

// Record returns the record of a location in a month.
func (idx MonthlyIndex) Record(month, location string) (ScoredRecord, bool) {
	byLoc, ok := idx[month]
	if !ok {
		return ScoredRecord{}, false
	}
	rec, ok := byLoc[location]
	return rec, ok
}

// MonthSummary describes one month key of an index.
type MonthSummary struct {
	Month     string `json:"month"`
	Locations int    `json:"locations"`
	Latest    bool   `json:"latest"`
}
