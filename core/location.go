package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
)

// FindLocation resolves a location name against the index. An exact match
// wins; otherwise a single case-insensitive match is accepted.
func FindLocation(idx schema.MonthlyIndex, name string) (string, error) {
	name = strings.TrimSpace(name)
	var folded []string
	for _, loc := range idx.Locations() {
		if loc == name {
			return loc, nil
		}
		if strings.EqualFold(loc, name) {
			folded = append(folded, loc)
		}
	}
	if len(folded) == 1 {
		return folded[0], nil
	}
	return "", fmt.Errorf("%w: %s", contract.ErrUnknownLocation, name)
}

// DescribeLocation builds the drill-down view of one location in a month.
func DescribeLocation(ds *Dataset, name, month string, th schema.AlertThresholds) (schema.LocationDetail, error) {
	month, err := ResolveMonth(ds.Index, month)
	if err != nil {
		return schema.LocationDetail{}, err
	}
	location, err := FindLocation(ds.Index, name)
	if err != nil {
		return schema.LocationDetail{}, err
	}

	ranked, err := Snapshot(ds.Index, month)
	if err != nil {
		return schema.LocationDetail{}, err
	}
	var record schema.ScoredRecord
	found := false
	for _, r := range ranked {
		if r.Location == location {
			record, found = r, true
			break
		}
	}
	if !found {
		return schema.LocationDetail{}, fmt.Errorf("%w: %s has no record in %s", contract.ErrUnknownLocation, location, month)
	}

	sc := NewScorer(ds.Schema, ds.Benchmarks, ds.Thresholds)
	metrics := make([]schema.MetricDetail, 0, ds.Schema.MetricCount())
	actions := make(map[string][]string, len(ds.Schema.Categories))
	for ci := range ds.Schema.Categories {
		cat := &ds.Schema.Categories[ci]
		for mi := range cat.Metrics {
			m := &cat.Metrics[mi]
			score, ok := record.MetricScores[cat.Key][m.Key]
			if !ok {
				continue
			}
			metrics = append(metrics, schema.MetricDetail{
				Category:       cat.Key,
				Metric:         m.Key,
				Name:           m.Name,
				Score:          score,
				Target:         sc.Target(cat.Key, m),
				HigherIsBetter: m.HigherIsBetter,
			})
		}
		level := schema.LevelFor(record.CategoryScores[cat.Key])
		if a := schema.ImprovementActions(cat.Key, level); a != nil {
			actions[cat.Key] = a
		}
	}

	trend := ds.Trend(location)
	if month != ds.Index.LatestMonth() {
		trend = IndexTrendProvider{StableThreshold: DefaultStableThreshold}.Trend(ds.Index, location, month)
	}

	return schema.LocationDetail{
		Location:    location,
		Month:       month,
		Record:      record,
		Metrics:     metrics,
		Trend:       trend,
		History:     ds.History(location),
		Alert:       EvaluateAlert(record, ds.Schema, th),
		Actions:     actions,
		GeneratedAt: time.Now(),
	}, nil
}
