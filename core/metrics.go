package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/locscore/schema"
)

// Normalization formulas shown next to each metric.
const (
	higherFormula = "100 if raw >= T, else clamp((raw - 0.5T) / 0.5T * 100, 0, 100)"
	lowerFormula  = "100 if raw <= T, else clamp(100 - (raw - T) / T * 100, 0, 100)"

	modelDescription = "Each metric is normalized to 0-100 against its target. Categories are weighted means of their present metrics and the overall score is the weighted sum of category scores."
)

// BuildMetricsRenderModel prepares the active schema for display.
// Targets reflect the benchmark table when one is given.
func BuildMetricsRenderModel(s *schema.Schema, benchmarks schema.BenchmarkTable, th schema.TierThresholds) schema.MetricsRenderModel {
	sc := NewScorer(s, benchmarks, th)
	categories := make([]schema.MetricsCategory, 0, len(s.Categories))
	terms := make([]string, 0, len(s.Categories))
	for ci := range s.Categories {
		cat := &s.Categories[ci]
		metrics := make([]schema.MetricsMetric, 0, len(cat.Metrics))
		for mi := range cat.Metrics {
			m := &cat.Metrics[mi]
			direction, formula := "higher is better", higherFormula
			if !m.HigherIsBetter {
				direction, formula = "lower is better", lowerFormula
			}
			metrics = append(metrics, schema.MetricsMetric{
				Key:       m.Key,
				Name:      m.Name,
				Unit:      m.Unit,
				Weight:    m.Weight,
				Direction: direction,
				Target:    sc.Target(cat.Key, m),
				Formula:   formula,
			})
		}
		categories = append(categories, schema.MetricsCategory{
			Key:         cat.Key,
			Name:        cat.Name,
			Description: cat.Description,
			Weight:      cat.Weight,
			Metrics:     metrics,
		})
		terms = append(terms, fmt.Sprintf("%.2f*%s", cat.Weight, cat.Key))
	}

	return schema.MetricsRenderModel{
		Title:          "Location Scoring Model",
		Description:    modelDescription,
		Categories:     categories,
		Tiers:          th,
		OverallFormula: fmt.Sprintf("overall = round(%s)", strings.Join(terms, " + ")),
	}
}
