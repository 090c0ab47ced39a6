package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/schema"
)

// Analytic thresholds used by the report.
const (
	strengthScore      = 95
	weaknessScore      = 85
	networkTarget      = 85.0
	categoryTarget     = 80.0
	categoryGapLimit   = 15
	lowPerformerScore  = 75
	benchmarkStandard  = 90.0
	highConsistencyDev = 5.0
	modConsistencyDev  = 10.0
)

// overallScores collects the overall score of every record.
func overallScores[T schema.ScoredResult](records []T) []int {
	scores := make([]int, len(records))
	for i, r := range records {
		scores[i] = r.GetOverallScore()
	}
	return scores
}

// formatScore prints a score with at most one decimal and no trailing zeros.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SummarizeNetwork computes the network-level summary of a batch.
func SummarizeNetwork[T schema.ScoredResult](records []T) schema.NetworkSummary {
	scores := overallScores(records)
	if len(scores) == 0 {
		return schema.NetworkSummary{Consistency: "High"}
	}
	lo, hi := algo.MinMax(scores)
	dev := algo.StdDev(scores)

	consistency := "Low"
	switch {
	case dev < highConsistencyDev:
		consistency = "High"
	case dev < modConsistencyDev:
		consistency = "Moderate"
	}

	var dist schema.PerformanceDistribution
	for _, s := range scores {
		switch {
		case s >= 90:
			dist.Excellent++
		case s >= 80:
			dist.Good++
		case s >= 70:
			dist.Average++
		default:
			dist.Poor++
		}
	}

	return schema.NetworkSummary{
		AverageScore:   algo.RoundTo1(algo.Mean(scores)),
		MinScore:       lo,
		MaxScore:       hi,
		StdDev:         algo.RoundTo1(dev),
		Consistency:    consistency,
		TotalLocations: len(scores),
		Distribution:   dist,
	}
}

// AnalyzeCategories summarizes every schema category across the batch.
// Records are expected in rank order; the first location holding the max
// (or min) score is reported as top (or bottom) performer.
func AnalyzeCategories[T schema.ScoredResult](records []T, s *schema.Schema) []schema.CategoryInsight {
	insights := make([]schema.CategoryInsight, 0, len(s.Categories))
	if len(records) == 0 {
		return insights
	}
	for _, c := range s.Categories {
		scores := make([]int, len(records))
		for i, r := range records {
			scores[i] = r.GetCategoryScores()[c.Key]
		}
		lo, hi := algo.MinMax(scores)
		insight := schema.CategoryInsight{
			Key:     c.Key,
			Name:    c.Name,
			Average: algo.RoundTo1(algo.Mean(scores)),
			Min:     lo,
			Max:     hi,
			Gap:     hi - lo,
		}
		for i, r := range records {
			if insight.TopPerformer == "" && scores[i] == hi {
				insight.TopPerformer = r.GetLocation()
			}
			if insight.BottomPerformer == "" && scores[i] == lo {
				insight.BottomPerformer = r.GetLocation()
			}
		}
		insights = append(insights, insight)
	}
	return insights
}

// AnalyzeLocations lists strengths and weaknesses of every location.
func AnalyzeLocations[T schema.ScoredResult](records []T, s *schema.Schema, trends map[string]schema.Trend) []schema.LocationInsight {
	insights := make([]schema.LocationInsight, 0, len(records))
	for _, r := range records {
		insight := schema.LocationInsight{
			Location:   r.GetLocation(),
			Rank:       r.GetRank(),
			Score:      r.GetOverallScore(),
			Strengths:  []schema.CategoryScore{},
			Weaknesses: []schema.CategoryScore{},
			Trend:      schema.TrendStable,
		}
		if t, ok := trends[r.GetLocation()]; ok && t.Direction != "" {
			insight.Trend = t.Direction
		}
		for _, c := range s.Categories {
			score := r.GetCategoryScores()[c.Key]
			cs := schema.CategoryScore{Key: c.Key, Name: c.Name, Score: score}
			switch {
			case score >= strengthScore:
				insight.Strengths = append(insight.Strengths, cs)
			case score < weaknessScore:
				insight.Weaknesses = append(insight.Weaknesses, cs)
			}
		}
		insights = append(insights, insight)
	}
	return insights
}

// SummarizeTrends groups the batch by trend direction.
func SummarizeTrends[T schema.ScoredResult](records []T, trends map[string]schema.Trend) schema.TrendSummary {
	summary := schema.TrendSummary{Improving: []string{}, Declining: []string{}}
	for _, r := range records {
		t, ok := trends[r.GetLocation()]
		switch {
		case ok && (t.Direction == schema.TrendImproving || t.ChangePercent > 0):
			summary.Improving = append(summary.Improving, r.GetLocation())
		case ok && (t.Direction == schema.TrendDeclining || t.ChangePercent < 0):
			summary.Declining = append(summary.Declining, r.GetLocation())
		default:
			summary.Stable++
		}
	}
	return summary
}

// GenerateRecommendations derives strategic recommendations from the summaries.
func GenerateRecommendations(summary schema.NetworkSummary, categories []schema.CategoryInsight) []schema.Recommendation {
	recs := make([]schema.Recommendation, 0)
	if summary.TotalLocations > 0 && summary.AverageScore < networkTarget {
		recs = append(recs, schema.Recommendation{
			Type:     "Network-Wide",
			Priority: "High",
			Title:    "Overall Performance Improvement Needed",
			Description: fmt.Sprintf("Network average of %s is below target. Focus on systematic improvements across all locations.",
				formatScore(summary.AverageScore)),
			Actions: []string{"Implement standardized best practices", "Increase training frequency", "Review operational procedures"},
		})
	}
	for _, c := range categories {
		lower := strings.ToLower(c.Name)
		if c.Average < categoryTarget {
			recs = append(recs, schema.Recommendation{
				Type:        "Category-Specific",
				Priority:    "High",
				Title:       fmt.Sprintf("%s Requires Attention", c.Name),
				Description: fmt.Sprintf("Average score of %s indicates systematic issues in %s.", formatScore(c.Average), lower),
				Actions:     []string{fmt.Sprintf("Review %s processes", lower), "Benchmark against top performers", "Implement targeted training"},
			})
		}
		if c.Gap > categoryGapLimit {
			recs = append(recs, schema.Recommendation{
				Type:     "Performance Gap",
				Priority: "Medium",
				Title:    fmt.Sprintf("Large Performance Gap in %s", c.Name),
				Description: fmt.Sprintf("%d-point gap between %s and %s suggests inconsistent practices.",
					c.Gap, c.TopPerformer, c.BottomPerformer),
				Actions: []string{"Share best practices from top performers", "Standardize procedures", "Provide targeted support to underperformers"},
			})
		}
	}
	return recs
}

// AssessRisks flags declining and low performing locations.
func AssessRisks[T schema.ScoredResult](records []T, trends map[string]schema.Trend) []schema.Risk {
	risks := make([]schema.Risk, 0)

	var declining, low []string
	for _, r := range records {
		if t, ok := trends[r.GetLocation()]; ok && t.Direction == schema.TrendDeclining {
			declining = append(declining, r.GetLocation())
		}
		if r.GetOverallScore() < lowPerformerScore {
			low = append(low, r.GetLocation())
		}
	}

	if len(declining) > 0 {
		risks = append(risks, schema.Risk{
			Type:       "Performance Decline",
			Severity:   "Medium",
			Message:    fmt.Sprintf("%d location(s) showing declining performance", len(declining)),
			Locations:  declining,
			Mitigation: "Immediate performance review and intervention required",
		})
	}
	if len(low) > 0 {
		risks = append(risks, schema.Risk{
			Type:       "Low Performance",
			Severity:   "High",
			Message:    fmt.Sprintf("%d location(s) below acceptable performance threshold", len(low)),
			Locations:  low,
			Mitigation: "Urgent intervention and support required",
		})
	}
	return risks
}

// IdentifyBenchmarkGaps compares the network average with the industry standard.
func IdentifyBenchmarkGaps(summary schema.NetworkSummary) []schema.BenchmarkGap {
	gaps := make([]schema.BenchmarkGap, 0)
	if summary.TotalLocations > 0 && summary.AverageScore < benchmarkStandard {
		gaps = append(gaps, schema.BenchmarkGap{
			Metric:  "Overall Performance",
			Current: summary.AverageScore,
			Target:  benchmarkStandard,
			Gap:     algo.RoundTo1(benchmarkStandard - summary.AverageScore),
			Impact:  "Network-wide performance below industry standard",
		})
	}
	return gaps
}

// BuildReport assembles the full analytic report over a ranked batch.
func BuildReport[T schema.ScoredResult](period string, records []T, s *schema.Schema, trends map[string]schema.Trend) schema.AnalysisReport {
	summary := SummarizeNetwork(records)
	categories := AnalyzeCategories(records, s)
	return schema.AnalysisReport{
		Title:           "Location Performance Analysis Report",
		Period:          period,
		GeneratedAt:     time.Now(),
		Summary:         summary,
		Categories:      categories,
		Locations:       AnalyzeLocations(records, s, trends),
		Trends:          SummarizeTrends(records, trends),
		Recommendations: GenerateRecommendations(summary, categories),
		Risks:           AssessRisks(records, trends),
		BenchmarkGaps:   IdentifyBenchmarkGaps(summary),
	}
}
