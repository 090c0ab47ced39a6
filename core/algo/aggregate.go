package algo

import (
	"github.com/huangsam/locscore/schema"
)

// WeightedScore is a normalized metric score with its metric weight.
type WeightedScore struct {
	Score  float64
	Weight float64
}

// AggregateCategory returns the weighted mean of the present metric scores,
// rounded half-up. Only the given scores count towards the denominator, so a
// missing metric is excluded rather than zero-filled. With nothing present, or
// only zero weights, the category scores 0.
func AggregateCategory(scores []WeightedScore) int {
	var sum, totalWeight float64
	for _, s := range scores {
		sum += s.Score * s.Weight
		totalWeight += s.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return clampScore(RoundHalfUp(sum / totalWeight))
}

// ScoreOverall combines category scores with the schema's category weights.
// Every schema category contributes; one absent from categoryScores counts as 0.
func ScoreOverall(categoryScores map[string]int, s *schema.Schema) int {
	var total float64
	for _, c := range s.Categories {
		total += float64(categoryScores[c.Key]) * c.Weight
	}
	return clampScore(RoundHalfUp(total))
}

// TierFor evaluates the tier bands top-down; thresholds are inclusive lower bounds.
func TierFor(score int, th schema.TierThresholds) schema.Tier {
	v := float64(score)
	switch {
	case v >= th.Excellent:
		return schema.TierExcellent
	case v >= th.Good:
		return schema.TierGood
	case v >= th.Average:
		return schema.TierAverage
	case v >= th.Poor:
		return schema.TierPoor
	default:
		return schema.TierCritical
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
