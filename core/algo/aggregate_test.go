package algo

import (
	"testing"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
)

func TestAggregateCategory(t *testing.T) {
	tests := []struct {
		name     string
		scores   []WeightedScore
		expected int
	}{
		{"weighted mean", []WeightedScore{{80, 0.6}, {60, 0.4}}, 72},
		{"none present", nil, 0},
		{"zero weights", []WeightedScore{{80, 0}, {60, 0}}, 0},
		{"single present metric", []WeightedScore{{55.5, 0.25}}, 56},
		{"partial weights renormalize", []WeightedScore{{100, 0.2}, {50, 0.2}}, 75},
		{"half rounds up", []WeightedScore{{72.5, 1}}, 73},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AggregateCategory(tt.scores))
		})
	}
}

func TestAggregateCategoryIdentity(t *testing.T) {
	for _, s := range []float64{0, 12.3, 50, 66.7, 99.9, 100} {
		scores := []WeightedScore{{s, 0.35}, {s, 0.25}, {s, 0.25}, {s, 0.15}}
		assert.Equal(t, RoundHalfUp(s), AggregateCategory(scores), "s=%v", s)
	}
}

func TestAggregateCategoryExclusion(t *testing.T) {
	full := []WeightedScore{{90, 0.5}, {40, 0.5}}
	assert.Equal(t, 65, AggregateCategory(full))
	assert.Equal(t, 90, AggregateCategory(full[:1]))

	zeroWeight := []WeightedScore{{90, 0.5}, {40, 0}}
	assert.Equal(t, AggregateCategory(zeroWeight[:1]), AggregateCategory(zeroWeight))
}

func TestScoreOverall(t *testing.T) {
	s := &schema.Schema{Categories: []schema.CategoryDefinition{
		{Key: "a", Weight: 0.7},
		{Key: "b", Weight: 0.3},
	}}

	assert.Equal(t, 77, ScoreOverall(map[string]int{"a": 72, "b": 90}, s))
	assert.Equal(t, 50, ScoreOverall(map[string]int{"a": 72, "b": 0}, s))
	assert.Equal(t, 50, ScoreOverall(map[string]int{"a": 72}, s), "missing category contributes 0")
	assert.Equal(t, 100, ScoreOverall(map[string]int{"a": 100, "b": 100}, s))
}

func TestTierFor(t *testing.T) {
	th := schema.DefaultTierThresholds()
	tests := []struct {
		score    int
		expected schema.Tier
	}{
		{100, schema.TierExcellent},
		{90, schema.TierExcellent},
		{89, schema.TierGood},
		{80, schema.TierGood},
		{79, schema.TierAverage},
		{77, schema.TierAverage},
		{70, schema.TierAverage},
		{69, schema.TierPoor},
		{60, schema.TierPoor},
		{59, schema.TierCritical},
		{0, schema.TierCritical},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, TierFor(tt.score, th), "score=%d", tt.score)
		})
	}
}

func TestTierForCustomThresholds(t *testing.T) {
	th := schema.TierThresholds{Excellent: 95, Good: 85, Average: 75, Poor: 65}
	assert.Equal(t, schema.TierGood, TierFor(90, th))
	assert.Equal(t, schema.TierCritical, TierFor(64, th))
}
