package core

import (
	"testing"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMetricsRenderModel(t *testing.T) {
	model := BuildMetricsRenderModel(testSchema(), nil, schema.DefaultTierThresholds())
	assert.Equal(t, "Location Scoring Model", model.Title)
	assert.NotEmpty(t, model.Description)
	assert.Equal(t, "overall = round(0.70*quality + 0.30*volume)", model.OverallFormula)
	assert.Equal(t, schema.DefaultTierThresholds(), model.Tiers)

	require.Len(t, model.Categories, 2)
	quality := model.Categories[0]
	assert.Equal(t, "Quality", quality.Name)
	require.Len(t, quality.Metrics, 2)
	assert.Equal(t, "higher is better", quality.Metrics[0].Direction)
	assert.Equal(t, higherFormula, quality.Metrics[0].Formula)
	assert.InDelta(t, 100.0, quality.Metrics[0].Target, 1e-9)
}

func TestBuildMetricsRenderModelDefaultSchema(t *testing.T) {
	model := BuildMetricsRenderModel(schema.DefaultSchema(), nil, schema.DefaultTierThresholds())
	require.Len(t, model.Categories, 4)
	assert.Equal(t,
		"overall = round(0.30*financial + 0.35*operational + 0.25*patientExperience + 0.10*staffing)",
		model.OverallFormula)

	expense := model.Categories[0].Metrics[2]
	assert.Equal(t, "operatingExpenseRatio", expense.Key)
	assert.Equal(t, "lower is better", expense.Direction)
	assert.Equal(t, lowerFormula, expense.Formula)
}

func TestBuildMetricsRenderModelBenchmarks(t *testing.T) {
	benchmarks := schema.BenchmarkTable{}
	benchmarks.Set("volume", "v", 42)
	model := BuildMetricsRenderModel(testSchema(), benchmarks, schema.DefaultTierThresholds())
	assert.InDelta(t, 42.0, model.Categories[1].Metrics[0].Target, 1e-9)
}
