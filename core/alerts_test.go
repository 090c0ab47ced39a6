package core

import (
	"testing"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateAlert(t *testing.T) {
	th := schema.DefaultAlertThresholds()
	s := testSchema()

	tests := []struct {
		name    string
		record  schema.AggregatedRecord
		level   schema.AlertLevel
		reasons []string
	}{
		{"healthy", agg("A", 1, 90, 92, 88), schema.AlertOK, []string{}},
		{"warning overall and category", agg("B", 2, 72, 80, 60), schema.AlertWarning,
			[]string{"overall score 72 below 75", "Volume score 60 below 70"}},
		{"critical category wins", agg("C", 3, 65, 45, 90), schema.AlertCritical,
			[]string{"overall score 65 below 75", "Quality score 45 below 50"}},
		{"critical overall", agg("D", 4, 40, 75, 75), schema.AlertCritical,
			[]string{"overall score 40 below 60"}},
		{"boundary is inclusive", agg("E", 5, 75, 70, 70), schema.AlertOK, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := EvaluateAlert(tt.record, s, th)
			assert.Equal(t, tt.level, alert.Level)
			assert.Equal(t, tt.reasons, alert.Reasons)
			assert.Equal(t, tt.record.OverallScore, alert.Overall)
		})
	}
}

func TestCheckAlerts(t *testing.T) {
	records := []schema.AggregatedRecord{
		agg("Good", 1, 90, 92, 88),
		agg("Warn", 2, 72, 80, 60),
		agg("Crit", 3, 65, 45, 90),
	}
	result := CheckAlerts("2024-03", records, testSchema(), schema.DefaultAlertThresholds())

	assert.False(t, result.Passed)
	assert.Equal(t, "2024-03", result.Period)
	assert.Equal(t, 3, result.TotalLocations)
	require.Len(t, result.Alerts, 2)
	assert.Equal(t, "Crit", result.Alerts[0].Location)
	assert.Equal(t, "Warn", result.Alerts[1].Location)
	assert.Equal(t, map[schema.AlertLevel]int{
		schema.AlertCritical: 1,
		schema.AlertWarning:  1,
		schema.AlertOK:       1,
	}, result.Counts)
	assert.Equal(t, []string{"Good"}, result.AtTarget)
	assert.InDelta(t, 72.3, result.AvgCategory["quality"], 1e-9)
	assert.InDelta(t, 79.3, result.AvgCategory["volume"], 1e-9)
}

func TestCheckAlertsPasses(t *testing.T) {
	result := CheckAlerts("p", []schema.AggregatedRecord{agg("Warn", 1, 72, 80, 60)}, testSchema(), schema.DefaultAlertThresholds())
	assert.True(t, result.Passed, "warnings alone do not fail the check")
	assert.Empty(t, result.AtTarget)

	empty := CheckAlerts("p", []schema.ScoredRecord{}, testSchema(), schema.DefaultAlertThresholds())
	assert.True(t, empty.Passed)
	assert.Equal(t, 0, empty.Counts[schema.AlertCritical])
	assert.NotNil(t, empty.Alerts)
}
