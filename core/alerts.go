package core

import (
	"fmt"
	"sort"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/schema"
)

// alertRank orders alert levels from most to least severe.
var alertRank = map[schema.AlertLevel]int{
	schema.AlertCritical: 0,
	schema.AlertWarning:  1,
	schema.AlertOK:       2,
}

// EvaluateAlert returns the alert level of a location. A location is critical
// when its overall score or any category falls under the critical bounds, and
// a warning when it falls under the warning bounds.
func EvaluateAlert(r schema.ScoredResult, s *schema.Schema, th schema.AlertThresholds) schema.LocationAlert {
	alert := schema.LocationAlert{
		Location: r.GetLocation(),
		Level:    schema.AlertOK,
		Overall:  r.GetOverallScore(),
		Reasons:  []string{},
	}

	raise := func(level schema.AlertLevel, reason string) {
		if alertRank[level] < alertRank[alert.Level] {
			alert.Level = level
		}
		alert.Reasons = append(alert.Reasons, reason)
	}

	overall := float64(r.GetOverallScore())
	switch {
	case overall < th.CriticalOverall:
		raise(schema.AlertCritical, fmt.Sprintf("overall score %d below %g", r.GetOverallScore(), th.CriticalOverall))
	case overall < th.WarningOverall:
		raise(schema.AlertWarning, fmt.Sprintf("overall score %d below %g", r.GetOverallScore(), th.WarningOverall))
	}

	for _, c := range s.Categories {
		score := r.GetCategoryScores()[c.Key]
		switch {
		case float64(score) < th.CriticalCategory:
			raise(schema.AlertCritical, fmt.Sprintf("%s score %d below %g", c.Name, score, th.CriticalCategory))
		case float64(score) < th.WarningCategory:
			raise(schema.AlertWarning, fmt.Sprintf("%s score %d below %g", c.Name, score, th.WarningCategory))
		}
	}
	return alert
}

// CheckAlerts evaluates every location of a batch. The check passes when no
// location is critical. Alerts list non-ok locations, most severe first.
func CheckAlerts[T schema.ScoredResult](period string, records []T, s *schema.Schema, th schema.AlertThresholds) schema.CheckResult {
	result := schema.CheckResult{
		Period:         period,
		TotalLocations: len(records),
		Thresholds:     th,
		Alerts:         []schema.LocationAlert{},
		Counts:         map[schema.AlertLevel]int{schema.AlertCritical: 0, schema.AlertWarning: 0, schema.AlertOK: 0},
		AtTarget:       []string{},
		AvgCategory:    make(map[string]float64, len(s.Categories)),
	}

	for _, r := range records {
		alert := EvaluateAlert(r, s, th)
		result.Counts[alert.Level]++
		if alert.Level != schema.AlertOK {
			result.Alerts = append(result.Alerts, alert)
		}
		if float64(r.GetOverallScore()) >= th.TargetOverall {
			result.AtTarget = append(result.AtTarget, r.GetLocation())
		}
	}
	sort.SliceStable(result.Alerts, func(i, j int) bool {
		return alertRank[result.Alerts[i].Level] < alertRank[result.Alerts[j].Level]
	})

	for _, c := range s.Categories {
		scores := make([]int, len(records))
		for i, r := range records {
			scores[i] = r.GetCategoryScores()[c.Key]
		}
		result.AvgCategory[c.Key] = algo.RoundTo1(algo.Mean(scores))
	}

	result.Passed = result.Counts[schema.AlertCritical] == 0
	return result
}
