// Package algo holds the pure numeric kernels of location scoring.
package algo

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Normalize converts one raw measurement into a 0-100 score relative to its target.
//
// Meeting the target scores 100 in both directions. For higher-is-better metrics the
// score falls linearly to 0 at half the target; for lower-is-better metrics it falls
// linearly to 0 at double the target. The result is rounded to one decimal.
//
// Invalid input (non-finite raw value, non-finite or non-positive target) scores 0 and
// is reported through the global logger rather than as an error, so that one bad cell
// cannot abort a whole batch. Callers pass the cell's context (location,
// category, metric) as fields so the warning can be traced to a sheet cell.
func Normalize(raw, target float64, higherIsBetter bool, fields ...zap.Field) float64 {
	if !IsFinite(raw) {
		zap.L().Warn("invalid raw value", append(fields, zap.Float64("raw", raw), zap.Float64("target", target))...)
		return 0
	}
	if !IsFinite(target) || target <= 0 {
		zap.L().Warn("invalid target", append(fields, zap.Float64("raw", raw), zap.Float64("target", target))...)
		return 0
	}

	var score float64
	if higherIsBetter {
		if raw >= target {
			return 100
		}
		floor := target * 0.5
		score = (raw - floor) / (target - floor) * 100
	} else {
		if raw <= target {
			return 100
		}
		score = 100 - (raw-target)/target*100
	}
	return RoundTo1(Clamp(score, 0, 100))
}

// ParseRaw coerces a spreadsheet cell into a number.
// Surrounding whitespace and a trailing percent sign are ignored.
func ParseRaw(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(v) {
		return 0, false
	}
	return v, true
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// RoundTo1 rounds to one decimal place, half away from zero.
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundHalfUp rounds to the nearest integer with halves rounded up.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
