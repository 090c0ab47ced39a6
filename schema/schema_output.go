package schema

// GetPlainLabel returns the capitalized plain label of a tier.
func GetPlainLabel(t Tier) string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	case TierAverage:
		return "Average"
	case TierPoor:
		return "Poor"
	default:
		return "Critical"
	}
}

// TrendArrow returns a one-character marker for a trend direction.
func TrendArrow(d TrendDirection) string {
	switch d {
	case TrendImproving:
		return "↑"
	case TrendDeclining:
		return "↓"
	default:
		return "→"
	}
}
