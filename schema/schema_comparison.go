package schema

// ComparisonDetail holds one location's base and target scores and their deltas.
type ComparisonDetail struct {
	Location       string         `json:"location"`
	BeforeScore    int            `json:"before_score"`    // Overall score in the base month
	AfterScore     int            `json:"after_score"`     // Overall score in the target month
	Delta          int            `json:"delta"`           // AfterScore - BeforeScore (positive means improvement)
	CategoryDeltas map[string]int `json:"category_deltas"` // category -> after - before
	BeforeTier     Tier           `json:"before_tier,omitempty"`
	AfterTier      Tier           `json:"after_tier,omitempty"`
	Status         Status         `json:"status"`
}

// TierChanged reports whether the location moved between tiers.
func (d ComparisonDetail) TierChanged() bool {
	return d.Status == ActiveStatus && d.BeforeTier != d.AfterTier
}

// ComparisonSummary has high-level deltas and counts.
type ComparisonSummary struct {
	// 1. Net Score Delta
	NetScoreDelta int `json:"net_score_delta"`

	// 2. Location Status Counts
	TotalNewLocations      int `json:"total_new_locations"`
	TotalInactiveLocations int `json:"total_inactive_locations"`
	TotalActiveLocations   int `json:"total_active_locations"`

	// 3. Direction Counts
	TotalImproved int `json:"total_improved"`
	TotalDeclined int `json:"total_declined"`

	// 4. Tier Changes
	TotalTierChanges int `json:"total_tier_changes"`
}

// ComparisonResult holds the comparison details and summary.
type ComparisonResult struct {
	BaseMonth   string             `json:"base_month"`
	TargetMonth string             `json:"target_month"`
	Details     []ComparisonDetail `json:"details"`
	Summary     ComparisonSummary  `json:"summary"`
}
