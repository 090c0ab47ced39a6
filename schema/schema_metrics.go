package schema

// MetricsMetric is a metric definition prepared for display.
type MetricsMetric struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Weight    float64 `json:"weight"`
	Direction string  `json:"direction"`
	Target    float64 `json:"target"`
	Formula   string  `json:"formula"`
}

// MetricsCategory is a category definition prepared for display.
type MetricsCategory struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Weight      float64         `json:"weight"`
	Metrics     []MetricsMetric `json:"metrics"`
}

// MetricsRenderModel contains all processed data needed for displaying the scoring schema.
type MetricsRenderModel struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Categories     []MetricsCategory `json:"categories"`
	Tiers          TierThresholds    `json:"tiers"`
	OverallFormula string            `json:"overall_formula"`
}
