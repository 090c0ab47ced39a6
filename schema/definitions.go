package schema

// MetricDefinition is the static configuration of one measured quantity.
type MetricDefinition struct {
	Key            string  `json:"key" yaml:"key"`
	Name           string  `json:"name" yaml:"name"`
	Unit           string  `json:"unit" yaml:"unit"`
	Description    string  `json:"description,omitempty" yaml:"description"`
	Column         string  `json:"column" yaml:"column"` // Header of the metric in the spreadsheet export
	Weight         float64 `json:"weight" yaml:"weight"`
	HigherIsBetter bool    `json:"higher_is_better" yaml:"higher_is_better"`
	Target         float64 `json:"target" yaml:"target"`
}

// CategoryDefinition is a weighted, ordered group of metrics.
type CategoryDefinition struct {
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Weight      float64            `json:"weight"`
	Metrics     []MetricDefinition `json:"metrics"`
}

// Metric returns the metric definition with the given key.
func (c *CategoryDefinition) Metric(key string) (*MetricDefinition, bool) {
	for i := range c.Metrics {
		if c.Metrics[i].Key == key {
			return &c.Metrics[i], true
		}
	}
	return nil, false
}

// Schema is the read-only scoring configuration shared by every scoring call.
// It is built once at process start and passed by pointer.
type Schema struct {
	LocationColumn string               `json:"location_column"`
	DateColumn     string               `json:"date_column"`
	Categories     []CategoryDefinition `json:"categories"`
}

// Category returns the category definition with the given key.
func (s *Schema) Category(key string) (*CategoryDefinition, bool) {
	for i := range s.Categories {
		if s.Categories[i].Key == key {
			return &s.Categories[i], true
		}
	}
	return nil, false
}

// CategoryKeys returns the category keys in schema order.
func (s *Schema) CategoryKeys() []string {
	keys := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		keys[i] = c.Key
	}
	return keys
}

// CategoryName returns the display name of a category, or the key when unknown.
func (s *Schema) CategoryName(key string) string {
	if c, ok := s.Category(key); ok {
		return c.Name
	}
	return key
}

// MetricCount returns the number of metrics across all categories.
func (s *Schema) MetricCount() int {
	n := 0
	for _, c := range s.Categories {
		n += len(c.Metrics)
	}
	return n
}

// BenchmarkTable maps category key -> metric key -> effective target.
type BenchmarkTable map[string]map[string]float64

// Target returns the benchmark target for a metric if one is present.
func (b BenchmarkTable) Target(category, metric string) (float64, bool) {
	if b == nil {
		return 0, false
	}
	metrics, ok := b[category]
	if !ok {
		return 0, false
	}
	v, ok := metrics[metric]
	return v, ok
}

// Set stores a target for a metric, allocating the category map as needed.
func (b BenchmarkTable) Set(category, metric string, target float64) {
	if _, ok := b[category]; !ok {
		b[category] = make(map[string]float64)
	}
	b[category][metric] = target
}

// DefaultBenchmarks builds a benchmark table from the static schema targets.
func DefaultBenchmarks(s *Schema) BenchmarkTable {
	table := make(BenchmarkTable, len(s.Categories))
	for _, c := range s.Categories {
		for _, m := range c.Metrics {
			table.Set(c.Key, m.Key, m.Target)
		}
	}
	return table
}

// TierThresholds holds the inclusive lower bounds of the tier bands.
// Anything below Poor is critical.
type TierThresholds struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Average   float64 `json:"average"`
	Poor      float64 `json:"poor"`
}

// DefaultTierThresholds returns the default 90/80/70/60 bands.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{Excellent: 90, Good: 80, Average: 70, Poor: 60}
}

// AlertThresholds drives the alert level of a location.
type AlertThresholds struct {
	CriticalOverall  float64 `json:"critical_overall"`
	CriticalCategory float64 `json:"critical_category"`
	WarningOverall   float64 `json:"warning_overall"`
	WarningCategory  float64 `json:"warning_category"`
	TargetOverall    float64 `json:"target_overall"`
	TargetCategory   float64 `json:"target_category"`
}

// DefaultAlertThresholds returns the default alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		CriticalOverall:  60,
		CriticalCategory: 50,
		WarningOverall:   75,
		WarningCategory:  70,
		TargetOverall:    85,
		TargetCategory:   80,
	}
}
