package schema

import "time"

// PerformanceDistribution counts locations per summary bucket.
type PerformanceDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

// NetworkSummary is the network-level view of a batch of scored results.
type NetworkSummary struct {
	AverageScore   float64                 `json:"average_score"`
	MinScore       int                     `json:"min_score"`
	MaxScore       int                     `json:"max_score"`
	StdDev         float64                 `json:"std_dev"`
	Consistency    string                  `json:"consistency"`
	TotalLocations int                     `json:"total_locations"`
	Distribution   PerformanceDistribution `json:"distribution"`
}

// CategoryInsight summarizes one category across the network.
type CategoryInsight struct {
	Key             string  `json:"key"`
	Name            string  `json:"name"`
	Average         float64 `json:"average"`
	Min             int     `json:"min"`
	Max             int     `json:"max"`
	Gap             int     `json:"gap"`
	TopPerformer    string  `json:"top_performer"`
	BottomPerformer string  `json:"bottom_performer"`
}

// CategoryScore pairs a category with a score for strengths and weaknesses.
type CategoryScore struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// LocationInsight summarizes one location.
type LocationInsight struct {
	Location   string          `json:"location"`
	Rank       int             `json:"rank"`
	Score      int             `json:"score"`
	Strengths  []CategoryScore `json:"strengths"`
	Weaknesses []CategoryScore `json:"weaknesses"`
	Trend      TrendDirection  `json:"trend"`
}

// TrendSummary groups locations by trend direction.
type TrendSummary struct {
	Improving []string `json:"improving"`
	Declining []string `json:"declining"`
	Stable    int      `json:"stable"`
}

// Recommendation is a strategic action item.
type Recommendation struct {
	Type        string   `json:"type"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// Risk is a network risk with affected locations.
type Risk struct {
	Type       string   `json:"type"`
	Severity   string   `json:"severity"`
	Message    string   `json:"message"`
	Locations  []string `json:"locations"`
	Mitigation string   `json:"mitigation"`
}

// BenchmarkGap is a shortfall against an industry benchmark.
type BenchmarkGap struct {
	Metric  string  `json:"metric"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Gap     float64 `json:"gap"`
	Impact  string  `json:"impact"`
}

// AnalysisReport is the full analytic report over one batch.
type AnalysisReport struct {
	Title           string            `json:"title"`
	Period          string            `json:"period"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Summary         NetworkSummary    `json:"summary"`
	Categories      []CategoryInsight `json:"categories"`
	Locations       []LocationInsight `json:"locations"`
	Trends          TrendSummary      `json:"trends"`
	Recommendations []Recommendation  `json:"recommendations"`
	Risks           []Risk            `json:"risks"`
	BenchmarkGaps   []BenchmarkGap    `json:"benchmark_gaps"`
}
