package schema

import "time"

// Trend is the movement of a location's score into a month.
type Trend struct {
	Direction     TrendDirection `json:"direction"`
	ChangePercent float64        `json:"change_percent"`
	Period        string         `json:"period"`
}

// HistoryPoint is one month of a location's score history.
type HistoryPoint struct {
	Month string `json:"month"`
	Score int    `json:"score"`
}

// RollingResult holds a ranked rolling average and the months it covers.
type RollingResult struct {
	Months         []string           `json:"months"`
	MonthsAveraged int                `json:"months_averaged"`
	StartMonth     string             `json:"start_month"`
	EndMonth       string             `json:"end_month"`
	Records        []AggregatedRecord `json:"records"`
}

// SnapshotResult holds a ranked single-month snapshot with trend decoration.
type SnapshotResult struct {
	Month   string           `json:"month"`
	Records []ScoredRecord   `json:"records"`
	Trends  map[string]Trend `json:"trends,omitempty"`
}

// MetricDetail is the normalized score of one metric for a location.
type MetricDetail struct {
	Category       string  `json:"category"`
	Metric         string  `json:"metric"`
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	Target         float64 `json:"target"`
	HigherIsBetter bool    `json:"higher_is_better"`
}

// LocationDetail is the drill-down view of a single location.
type LocationDetail struct {
	Location    string              `json:"location"`
	Month       string              `json:"month"`
	Record      ScoredRecord        `json:"record"`
	Metrics     []MetricDetail      `json:"metrics"`
	Trend       Trend               `json:"trend"`
	History     []HistoryPoint      `json:"history"`
	Alert       LocationAlert       `json:"alert"`
	Actions     map[string][]string `json:"actions"` // category -> improvement actions
	GeneratedAt time.Time           `json:"generated_at"`
}
