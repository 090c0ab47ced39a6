package schema

// LocationAlert is the alert state of one location.
type LocationAlert struct {
	Location string     `json:"location"`
	Level    AlertLevel `json:"level"`
	Overall  int        `json:"overall"`
	Reasons  []string   `json:"reasons"`
}

// CheckResult holds the results of an alert check over a batch.
type CheckResult struct {
	Passed         bool               `json:"passed"`
	Period         string             `json:"period"`
	TotalLocations int                `json:"total_locations"`
	Thresholds     AlertThresholds    `json:"thresholds"`
	Alerts         []LocationAlert    `json:"alerts"`
	Counts         map[AlertLevel]int `json:"counts"`
	AtTarget       []string           `json:"at_target"` // Locations meeting the overall target
	AvgCategory    map[string]float64 `json:"avg_category"`
}
