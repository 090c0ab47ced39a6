//go:build basic

// Package integration contains end-to-end tests for the locscore binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseArgs keep the binary away from the user's cache and config.
func baseArgs(dir string, args ...string) []string {
	return append(args,
		"--data-url", filepath.Join(dir, "metrics.csv"),
		"--cache-backend", "none",
		"--color", "no",
	)
}

func TestSnapshotVerification(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir)

	out, err := runLocscore(t, dir, baseArgs(dir, "snapshot", "--output", "json")...)
	require.NoError(t, err)

	var result struct {
		Dataset struct {
			Source   string   `json:"source"`
			Degraded bool     `json:"degraded"`
			Months   []string `json:"months"`
		} `json:"dataset"`
		Month   string `json:"month"`
		Records []struct {
			Location     string `json:"location"`
			OverallScore int    `json:"overall_score"`
			Rank         int    `json:"rank"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "file", result.Dataset.Source)
	assert.False(t, result.Dataset.Degraded)
	assert.Equal(t, []string{"2024-01", "2024-02"}, result.Dataset.Months)
	assert.Equal(t, "2024-02", result.Month)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "Alpha Clinic", result.Records[0].Location)
	assert.Equal(t, 1, result.Records[0].Rank)
	assert.Greater(t, result.Records[0].OverallScore, result.Records[1].OverallScore)
}

func TestSnapshotCSVMatchesJSON(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir)

	jsonOut, err := runLocscore(t, dir, baseArgs(dir, "snapshot", "--month", "2024-01", "--output", "json")...)
	require.NoError(t, err)
	var result struct {
		Records []struct {
			Location     string `json:"location"`
			OverallScore int    `json:"overall_score"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &result))

	csvOut, err := runLocscore(t, dir, baseArgs(dir, "snapshot", "--month", "2024-01", "--output", "csv")...)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(csvOut)).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, len(result.Records)+1)
	assert.Equal(t, []string{"Rank", "Clinic", "Overall Score", "Performance Rating"}, rows[0][:4])
	for i, rec := range result.Records {
		assert.Equal(t, rec.Location, rows[i+1][1])
		assert.Equal(t, rec.OverallScore, atoi(t, rows[i+1][2]))
	}
}

func TestCompareVerification(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir)

	out, err := runLocscore(t, dir, baseArgs(dir, "compare", "--output", "json")...)
	require.NoError(t, err)

	var result struct {
		BaseMonth   string `json:"base_month"`
		TargetMonth string `json:"target_month"`
		Details     []struct {
			Location string `json:"location"`
			Delta    int    `json:"delta"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "2024-01", result.BaseMonth)
	assert.Equal(t, "2024-02", result.TargetMonth)
	require.NotEmpty(t, result.Details)
	assert.Equal(t, "Beta Clinic", result.Details[0].Location, "largest change comes first")
	assert.Positive(t, result.Details[0].Delta)
}

func TestTextCommands(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"months", []string{"months"}, "2 month(s) available"},
		{"rolling", []string{"rolling", "--months", "2"}, "Rolling average over 2 month(s)"},
		{"location", []string{"location", "beta clinic"}, "Beta Clinic"},
		{"report", []string{"report"}, "NETWORK PERFORMANCE SUMMARY"},
		{"metrics", []string{"metrics"}, "Tiers:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runLocscore(t, dir, baseArgs(dir, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestInvalidMonthFails(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir)

	_, err := runLocscore(t, dir, baseArgs(dir, "snapshot", "--month", "March")...)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	_, err := runLocscore(t, t.TempDir(), "version")
	require.NoError(t, err)
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	v, err := strconv.Atoi(s)
	require.NoError(t, err)
	return v
}
