package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteAnalysisExport(t *testing.T) {
	store := newMemoryAnalysisStore(t)
	id, err := store.BeginAnalysis(time.Now(), "g", schema.SourceSample, map[string]any{"months": 3})
	require.NoError(t, err)
	require.NoError(t, store.RecordLocationScores(id, scoredRecords()))
	require.NoError(t, store.EndAnalysis(id, time.Now(), 2))

	out := filepath.Join(t.TempDir(), "export")
	var buf bytes.Buffer
	require.NoError(t, ExecuteAnalysisExport(store, out, &buf))

	for _, suffix := range []string{".analysis_runs.parquet", ".location_scores.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, buf.String(), "Exported 1 analysis runs")
	assert.Contains(t, buf.String(), "Exported 2 location scores")
}

func TestExecuteAnalysisExportErrors(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		err := ExecuteAnalysisExport(&MockAnalysisStore{}, "", &bytes.Buffer{})
		assert.ErrorContains(t, err, "--output-file is required")
	})

	t.Run("no store", func(t *testing.T) {
		assert.Error(t, ExecuteAnalysisExport(nil, "out", &bytes.Buffer{}))
	})

	t.Run("no runs", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{Backend: "sqlite", Connected: true}, nil)
		err := ExecuteAnalysisExport(store, "out", &bytes.Buffer{})
		assert.ErrorContains(t, err, "no analysis data found")
		store.AssertExpectations(t)
	})

	t.Run("query failure", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{TotalRuns: 1}, nil)
		store.On("GetAllAnalysisRuns").Return(nil, errors.New("boom"))
		err := ExecuteAnalysisExport(store, filepath.Join(t.TempDir(), "out"), &bytes.Buffer{})
		assert.ErrorContains(t, err, "failed to retrieve analysis runs")
		store.AssertNotCalled(t, "GetAllLocationScores")
	})
}

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    2,
		LastEntryTime:   time.Date(2024, 6, 2, 8, 0, 0, 0, time.Local),
		OldestEntryTime: time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local),
		TableSizeBytes:  8192,
	})
	assert.Contains(t, buf.String(), "Total Entries: 2\n")
	assert.Contains(t, buf.String(), "Last Entry: 2024-06-02 08:00:00\n")
	assert.Contains(t, buf.String(), "Table Size: 8192 bytes\n")
}

func TestPrintAnalysisStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintAnalysisStatus(&buf, schema.AnalysisStatus{
		Backend:             "sqlite",
		Connected:           true,
		TotalRuns:           3,
		LastRunID:           3,
		TotalLocationScores: 30,
		TableSizes:          map[string]int64{locationScoresTable: 30, analysisRunsTable: 3},
	})
	out := buf.String()
	assert.Contains(t, out, "Total Location Scores: 30\n")
	assert.Contains(t, out, "  locscore_analysis_runs: 3 rows\n  locscore_location_scores: 30 rows\n", "tables are sorted")
}
