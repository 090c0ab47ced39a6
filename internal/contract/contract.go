// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/locscore/schema"
)

// SourcePayload is what a DataSource delivers for one load.
type SourcePayload struct {
	Rows          []schema.RawMeasurement
	Benchmarks    schema.BenchmarkTable // nil when no benchmark feed was configured
	HasBenchmarks bool
	Source        schema.DataSource
}

// DataSource defines the ingestion collaborator that supplies raw rows.
// A failed fetch is a hard error; callers decide how to degrade.
type DataSource interface {
	Fetch(ctx context.Context) (*SourcePayload, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetFetchStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking scoring runs and storing location scores.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, generation string, source schema.DataSource, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalLocations int) error

	// RecordLocationScores stores the scored records of a run in one transaction
	RecordLocationScores(analysisID int64, records []schema.ScoredRecord) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllLocationScores returns every recorded location score
	GetAllLocationScores() ([]schema.LocationScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
