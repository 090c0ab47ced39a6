package core

import (
	"context"
	"errors"
	"sync"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
	"go.uber.org/zap"
)

// historyMonths bounds the score history kept per location.
const historyMonths = 12

// errNoScorableRows marks a fetch that succeeded but yielded an empty index.
var errNoScorableRows = errors.New("source produced no scorable rows")

// Loader builds dataset generations and publishes them to a holder.
// Load may be called concurrently; fetches overlap, builds are serialized.
type Loader struct {
	Source     contract.DataSource // nil means sample data only
	Sample     *SampleGenerator
	Schema     *schema.Schema
	Thresholds schema.TierThresholds
	Trends     TrendProvider
	Holder     *DatasetHolder

	mu sync.Mutex // guards the random generators of Sample and Trends
}

// NewLoader creates a loader for the given configuration.
func NewLoader(cfg *contract.Config, source contract.DataSource, holder *DatasetHolder) *Loader {
	return &Loader{
		Source:     source,
		Sample:     NewSampleGenerator(cfg.Schema, cfg.SampleClinics, cfg.SampleMonths, cfg.Seed),
		Schema:     cfg.Schema,
		Thresholds: cfg.TierThresholds,
		Trends:     NewTrendProvider(cfg.TrendProvider, NewRand(cfg.Seed)),
		Holder:     holder,
	}
}

// Load fetches rows, falls back to sample data when the fetch fails, builds a
// fresh index and publishes it. The returned dataset is the one this call
// built, which may already be superseded by a build that started later.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	seq := l.Holder.Reserve()

	var (
		rows       []schema.RawMeasurement
		benchmarks schema.BenchmarkTable
		source     = schema.SourceSample
		fetchErr   error
	)
	if l.Source != nil {
		payload, err := l.Source.Fetch(ctx)
		if err != nil {
			fetchErr = err
		} else {
			rows, source = payload.Rows, payload.Source
			if payload.HasBenchmarks {
				benchmarks = payload.Benchmarks
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sc := NewScorer(l.Schema, benchmarks, l.Thresholds)
	var idx schema.MonthlyIndex
	if l.Source != nil && fetchErr == nil {
		idx = sc.BuildIndex(rows)
		if len(idx) == 0 {
			fetchErr = errNoScorableRows
		}
	}
	if l.Source == nil || fetchErr != nil {
		sc = NewScorer(l.Schema, nil, l.Thresholds)
		idx = sc.BuildIndex(l.Sample.Generate())
		source = schema.SourceSample
	}

	ds := NewDataset(seq, source, sc, idx)
	if fetchErr != nil {
		contract.LogWarn("Using sample data", fetchErr)
		ds.Degraded = true
		ds.DegradedReason = fetchErr.Error()
	}
	if latest := idx.LatestMonth(); latest != "" && l.Trends != nil {
		ds.Trends = ComputeTrends(l.Trends, idx, latest)
		ds.Histories = ComputeHistories(l.Trends, idx, historyMonths)
	}

	if !l.Holder.Publish(ds) {
		zap.L().Info("dataset superseded by a newer build",
			zap.String("generation", ds.Generation),
			zap.Uint64("sequence", seq))
	}
	return ds, nil
}
