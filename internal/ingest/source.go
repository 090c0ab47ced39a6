package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
	"golang.org/x/sync/errgroup"
)

// SheetSource loads measurements and an optional benchmark row.
type SheetSource struct {
	Fetcher      *Fetcher
	DataURL      string
	BenchmarkURL string // empty means no benchmarks
	Schema       *schema.Schema
}

var _ contract.DataSource = &SheetSource{} // Compile-time check

// NewDataSource builds the configured source, or nil when no data URL is set.
func NewDataSource(cfg *contract.Config, store contract.CacheStore) contract.DataSource {
	if cfg.DataURL == "" {
		return nil
	}
	return &SheetSource{
		Fetcher:      NewFetcher(store, cfg.CacheTTL),
		DataURL:      cfg.DataURL,
		BenchmarkURL: cfg.BenchmarkURL,
		Schema:       cfg.Schema,
	}
}

// Fetch loads both sheets concurrently. Either failure fails the whole fetch.
func (s *SheetSource) Fetch(ctx context.Context) (*contract.SourcePayload, error) {
	g, ctx := errgroup.WithContext(ctx)

	var rows []schema.RawMeasurement
	g.Go(func() error {
		data, err := s.Fetcher.Fetch(ctx, s.DataURL)
		if err != nil {
			return err
		}
		rows, err = ParseMeasurements(bytes.NewReader(data), s.Schema)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", s.DataURL, err)
		}
		return nil
	})

	var (
		benchmarks    schema.BenchmarkTable
		hasBenchmarks bool
	)
	if s.BenchmarkURL != "" {
		g.Go(func() error {
			data, err := s.Fetcher.Fetch(ctx, s.BenchmarkURL)
			if err != nil {
				return err
			}
			benchmarks, hasBenchmarks, err = ParseBenchmarks(bytes.NewReader(data), s.Schema)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", s.BenchmarkURL, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	source := schema.SourceFile
	if IsRemote(s.DataURL) {
		source = schema.SourceLive
	}
	return &contract.SourcePayload{
		Rows:          rows,
		Benchmarks:    benchmarks,
		HasBenchmarks: hasBenchmarks,
		Source:        source,
	}, nil
}
