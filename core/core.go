// Package core has the scoring pipeline: index building, temporal aggregation,
// dataset generations, analytics and the command entry points.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/internal/ingest"
	"github.com/huangsam/locscore/internal/outwriter"
	"github.com/huangsam/locscore/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// LoadDataset builds a dataset generation for a one-shot command, unless the
// context already carries one.
func LoadDataset(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*Dataset, error) {
	if ds, ok := datasetFromContext(ctx); ok {
		return ds, nil
	}
	var fetchStore contract.CacheStore
	if mgr != nil {
		fetchStore = mgr.GetFetchStore()
	}
	source := ingest.NewDataSource(cfg, fetchStore)
	return NewLoader(cfg, source, NewDatasetHolder()).Load(ctx)
}

// ExecuteSnapshot prints the ranked snapshot of one month (latest by default).
func ExecuteSnapshot(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	result, err := BuildSnapshot(ds, cfg.Month)
	if err != nil {
		return err
	}
	recordRun(mgr, cfg, ds, "snapshot", result.Records)
	result.Records = algo.Limit(result.Records, cfg.ResultLimit)
	return outwriter.WriteSnapshot(result, ds.Info(), cfg, time.Since(start))
}

// ExecuteRolling prints the rolling average over the configured window.
func ExecuteRolling(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	result, err := RollingWindow(ds.Index, cfg.Month, cfg.Months, ds.Thresholds)
	if err != nil {
		return err
	}
	recordRun(mgr, cfg, ds, "rolling", recordsForMonths(ds.Index, result.Months))
	result.Records = algo.Limit(result.Records, cfg.ResultLimit)
	return outwriter.WriteRolling(result, ds.Info(), cfg, time.Since(start))
}

// ExecuteMonths prints every month of the dataset with its location count.
func ExecuteMonths(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteMonths(MonthSummaries(ds.Index), ds.Info(), cfg, time.Since(start))
}

// ExecuteCompare compares two months (previous vs latest by default).
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	base, target, err := ResolveComparisonMonths(ds.Index, cfg.BaseMonth, cfg.TargetMonth)
	if err != nil {
		return err
	}
	result, err := CompareMonths(ds.Index, base, target, cfg.ResultLimit)
	if err != nil {
		return err
	}
	recordRun(mgr, cfg, ds, "compare", recordsForMonths(ds.Index, []string{base, target}))
	return outwriter.WriteComparison(result, ds.Info(), cfg, time.Since(start))
}

// ExecuteLocation prints the drill-down view of one location.
func ExecuteLocation(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	detail, err := DescribeLocation(ds, name, cfg.Month, cfg.AlertThresholds)
	if err != nil {
		return err
	}
	return outwriter.WriteLocation(detail, ds.Info(), cfg, time.Since(start))
}

// ExecuteReport prints the analytic report over a snapshot or the rolling window.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	report, months, err := BuildAnalysisReport(ds, cfg.Month, cfg.Months, cfg.Rolling)
	if err != nil {
		return err
	}
	recordRun(mgr, cfg, ds, "report", recordsForMonths(ds.Index, months))
	return outwriter.WriteReport(report, ds.Info(), cfg, time.Since(start))
}

// ExecuteCheck evaluates alert levels and fails when any location is critical.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	ds, err := LoadDataset(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	var result schema.CheckResult
	var months []string
	if cfg.Rolling {
		rolling, err := RollingWindow(ds.Index, cfg.Month, cfg.Months, ds.Thresholds)
		if err != nil {
			return err
		}
		months = rolling.Months
		result = CheckAlerts(rollingPeriod(rolling), rolling.Records, ds.Schema, cfg.AlertThresholds)
	} else {
		month, err := ResolveMonth(ds.Index, cfg.Month)
		if err != nil {
			return err
		}
		records, err := Snapshot(ds.Index, month)
		if err != nil {
			return err
		}
		months = []string{month}
		result = CheckAlerts(month, records, ds.Schema, cfg.AlertThresholds)
	}
	recordRun(mgr, cfg, ds, "check", recordsForMonths(ds.Index, months))

	if err := outwriter.WriteCheck(result, ds.Info(), cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%d location(s) at critical alert level", result.Counts[schema.AlertCritical])
	}
	return nil
}

// ExecuteMetrics displays the active scoring schema.
// This is a static display that does not require loading data.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	model := BuildMetricsRenderModel(cfg.Schema, nil, cfg.TierThresholds)
	return outwriter.WriteMetrics(model, cfg)
}

// BuildSnapshot ranks one month and decorates it with trends.
func BuildSnapshot(ds *Dataset, month string) (schema.SnapshotResult, error) {
	month, err := ResolveMonth(ds.Index, month)
	if err != nil {
		return schema.SnapshotResult{}, err
	}
	records, err := Snapshot(ds.Index, month)
	if err != nil {
		return schema.SnapshotResult{}, err
	}
	return schema.SnapshotResult{Month: month, Records: records, Trends: trendsFor(ds, month)}, nil
}

// BuildAnalysisReport builds the report over a month, or over the rolling
// window ending at that month. It also returns the months it covers.
func BuildAnalysisReport(ds *Dataset, month string, count int, rolling bool) (schema.AnalysisReport, []string, error) {
	if rolling {
		result, err := RollingWindow(ds.Index, month, count, ds.Thresholds)
		if err != nil {
			return schema.AnalysisReport{}, nil, err
		}
		trends := trendsFor(ds, result.EndMonth)
		return BuildReport(rollingPeriod(result), result.Records, ds.Schema, trends), result.Months, nil
	}
	snapshot, err := BuildSnapshot(ds, month)
	if err != nil {
		return schema.AnalysisReport{}, nil, err
	}
	return BuildReport(snapshot.Month, snapshot.Records, ds.Schema, snapshot.Trends), []string{snapshot.Month}, nil
}

// trendsFor returns the trends into a month. Trends of the latest month come
// from the dataset; earlier months are derived from the index.
func trendsFor(ds *Dataset, month string) map[string]schema.Trend {
	if month == ds.Index.LatestMonth() {
		return ds.Trends
	}
	return ComputeTrends(IndexTrendProvider{StableThreshold: DefaultStableThreshold}, ds.Index, month)
}

// rollingPeriod labels a rolling window.
func rollingPeriod(r schema.RollingResult) string {
	if r.StartMonth == r.EndMonth {
		return r.EndMonth
	}
	return fmt.Sprintf("%s to %s (%d months)", r.StartMonth, r.EndMonth, r.MonthsAveraged)
}

// recordsForMonths collects the ranked records of each month in turn.
func recordsForMonths(idx schema.MonthlyIndex, months []string) []schema.ScoredRecord {
	var out []schema.ScoredRecord
	for _, m := range months {
		records, err := Snapshot(idx, m)
		if err != nil {
			continue
		}
		out = append(out, records...)
	}
	return out
}

// recordRun stores one analysis run with the records it scored. Tracking
// failures are logged and never fail the command.
func recordRun(mgr contract.CacheManager, cfg *contract.Config, ds *Dataset, command string, records []schema.ScoredRecord) {
	if mgr == nil {
		return
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return
	}

	startTime := time.Now()
	configParams := map[string]any{
		"command":        command,
		"month":          cfg.Month,
		"months":         cfg.Months,
		"result_limit":   cfg.ResultLimit,
		"trend_provider": string(cfg.TrendProvider),
		"degraded":       ds.Degraded,
	}
	analysisID, err := store.BeginAnalysis(startTime, ds.Generation, ds.Source, configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return
	}
	if analysisID <= 0 {
		return
	}
	if err := store.RecordLocationScores(analysisID, records); err != nil {
		contract.LogWarn(fmt.Sprintf("Analysis tracking failed for run %d", analysisID), err)
	}
	if err := store.EndAnalysis(analysisID, time.Now(), len(records)); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}
