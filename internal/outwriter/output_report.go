package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
)

// WriteReport outputs the analytic report in the configured format.
func WriteReport(report schema.AnalysisReport, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeReportTo(w, report, info, cfg, duration)
	}, "Wrote report")
}

func writeReportTo(w io.Writer, report schema.AnalysisReport, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Dataset schema.DatasetInfo `json:"dataset"`
			schema.AnalysisReport
		}{info, report})
	case schema.CSVOut:
		header := []string{"rank", "location", "score", "trend", "strengths", "weaknesses"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, l := range report.Locations {
				row := []string{
					strconv.Itoa(l.Rank),
					l.Location,
					strconv.Itoa(l.Score),
					string(l.Trend),
					joinCategoryScores(l.Strengths, "|"),
					joinCategoryScores(l.Weaknesses, "|"),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		if err := writeReportText(w, report, info, cfg.Precision); err != nil {
			return err
		}
		return writeFooter(w, info, duration)
	}
}

// reportWriter keeps the first write error so long reports read top to bottom.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

func (rw *reportWriter) heading(title string) {
	rw.printf("%s\n%s\n", title, strings.Repeat("=", len(title)))
}

// writeReportText writes the plain-text report with one section per analysis.
func writeReportText(w io.Writer, report schema.AnalysisReport, info schema.DatasetInfo, precision int) error {
	fmtFloat, _ := createFormatters(precision)
	rw := &reportWriter{w: w}

	rw.printf("%s\n", strings.ToUpper(report.Title))
	rw.printf("Period: %s\n", report.Period)
	rw.printf("Generated: %s\n\n", report.GeneratedAt.Format(contract.DateTimeFormat))
	if rw.err == nil {
		rw.err = writeDegradedBanner(w, info)
	}

	s := report.Summary
	rw.heading("NETWORK PERFORMANCE SUMMARY")
	rw.printf("Network Average Score: %s\n", fmtFloat(s.AverageScore))
	rw.printf("Score Range: %d - %d\n", s.MinScore, s.MaxScore)
	rw.printf("Consistency Level: %s (std dev %s)\n", s.Consistency, fmtFloat(s.StdDev))
	rw.printf("Total Clinics: %d\n", s.TotalLocations)
	rw.printf("Performance Distribution: Excellent(%d), Good(%d), Average(%d), Poor(%d)\n\n",
		s.Distribution.Excellent, s.Distribution.Good, s.Distribution.Average, s.Distribution.Poor)

	rw.heading("CATEGORY PERFORMANCE ANALYSIS")
	for _, c := range report.Categories {
		rw.printf("%s: %s (Range: %d-%d, Gap: %d)\n", c.Name, fmtFloat(c.Average), c.Min, c.Max, c.Gap)
		rw.printf("  Top Performer: %s\n", c.TopPerformer)
		rw.printf("  Bottom Performer: %s\n\n", c.BottomPerformer)
	}

	rw.heading("INDIVIDUAL CLINIC ANALYSIS")
	for _, l := range report.Locations {
		rw.printf("#%d %s (Score: %d)\n", l.Rank, l.Location, l.Score)
		if len(l.Strengths) > 0 {
			rw.printf("  Strengths: %s\n", joinCategoryScores(l.Strengths, ", "))
		}
		if len(l.Weaknesses) > 0 {
			rw.printf("  Areas for Improvement: %s\n", joinCategoryScores(l.Weaknesses, ", "))
		}
		rw.printf("  Trend: %s %s\n\n", schema.TrendArrow(l.Trend), l.Trend)
	}
	rw.printf("Trends: %d improving, %d declining, %d stable\n\n",
		len(report.Trends.Improving), len(report.Trends.Declining), report.Trends.Stable)

	if len(report.Recommendations) > 0 {
		rw.heading("STRATEGIC RECOMMENDATIONS")
		for i, r := range report.Recommendations {
			rw.printf("%d. %s (%s Priority)\n", i+1, r.Title, r.Priority)
			rw.printf("   %s\n", r.Description)
			rw.printf("   Actions: %s\n\n", strings.Join(r.Actions, "; "))
		}
	}

	if len(report.Risks) > 0 {
		rw.heading("RISK ASSESSMENT")
		for _, r := range report.Risks {
			rw.printf("%s (%s Risk)\n", r.Type, r.Severity)
			rw.printf("  %s\n", r.Message)
			if len(r.Locations) > 0 {
				rw.printf("  Affected Clinics: %s\n", strings.Join(r.Locations, ", "))
			}
			rw.printf("  Mitigation: %s\n\n", r.Mitigation)
		}
	}

	if len(report.BenchmarkGaps) > 0 {
		rw.heading("BENCHMARK GAPS")
		for _, g := range report.BenchmarkGaps {
			rw.printf("%s: %s vs target %s (gap %s)\n", g.Metric, fmtFloat(g.Current), fmtFloat(g.Target), fmtFloat(g.Gap))
			rw.printf("  Impact: %s\n\n", g.Impact)
		}
	}

	return rw.err
}

// joinCategoryScores renders category scores as Name(score).
func joinCategoryScores(scores []schema.CategoryScore, sep string) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%s(%d)", s.Name, s.Score)
	}
	return strings.Join(parts, sep)
}
