package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
)

// WriteLocation outputs the drill-down view of one location in the configured format.
func WriteLocation(detail schema.LocationDetail, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeLocationTo(w, detail, info, cfg, duration)
	}, "Wrote location")
}

func writeLocationTo(w io.Writer, detail schema.LocationDetail, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Dataset schema.DatasetInfo `json:"dataset"`
			schema.LocationDetail
		}{info, detail})
	case schema.CSVOut:
		// One row per scored metric; the category score repeats on each row.
		header := []string{"location", "month", "category", "category_score", "metric", "metric_score", "target", "direction"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, m := range detail.Metrics {
				row := []string{
					detail.Location,
					detail.Month,
					m.Category,
					strconv.Itoa(detail.Record.CategoryScores[m.Category]),
					m.Metric,
					fmtFloat(m.Score),
					fmtFloat(m.Target),
					directionLabel(m.HigherIsBetter),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return writeLocationText(w, detail, info, cfg, duration)
	}
}

func writeLocationText(w io.Writer, detail schema.LocationDetail, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	rec := detail.Record

	if _, err := fmt.Fprintf(w, "🏥 %s (%s)\n", detail.Location, detail.Month); err != nil {
		return err
	}
	if err := writeDegradedBanner(w, info); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall: %d (%s) - %s, rank #%d\n", rec.OverallScore, tierLabel(rec.Tier, cfg), rec.Rating, rec.Rank); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Trend: %s\n", formatTrend(detail.Trend, cfg.Precision)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Alert: %s\n", alertLabel(detail.Alert.Level, cfg)); err != nil {
		return err
	}
	for _, reason := range detail.Alert.Reasons {
		if _, err := fmt.Fprintf(w, "  - %s\n", reason); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	data := make([][]string, 0, len(detail.Metrics))
	for _, m := range detail.Metrics {
		data = append(data, []string{
			categoryName(cfg, m.Category),
			m.Name,
			fmtFloat(m.Score),
			fmtFloat(m.Target),
			directionLabel(m.HigherIsBetter),
		})
	}
	if err := renderTable(w, []string{"Category", "Metric", "Score", "Target", "Direction"}, data); err != nil {
		return err
	}

	if len(detail.History) > 0 {
		points := make([]string, len(detail.History))
		for i, h := range detail.History {
			points[i] = fmt.Sprintf("%s=%d", h.Month, h.Score)
		}
		if _, err := fmt.Fprintf(w, "History: %s\n", strings.Join(points, ", ")); err != nil {
			return err
		}
	}

	if len(detail.Actions) > 0 {
		if _, err := fmt.Fprintln(w, "\nImprovement actions:"); err != nil {
			return err
		}
		for _, key := range actionOrder(cfg, detail.Actions) {
			if _, err := fmt.Fprintf(w, "  %s (score %d):\n", categoryName(cfg, key), rec.CategoryScores[key]); err != nil {
				return err
			}
			for _, a := range detail.Actions[key] {
				if _, err := fmt.Fprintf(w, "    • %s\n", a); err != nil {
					return err
				}
			}
		}
	}

	return writeFooter(w, info, duration)
}

// actionOrder returns the categories with actions in schema order.
func actionOrder(cfg *contract.Config, actions map[string][]string) []string {
	cols := categoryColumns[schema.ScoredRecord](cfg, nil)
	keys := make([]string, 0, len(actions))
	for _, c := range cols {
		if _, ok := actions[c.Key]; ok {
			keys = append(keys, c.Key)
		}
	}
	if len(keys) == len(actions) {
		return keys
	}
	// No schema to order by; fall back to a stable key order.
	keys = keys[:0]
	for k := range actions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// directionLabel names the direction of a metric.
func directionLabel(higherIsBetter bool) string {
	if higherIsBetter {
		return "higher"
	}
	return "lower"
}
