package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
)

// WriteMetrics displays the scoring model: categories, metrics, weights and formulas.
func WriteMetrics(model schema.MetricsRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsCSV(w, model)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, model)
		}, "Wrote text")
	}
}

// writeMetricsText displays the model in human-readable text format.
func writeMetricsText(w io.Writer, model schema.MetricsRenderModel) error {
	title := "🏥 " + model.Title
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len(model.Title)+3)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", model.Description); err != nil {
		return err
	}

	for _, c := range model.Categories {
		if _, err := fmt.Fprintf(w, "%s [%s] weight %.2f\n", c.Name, c.Key, c.Weight); err != nil {
			return err
		}
		if c.Description != "" {
			if _, err := fmt.Fprintf(w, "   %s\n", c.Description); err != nil {
				return err
			}
		}
		data := make([][]string, 0, len(c.Metrics))
		for _, m := range c.Metrics {
			data = append(data, []string{
				m.Name,
				fmt.Sprintf("%.2f", m.Weight),
				m.Direction,
				formatTarget(m.Target, m.Unit),
			})
		}
		if err := renderTable(w, []string{"Metric", "Weight", "Direction", "Target"}, data); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Overall: %s\n", model.OverallFormula); err != nil {
		return err
	}
	t := model.Tiers
	_, err := fmt.Fprintf(w, "Tiers: excellent >= %.0f, good >= %.0f, average >= %.0f, poor >= %.0f, otherwise critical\n",
		t.Excellent, t.Good, t.Average, t.Poor)
	return err
}

// writeMetricsCSV writes one row per metric.
func writeMetricsCSV(w io.Writer, model schema.MetricsRenderModel) error {
	header := []string{"category", "category_weight", "metric", "name", "unit", "weight", "direction", "target", "formula"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range model.Categories {
			for _, m := range c.Metrics {
				row := []string{
					c.Key,
					fmt.Sprintf("%.2f", c.Weight),
					m.Key,
					m.Name,
					m.Unit,
					fmt.Sprintf("%.2f", m.Weight),
					m.Direction,
					fmt.Sprintf("%g", m.Target),
					m.Formula,
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// formatTarget renders a target with its unit.
func formatTarget(target float64, unit string) string {
	switch unit {
	case "":
		return fmt.Sprintf("%g", target)
	case "%":
		return fmt.Sprintf("%g%%", target)
	default:
		return fmt.Sprintf("%g %s", target, unit)
	}
}
