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

// WriteComparison outputs a month comparison in the configured format.
func WriteComparison(result schema.ComparisonResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeComparisonTo(w, result, info, cfg, duration)
	}, "Wrote comparison")
}

func writeComparisonTo(w io.Writer, result schema.ComparisonResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, struct {
			Dataset schema.DatasetInfo `json:"dataset"`
			schema.ComparisonResult
		}{info, result}); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
		return nil
	case schema.CSVOut:
		if err := writeComparisonCSV(w, result); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	default:
		return writeComparisonTable(w, result, info, cfg, duration)
	}
}

// writeComparisonTable writes the comparison as a table of deltas.
func writeComparisonTable(w io.Writer, result schema.ComparisonResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "🔀 Comparing %s → %s\n", result.BaseMonth, result.TargetMonth); err != nil {
		return err
	}
	if err := writeDegradedBanner(w, info); err != nil {
		return err
	}

	headers := []string{"Rank", "Clinic", "Before", "After", "Delta", "Status", "Tier"}

	// Improvements are good news here, so green goes up and red goes down.
	red, green, yellow := colorFuncs(cfg.UseColors)
	nameWidth := GetMaxTableNameWidth(cfg, 3)

	data := make([][]string, 0, len(result.Details))
	for i, d := range result.Details {
		deltaStr := formatDelta(d.Delta)
		switch {
		case d.Delta > 0:
			deltaStr = green(deltaStr)
		case d.Delta < 0:
			deltaStr = red(deltaStr)
		default:
			deltaStr = yellow(deltaStr)
		}

		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(d.Location, nameWidth),
			scoreOrDash(d.BeforeScore, d.Status != schema.NewStatus),
			scoreOrDash(d.AfterScore, d.Status != schema.InactiveStatus),
			deltaStr,
			string(d.Status),
			formatTierChange(d),
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}

	s := result.Summary
	if _, err := fmt.Fprintf(w, "Showing top %d changes\n", len(result.Details)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Net score delta: %d, Improved: %d, Declined: %d, Tier changes: %d\n",
		s.NetScoreDelta, s.TotalImproved, s.TotalDeclined, s.TotalTierChanges); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "New locations: %d, Inactive locations: %d, Active locations: %d\n",
		s.TotalNewLocations, s.TotalInactiveLocations, s.TotalActiveLocations); err != nil {
		return err
	}
	return writeFooter(w, info, duration)
}

// writeComparisonCSV writes one row per changed location with its category deltas.
func writeComparisonCSV(w io.Writer, result schema.ComparisonResult) error {
	header := []string{
		"rank",
		"location",
		"base_score",
		"target_score",
		"delta_score",
		"status",
		"base_tier",
		"target_tier",
		"category_deltas",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, d := range result.Details {
			row := []string{
				strconv.Itoa(i + 1),
				d.Location,
				strconv.Itoa(d.BeforeScore),
				strconv.Itoa(d.AfterScore),
				strconv.Itoa(d.Delta),
				string(d.Status),
				string(d.BeforeTier),
				string(d.AfterTier),
				formatCategoryDeltas(d.CategoryDeltas),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// scoreOrDash renders a score, or a dash when the location was absent.
func scoreOrDash(score int, present bool) string {
	if !present {
		return "-"
	}
	return strconv.Itoa(score)
}

// formatTierChange renders the tier movement of a location.
func formatTierChange(d schema.ComparisonDetail) string {
	switch {
	case d.Status == schema.NewStatus:
		return schema.GetPlainLabel(d.AfterTier)
	case d.Status == schema.InactiveStatus:
		return schema.GetPlainLabel(d.BeforeTier)
	case d.TierChanged():
		return fmt.Sprintf("%s → %s", schema.GetPlainLabel(d.BeforeTier), schema.GetPlainLabel(d.AfterTier))
	default:
		return schema.GetPlainLabel(d.AfterTier)
	}
}

// formatCategoryDeltas renders category deltas as key=delta pairs sorted by key.
func formatCategoryDeltas(deltas map[string]int) string {
	keys := make([]string, 0, len(deltas))
	for k := range deltas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%+d", k, deltas[k])
	}
	return strings.Join(parts, "|")
}
