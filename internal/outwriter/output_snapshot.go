package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/internal/parquet"
	"github.com/huangsam/locscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSnapshot outputs a ranked single-month snapshot in the configured format.
func WriteSnapshot(result schema.SnapshotResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, parquet.ConvertSnapshot(result))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeSnapshotTo(w, result, info, cfg, duration)
	}, "Wrote snapshot")
}

// WriteRolling outputs a ranked rolling average in the configured format.
func WriteRolling(result schema.RollingResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return writeParquetFile(cfg.OutputFile, parquet.ConvertRolling(result))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeRollingTo(w, result, info, cfg, duration)
	}, "Wrote rolling average")
}

// WriteMonths outputs the months of the dataset in the configured format.
func WriteMonths(months []schema.MonthSummary, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeMonthsTo(w, months, info, cfg, duration)
	}, "Wrote months")
}

// writeParquetFile writes ranked rows to the output file. Parquet is binary,
// so stdout is never a valid destination.
func writeParquetFile(outputFile string, rows []parquet.RankedRow) error {
	if outputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	if err := parquet.WriteFile(rows, outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", outputFile)
	return nil
}

func writeSnapshotTo(w io.Writer, result schema.SnapshotResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	cols := categoryColumns(cfg, result.Records)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Dataset schema.DatasetInfo `json:"dataset"`
			schema.SnapshotResult
		}{info, result})
	case schema.CSVOut:
		header := []string{"Rank", "Clinic", "Overall Score", "Performance Rating"}
		for _, c := range cols {
			header = append(header, c.Name)
		}
		header = append(header, "Trend Direction", "Trend Change %")

		fmtFloat, _ := createFormatters(cfg.Precision)
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, r := range result.Records {
				rec := []string{strconv.Itoa(r.Rank), r.Location, strconv.Itoa(r.OverallScore), r.Rating}
				rec = append(rec, categoryCells(r.CategoryScores, cols)...)
				trend := result.Trends[r.Location]
				direction := string(trend.Direction)
				if direction == "" {
					direction = string(schema.TrendStable)
				}
				rec = append(rec, direction, fmtFloat(trend.ChangePercent))
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		if _, err := fmt.Fprintf(w, "📊 Snapshot for %s (%d locations)\n", result.Month, len(result.Records)); err != nil {
			return err
		}
		if err := writeDegradedBanner(w, info); err != nil {
			return err
		}

		headers := []string{"Rank", "Clinic", "Score", "Tier"}
		for _, c := range cols {
			headers = append(headers, c.Name)
		}
		headers = append(headers, "Trend")

		nameWidth := GetMaxTableNameWidth(cfg, len(cols))
		data := make([][]string, 0, len(result.Records))
		for _, r := range result.Records {
			row := []string{
				strconv.Itoa(r.Rank),
				contract.TruncateName(r.Location, nameWidth),
				strconv.Itoa(r.OverallScore),
				tierLabel(r.Tier, cfg),
			}
			row = append(row, categoryCells(r.CategoryScores, cols)...)
			row = append(row, formatTrend(result.Trends[r.Location], cfg.Precision))
			data = append(data, row)
		}
		if err := renderTable(w, headers, data); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Showing %d locations\n", len(result.Records)); err != nil {
			return err
		}
		return writeFooter(w, info, duration)
	}
}

func writeRollingTo(w io.Writer, result schema.RollingResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	cols := categoryColumns(cfg, result.Records)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Dataset schema.DatasetInfo `json:"dataset"`
			schema.RollingResult
		}{info, result})
	case schema.CSVOut:
		header := []string{"Rank", "Clinic", "Overall Score", "Performance Rating"}
		for _, c := range cols {
			header = append(header, c.Name)
		}
		header = append(header, "Months Present", "Months Averaged", "Start Month", "End Month")

		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, r := range result.Records {
				rec := []string{strconv.Itoa(r.Rank), r.Location, strconv.Itoa(r.OverallScore), r.Rating}
				rec = append(rec, categoryCells(r.CategoryScores, cols)...)
				rec = append(rec, strconv.Itoa(r.MonthsPresent), strconv.Itoa(r.MonthsAveraged), r.StartMonth, r.EndMonth)
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		if _, err := fmt.Fprintf(w, "📈 Rolling average over %d month(s): %s to %s\n", result.MonthsAveraged, result.StartMonth, result.EndMonth); err != nil {
			return err
		}
		if err := writeDegradedBanner(w, info); err != nil {
			return err
		}

		headers := []string{"Rank", "Clinic", "Score", "Tier"}
		for _, c := range cols {
			headers = append(headers, c.Name)
		}
		headers = append(headers, "Months")

		nameWidth := GetMaxTableNameWidth(cfg, len(cols))
		data := make([][]string, 0, len(result.Records))
		for _, r := range result.Records {
			row := []string{
				strconv.Itoa(r.Rank),
				contract.TruncateName(r.Location, nameWidth),
				strconv.Itoa(r.OverallScore),
				tierLabel(r.Tier, cfg),
			}
			row = append(row, categoryCells(r.CategoryScores, cols)...)
			row = append(row, fmt.Sprintf("%d/%d", r.MonthsPresent, r.MonthsAveraged))
			data = append(data, row)
		}
		if err := renderTable(w, headers, data); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Showing %d locations\n", len(result.Records)); err != nil {
			return err
		}
		return writeFooter(w, info, duration)
	}
}

func writeMonthsTo(w io.Writer, months []schema.MonthSummary, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Dataset schema.DatasetInfo    `json:"dataset"`
			Months  []schema.MonthSummary `json:"months"`
		}{info, months})
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"month", "locations", "latest"}, func(cw *csv.Writer) error {
			for _, m := range months {
				if err := cw.Write([]string{m.Month, strconv.Itoa(m.Locations), strconv.FormatBool(m.Latest)}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		data := make([][]string, 0, len(months))
		for _, m := range months {
			marker := ""
			if m.Latest {
				marker = "latest"
			}
			data = append(data, []string{m.Month, strconv.Itoa(m.Locations), marker})
		}
		if err := renderTable(w, []string{"Month", "Locations", ""}, data); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%d month(s) available\n", len(months)); err != nil {
			return err
		}
		return writeFooter(w, info, duration)
	}
}

// renderTable renders a right-aligned table.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// categoryCells returns the category scores in column order. Categories the
// record has no score for are left blank.
func categoryCells(scores map[string]int, cols []categoryColumn) []string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		if v, ok := scores[c.Key]; ok {
			cells[i] = strconv.Itoa(v)
		}
	}
	return cells
}

// formatTrend renders a trend as an arrow with its signed change.
func formatTrend(t schema.Trend, precision int) string {
	if t.Direction == "" {
		return schema.TrendArrow(schema.TrendStable)
	}
	return fmt.Sprintf("%s %+.*f%%", schema.TrendArrow(t.Direction), precision, t.ChangePercent)
}
