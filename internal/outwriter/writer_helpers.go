package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
)

// errParquetUnsupported is returned for results that are not ranked record lists.
var errParquetUnsupported = errors.New("parquet output is only supported for snapshot and rolling results")

// writeWithFile opens the configured destination, runs the writer against it
// and reports the file name on stderr when it is not stdout.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader creates a CSV writer, writes the header and hands the
// writer to writeRows. The writer is flushed before returning.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, intFmt
}

// colorFuncs returns red/green/yellow sprinters, or plain ones without colors.
func colorFuncs(useColors bool) (red, green, yellow func(...any) string) {
	if !useColors {
		return fmt.Sprint, fmt.Sprint, fmt.Sprint
	}
	return color.New(color.FgRed).SprintFunc(),
		color.New(color.FgGreen).SprintFunc(),
		color.New(color.FgYellow).SprintFunc()
}

// tierLabel returns a colored or plain tier label.
func tierLabel(t schema.Tier, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(t)
	}
	return schema.GetPlainLabel(t)
}

// alertLabel returns a colored or plain alert label.
func alertLabel(level schema.AlertLevel, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetAlertLabel(level)
	}
	return string(level)
}

// categoryColumn is one category column of a ranked table.
type categoryColumn struct {
	Key  string
	Name string
}

// categoryColumns lists the categories in schema order. Without a schema the
// keys found in the records are used in sorted order.
func categoryColumns[T schema.ScoredResult](cfg *contract.Config, records []T) []categoryColumn {
	if cfg.Schema != nil {
		cols := make([]categoryColumn, len(cfg.Schema.Categories))
		for i, c := range cfg.Schema.Categories {
			cols[i] = categoryColumn{Key: c.Key, Name: c.Name}
		}
		return cols
	}

	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r.GetCategoryScores() {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]categoryColumn, len(keys))
	for i, k := range keys {
		cols[i] = categoryColumn{Key: k, Name: k}
	}
	return cols
}

// categoryName resolves a display name for a category key.
func categoryName(cfg *contract.Config, key string) string {
	if cfg.Schema != nil {
		return cfg.Schema.CategoryName(key)
	}
	return key
}

// formatDelta renders a signed integer delta with an arrow.
func formatDelta(delta int) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("+%d ▲", delta)
	case delta < 0:
		return fmt.Sprintf("%d ▼", delta)
	default:
		return "0"
	}
}
