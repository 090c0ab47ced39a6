// Package outwriter renders scoring results as text tables, CSV, JSON and Parquet.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/schema"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for location names in
// table output, based on terminal width and the number of score columns.
func GetMaxTableNameWidth(cfg *contract.Config, scoreColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Tier with borders/padding, then every score column
	baseWidth := 30 + 8*scoreColumns

	// Table borders and separators
	baseWidth += 10

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 40 {
		return 40
	}
	return available
}

// writeDegradedBanner warns that the dataset is sample data standing in for a
// failed fetch. It writes nothing for healthy datasets.
func writeDegradedBanner(w io.Writer, info schema.DatasetInfo) error {
	if !info.Degraded {
		return nil
	}
	_, err := fmt.Fprintf(w, "⚠️  Degraded data: showing sample data because the live source failed (%s)\n", info.DegradedReason)
	return err
}

// writeFooter closes every text output with timing and dataset details.
func writeFooter(w io.Writer, info schema.DatasetInfo, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Scored in %v. Source: %s, generation: %s\n", duration, info.Source, info.Generation); err != nil {
		return err
	}
	return writeDegradedBanner(w, info)
}
