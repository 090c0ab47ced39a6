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

// maxAlertsShown caps the alerts listed per level in text output.
const maxAlertsShown = 10

// WriteCheck outputs an alert check in the configured format.
func WriteCheck(result schema.CheckResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return errParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCheckTo(w, result, info, cfg, duration)
	}, "Wrote check")
}

func writeCheckTo(w io.Writer, result schema.CheckResult, info schema.DatasetInfo, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Dataset schema.DatasetInfo `json:"dataset"`
			schema.CheckResult
		}{info, result})
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"location", "level", "overall", "reasons"}, func(cw *csv.Writer) error {
			for _, a := range result.Alerts {
				if err := cw.Write([]string{a.Location, string(a.Level), strconv.Itoa(a.Overall), strings.Join(a.Reasons, "|")}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		if err := writeCheckHeader(w, result, info, duration); err != nil {
			return err
		}
		if result.Passed {
			if err := writeCheckSuccess(w, result, cfg); err != nil {
				return err
			}
		} else if err := writeCheckFailure(w, result, cfg); err != nil {
			return err
		}
		return writeFooter(w, info, duration)
	}
}

// writeCheckHeader prints the common header information for check results.
func writeCheckHeader(w io.Writer, result schema.CheckResult, info schema.DatasetInfo, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, "Alert Check Results:"); err != nil {
		return err
	}
	if err := writeDegradedBanner(w, info); err != nil {
		return err
	}

	th := result.Thresholds
	labels := []string{"Period:", "Critical:", "Warning:", "Target:"}
	values := []string{
		result.Period,
		fmt.Sprintf("overall < %.0f, category < %.0f", th.CriticalOverall, th.CriticalCategory),
		fmt.Sprintf("overall < %.0f, category < %.0f", th.WarningOverall, th.WarningCategory),
		fmt.Sprintf("overall >= %.0f, category >= %.0f", th.TargetOverall, th.TargetCategory),
	}

	maxLabelLen := 0
	for _, label := range labels {
		maxLabelLen = max(maxLabelLen, len(label))
	}
	for i, label := range labels {
		if _, err := fmt.Fprintf(w, "  %-*s %s\n", maxLabelLen+1, label, values[i]); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nChecked %d locations in %v\n\n", result.TotalLocations, duration)
	return err
}

// writeCheckSuccess prints the passing case: warnings plus category averages.
func writeCheckSuccess(w io.Writer, result schema.CheckResult, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "✅ No location at critical level (%d warning, %d ok, %d at target)\n\n",
		result.Counts[schema.AlertWarning], result.Counts[schema.AlertOK], len(result.AtTarget)); err != nil {
		return err
	}
	if err := writeAlertGroup(w, result.Alerts, schema.AlertWarning, cfg); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Category averages:"); err != nil {
		return err
	}
	keys := make([]string, 0, len(result.AvgCategory))
	for k := range result.AvgCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmtFloat, _ := createFormatters(cfg.Precision)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", categoryName(cfg, k), fmtFloat(result.AvgCategory[k])); err != nil {
			return err
		}
	}
	return nil
}

// writeCheckFailure prints the failing case grouped by level.
func writeCheckFailure(w io.Writer, result schema.CheckResult, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "❌ Alert check failed: %d critical, %d warning across %d locations\n\n",
		result.Counts[schema.AlertCritical], result.Counts[schema.AlertWarning], result.TotalLocations); err != nil {
		return err
	}
	for _, level := range []schema.AlertLevel{schema.AlertCritical, schema.AlertWarning} {
		if err := writeAlertGroup(w, result.Alerts, level, cfg); err != nil {
			return err
		}
	}
	return nil
}

// writeAlertGroup lists the alerts of one level, with "+N more" past the cap.
func writeAlertGroup(w io.Writer, alerts []schema.LocationAlert, level schema.AlertLevel, cfg *contract.Config) error {
	var group []schema.LocationAlert
	for _, a := range alerts {
		if a.Level == level {
			group = append(group, a)
		}
	}
	if len(group) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "Level: %s (%d)\n", alertLabel(level, cfg), len(group)); err != nil {
		return err
	}
	for i, a := range group {
		if i >= maxAlertsShown {
			if _, err := fmt.Fprintf(w, "  ... and %d more\n", len(group)-i); err != nil {
				return err
			}
			break
		}
		if _, err := fmt.Fprintf(w, "  - %s (overall: %d): %s\n", a.Location, a.Overall, strings.Join(a.Reasons, "; ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
