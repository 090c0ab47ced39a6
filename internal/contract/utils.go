package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/locscore/schema"
	"go.uber.org/zap"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold)   // ExcellentColor marks the top band.
	GoodColor      = color.New(color.FgCyan)                // GoodColor is informational.
	AverageColor   = color.New(color.FgYellow)              // AverageColor is standard caution, not bold.
	PoorColor      = color.New(color.FgMagenta, color.Bold) // PoorColor is a strong, distinct warning.
	CriticalColor  = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
)

// monthKeyPattern matches a zero-padded YYYY-MM month key.
var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// GetColorLabel returns a colored tier label for console output (table).
func GetColorLabel(t schema.Tier) string {
	text := schema.GetPlainLabel(t)

	switch t {
	case schema.TierExcellent:
		return ExcellentColor.Sprint(text)
	case schema.TierGood:
		return GoodColor.Sprint(text)
	case schema.TierAverage:
		return AverageColor.Sprint(text)
	case schema.TierPoor:
		return PoorColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// GetAlertLabel returns a colored alert label for console output.
func GetAlertLabel(level schema.AlertLevel) string {
	text := strings.ToUpper(string(level))
	switch level {
	case schema.AlertCritical:
		return CriticalColor.Sprint(text)
	case schema.AlertWarning:
		return AverageColor.Sprint(text)
	default:
		return ExcellentColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ValidateMonthKey checks that s is a zero-padded YYYY-MM month key.
func ValidateMonthKey(s string) error {
	if !monthKeyPattern.MatchString(s) {
		return fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	_ = zap.L().Sync()
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message through the global logger.
func LogWarn(msg string, err error) {
	zap.L().Warn(msg, zap.Error(err))
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".locscore_cache.db"
	}
	return filepath.Join(homeDir, ".locscore_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".locscore_analysis.db"
	}
	return filepath.Join(homeDir, ".locscore_analysis.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
