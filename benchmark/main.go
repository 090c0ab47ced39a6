// Package main provides a performance benchmarking tool for the locscore CLI.
// It measures execution times of the scoring commands against one or more
// data sheets, running each command several times, treating the first
// successful cached run as cold and averaging the rest as warm,
// and writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - locscore binary installed and available in PATH
// - Sheets reachable by URL or path (remote sheets exercise the fetch cache)
//
// Usage: go run benchmark/main.go <sheet-url-or-path>...
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Sheet       string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Sheets      []string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Commands    map[string][]string
}

// commandOrder fixes the iteration order over BenchmarkConfig.Commands.
var commandOrder = []string{"snapshot", "rolling", "compare", "report"}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s <sheet-url-or-path>...\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Sheets:      os.Args[1:],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Commands: map[string][]string{
			"snapshot": {"snapshot"},
			"rolling":  {"rolling", "--months", "6"},
			"compare":  {"compare"},
			"report":   {"report", "--rolling"},
		},
	}

	if _, err := exec.LookPath("locscore"); err != nil {
		fmt.Printf("Prerequisites check failed: locscore binary not found in PATH\n")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("locscore", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every command against every configured sheet
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sheets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Sheets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, sheet := range config.Sheets {
		fmt.Printf("Benchmarking %s\n", sheet)
		for _, name := range commandOrder {
			results = append(results, runBenchmarkSuite(config, sheet, name, config.Commands[name]))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, sheet, name string, args []string) BenchmarkResult {
	fmt.Printf("Running %s\n", name)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, sheet, args, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Sheet:       sheet,
		Command:     name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a locscore command multiple times with the given cache backend.
// Failed and timed out runs are dropped.
func runBenchmark(config BenchmarkConfig, sheet string, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	full := append([]string{}, args...)
	full = append(full, "--data-url", sheet, "--cache-backend", cacheBackend, "--output", "json")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "locscore", full...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/locscore_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"sheet", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Sheet, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, name := range commandOrder {
		fmt.Printf("%s:\n", name)
		for _, result := range results {
			if result.Command == name {
				fmt.Printf("  %-40s: No-cache: %s, Cold: %s, Warm: %s\n", result.Sheet, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
