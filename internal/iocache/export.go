package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/internal/parquet"
)

// ExecuteAnalysisExport exports the stored runs and location scores to
// <outputFile>.analysis_runs.parquet and <outputFile>.location_scores.parquet.
func ExecuteAnalysisExport(store contract.AnalysisStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis tracking is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total location scores: %d\n", status.TotalLocationScores)

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	locationScores, err := store.GetAllLocationScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve location scores: %w", err)
	}

	runs := parquet.ConvertAnalysisRunRecords(analysisRuns)
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(runs, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(runs), runsFile)

	scores := parquet.ConvertLocationScoreRecords(locationScores)
	scoresFile := outputFile + ".location_scores.parquet"
	if err := parquet.WriteLocationScoresParquet(scores, scoresFile); err != nil {
		return fmt.Errorf("failed to write location scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d location scores to: %s\n", len(scores), scoresFile)

	return nil
}
