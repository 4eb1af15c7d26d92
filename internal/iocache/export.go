package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/internal/parquet"
)

// ExecuteAnalysisExport writes every stored run and file change to two Parquet
// files prefixed by outputFile.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis store is not initialized")
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
	_, _ = fmt.Fprintf(w, "Total file changes: %d\n", status.TotalFileChanges)

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	changes, err := store.GetAllFileChanges()
	if err != nil {
		return fmt.Errorf("failed to retrieve file changes: %w", err)
	}

	parquetRuns := parquet.ConvertAnalysisRunRecords(runs)
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	parquetChanges := parquet.ConvertFileChangeRows(changes)
	changesFile := outputFile + ".file_changes.parquet"
	if err := parquet.WriteFileChangesParquet(parquetChanges, changesFile); err != nil {
		return fmt.Errorf("failed to write file changes: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d file changes to: %s\n", len(parquetChanges), changesFile)

	return nil
}
