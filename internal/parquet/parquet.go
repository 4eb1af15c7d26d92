// Package parquet exports analysis runs and file change rows to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/changescope/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun is one branch diff analysis run.
// It maps to the changescope_analysis_runs table.
type AnalysisRun struct {
	AnalysisID int64     `parquet:"analysis_id,snappy"`
	StartTime  time.Time `parquet:"start_time,snappy"`

	// EndTime and RunDurationMs stay null for runs that never finished
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`

	SourceRef          string `parquet:"source_ref,snappy,dict"`
	TargetRef          string `parquet:"target_ref,snappy,dict"`
	TotalFilesAnalyzed int32  `parquet:"total_files_analyzed,snappy"`

	// ConfigParams contains the JSON-encoded analyzer configuration
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileChange is the flattened analysis of one changed file.
// It maps to the changescope_file_changes table.
type FileChange struct {
	AnalysisID   int64     `parquet:"analysis_id,snappy"`
	FilePath     string    `parquet:"file_path,snappy"`
	Status       string    `parquet:"status,snappy,dict"`
	Language     string    `parquet:"language,snappy,dict"`
	Additions    int32     `parquet:"additions,snappy"`
	Deletions    int32     `parquet:"deletions,snappy"`
	Complexity   int32     `parquet:"complexity,snappy"`
	QualityScore *int32    `parquet:"quality_score,optional,snappy"`
	QualityGrade *string   `parquet:"quality_grade,optional,snappy"`
	ImpactScore  int32     `parquet:"impact_score,snappy"`
	ImpactLevel  string    `parquet:"impact_level,snappy,dict"`
	IssueCount   int32     `parquet:"issue_count,snappy"`
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
}

// WriteAnalysisRunsParquet writes analysis runs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileChangesParquet writes file change rows to a Parquet file.
func WriteFileChangesParquet(data []FileChange, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet derives the schema from T's struct tags and writes every row.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAnalysisRunRecords converts stored runs for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:         record.AnalysisID,
			StartTime:          record.StartTime,
			EndTime:            record.EndTime,
			RunDurationMs:      record.RunDurationMs,
			SourceRef:          record.SourceRef,
			TargetRef:          record.TargetRef,
			TotalFilesAnalyzed: record.TotalFilesAnalyzed,
			ConfigParams:       record.ConfigParams,
		}
	}
	return result
}

// ConvertFileChangeRows converts stored file change rows for Parquet export.
func ConvertFileChangeRows(rows []schema.FileChangeRow) []FileChange {
	result := make([]FileChange, len(rows))
	for i, row := range rows {
		result[i] = FileChange{
			AnalysisID:   row.AnalysisID,
			FilePath:     row.FilePath,
			Status:       row.Status,
			Language:     row.Language,
			Additions:    row.Additions,
			Deletions:    row.Deletions,
			Complexity:   row.Complexity,
			QualityScore: row.QualityScore,
			QualityGrade: row.QualityGrade,
			ImpactScore:  row.ImpactScore,
			ImpactLevel:  row.ImpactLevel,
			IssueCount:   row.IssueCount,
			AnalysisTime: row.AnalysisTime,
		}
	}
	return result
}
