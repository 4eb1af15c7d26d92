package schema

import "time"

// AnalysisRunRecord represents a row of the analysis runs table.
type AnalysisRunRecord struct {
	AnalysisID         int64
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int32
	SourceRef          string
	TargetRef          string
	TotalFilesAnalyzed int32
	ConfigParams       *string
}

// FileChangeRow is the persisted, flattened form of a FileChangeRecord.
type FileChangeRow struct {
	AnalysisID   int64
	FilePath     string
	Status       string
	Language     string
	Additions    int32
	Deletions    int32
	Complexity   int32
	QualityScore *int32
	QualityGrade *string
	ImpactScore  int32
	ImpactLevel  string
	IssueCount   int32
	AnalysisTime time.Time
}

// NewFileChangeRow flattens a record for storage.
func NewFileChangeRow(analysisID int64, r *FileChangeRecord, at time.Time) FileChangeRow {
	impact := r.Impact()
	row := FileChangeRow{
		AnalysisID:   analysisID,
		FilePath:     r.Path,
		Status:       string(r.Status()),
		Language:     r.Language,
		Additions:    int32(r.Additions),
		Deletions:    int32(r.Deletions),
		ImpactScore:  int32(impact.Score),
		ImpactLevel:  string(impact.Level),
		AnalysisTime: at,
	}
	if snap := r.Snapshot(); snap != nil {
		row.Complexity = int32(snap.Complexity)
	}
	if st := r.Static(); st != nil {
		score := int32(st.Quality.Score)
		grade := st.Quality.Grade
		row.QualityScore = &score
		row.QualityGrade = &grade
		row.IssueCount = int32(st.Issues.Total())
	}
	return row
}
