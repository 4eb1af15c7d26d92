package schema

import "time"

// AnalysisSummary describes what was compared and how large the change is.
type AnalysisSummary struct {
	RunID        string             `json:"run_id" yaml:"run_id"`
	RepoPath     string             `json:"repo_path" yaml:"repo_path"`
	SourceRef    string             `json:"source_ref" yaml:"source_ref"`
	TargetRef    string             `json:"target_ref" yaml:"target_ref"`
	SourceCommit string             `json:"source_commit" yaml:"source_commit"`
	TargetCommit string             `json:"target_commit" yaml:"target_commit"`
	FilesChanged int                `json:"files_changed" yaml:"files_changed"`
	Insertions   int                `json:"insertions" yaml:"insertions"`
	Deletions    int                `json:"deletions" yaml:"deletions"`
	StatusCounts map[FileStatus]int `json:"status_counts" yaml:"status_counts"`
	CommitCount  int                `json:"commit_count" yaml:"commit_count"`
	Filters      Filters            `json:"filters" yaml:"filters"`
	GeneratedAt  time.Time          `json:"generated_at" yaml:"generated_at"`
}

// Insight is a repository-level observation about the change.
type Insight struct {
	Type     InsightType `json:"type" yaml:"type"`
	Severity Severity    `json:"severity" yaml:"severity"`
	Message  string      `json:"message" yaml:"message"`
	Paths    []string    `json:"paths,omitempty" yaml:"paths,omitempty"`
}

// RepositoryMetrics rolls up the static reports of all analyzed files.
type RepositoryMetrics struct {
	AnalyzedFiles       int               `json:"analyzed_files" yaml:"analyzed_files"`
	TotalComplexity     int               `json:"total_complexity" yaml:"total_complexity"`
	AverageComplexity   float64           `json:"average_complexity" yaml:"average_complexity"`
	HighComplexityFiles int               `json:"high_complexity_files" yaml:"high_complexity_files"`
	AverageQuality      float64           `json:"average_quality" yaml:"average_quality"`
	IssueCounts         map[IssueType]int `json:"issue_counts" yaml:"issue_counts"`
	TestFiles           int               `json:"test_files" yaml:"test_files"`
	SourceFiles         int               `json:"source_files" yaml:"source_files"`
}

// AnalysisResult is the full output of one branch diff analysis. Read-only once built.
type AnalysisResult struct {
	Summary  AnalysisSummary    `json:"summary" yaml:"summary"`
	Files    []FileChangeRecord `json:"files" yaml:"files"`
	Commits  CommitAggregation  `json:"commits" yaml:"commits"`
	Insights []Insight          `json:"insights" yaml:"insights"`
	Metrics  RepositoryMetrics  `json:"metrics" yaml:"metrics"`
}

// InspectResult is the classification and static report of one file at one ref.
type InspectResult struct {
	Path     string               `json:"path" yaml:"path"`
	Ref      string               `json:"ref" yaml:"ref"`
	Commit   string               `json:"commit" yaml:"commit"`
	Snapshot FileSnapshotAnalysis `json:"analysis" yaml:"analysis"`
	Static   *StaticReport        `json:"static" yaml:"static"`
}

// BranchList is the result of listing the local branches of a repository.
type BranchList struct {
	RepoPath string   `json:"repo_path" yaml:"repo_path"`
	Branches []string `json:"branches" yaml:"branches"`
}
