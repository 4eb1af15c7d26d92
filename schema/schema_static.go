package schema

// LineMetrics are plain line statistics of a file.
type LineMetrics struct {
	TotalLines    int     `json:"total_lines" yaml:"total_lines"`
	CodeLines     int     `json:"code_lines" yaml:"code_lines"`
	CommentLines  int     `json:"comment_lines" yaml:"comment_lines"`
	BlankLines    int     `json:"blank_lines" yaml:"blank_lines"`
	AvgLineLength float64 `json:"avg_line_length" yaml:"avg_line_length"`
	MaxLineLength int     `json:"max_line_length" yaml:"max_line_length"`
}

// HalsteadMetrics are operator/operand based size measures.
type HalsteadMetrics struct {
	DistinctOperators int     `json:"distinct_operators" yaml:"distinct_operators"`
	DistinctOperands  int     `json:"distinct_operands" yaml:"distinct_operands"`
	TotalOperators    int     `json:"total_operators" yaml:"total_operators"`
	TotalOperands     int     `json:"total_operands" yaml:"total_operands"`
	Vocabulary        int     `json:"vocabulary" yaml:"vocabulary"`
	Length            int     `json:"length" yaml:"length"`
	Volume            float64 `json:"volume" yaml:"volume"`
	Difficulty        float64 `json:"difficulty" yaml:"difficulty"`
	Effort            float64 `json:"effort" yaml:"effort"`
}

// ComplexityMetrics groups the complexity measures of a file.
type ComplexityMetrics struct {
	Cyclomatic int             `json:"cyclomatic" yaml:"cyclomatic"`
	Cognitive  int             `json:"cognitive" yaml:"cognitive"`
	Nesting    int             `json:"nesting" yaml:"nesting"`
	Halstead   HalsteadMetrics `json:"halstead" yaml:"halstead"`
}

// CodeStructure lists declared names found by the language pattern table.
type CodeStructure struct {
	Functions  []string `json:"functions" yaml:"functions"`
	Classes    []string `json:"classes" yaml:"classes"`
	Interfaces []string `json:"interfaces" yaml:"interfaces"`
	Types      []string `json:"types" yaml:"types"`
	Imports    []string `json:"imports" yaml:"imports"`
	Exports    []string `json:"exports" yaml:"exports"`
}

// Issue is a single finding of a rule set.
type Issue struct {
	Type     IssueType `json:"type" yaml:"type"`
	Severity Severity  `json:"severity" yaml:"severity"`
	Message  string    `json:"message" yaml:"message"`
	Line     int       `json:"line,omitempty" yaml:"line,omitempty"`
}

// IssueSet holds issues per rule set.
type IssueSet struct {
	BugRisk     []Issue `json:"bug_risk" yaml:"bug_risk"`
	Security    []Issue `json:"security" yaml:"security"`
	Performance []Issue `json:"performance" yaml:"performance"`
	Style       []Issue `json:"style" yaml:"style"`
	Maintenance []Issue `json:"maintenance" yaml:"maintenance"`
}

// ByType returns the issues of one rule set.
func (s IssueSet) ByType(t IssueType) []Issue {
	switch t {
	case IssueBugRisk:
		return s.BugRisk
	case IssueSecurity:
		return s.Security
	case IssuePerformance:
		return s.Performance
	case IssueStyle:
		return s.Style
	case IssueMaintenance:
		return s.Maintenance
	default:
		return nil
	}
}

// Total is the number of issues across all rule sets.
func (s IssueSet) Total() int {
	return len(s.BugRisk) + len(s.Security) + len(s.Performance) + len(s.Style) + len(s.Maintenance)
}

// Quality is the derived quality score and letter grade.
type Quality struct {
	Score int    `json:"score" yaml:"score"`
	Grade string `json:"grade" yaml:"grade"`
}

// StaticReport is the output of the static analyzer for one snapshot.
type StaticReport struct {
	Language   string            `json:"language" yaml:"language"`
	Metrics    LineMetrics       `json:"metrics" yaml:"metrics"`
	Complexity ComplexityMetrics `json:"complexity" yaml:"complexity"`
	Structure  CodeStructure     `json:"structure" yaml:"structure"`
	Issues     IssueSet          `json:"issues" yaml:"issues"`
	Quality    Quality           `json:"quality" yaml:"quality"`
}
