package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// FileStatus represents how a file changed between two refs.
	FileStatus string

	// ImpactLevel buckets a numeric impact score.
	ImpactLevel string

	// IssueType is the rule set an issue came from.
	IssueType string

	// Severity of a detected issue.
	Severity string

	// CommitType is the classified type of a commit message.
	CommitType string

	// ChangeKind is the extraction form of a function.
	ChangeKind string

	// InsightType identifies a repository-level insight.
	InsightType string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
	YAMLOut OutputMode = "yaml"
)

// All file statuses reported by the revision collaborator.
const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
)

// Impact levels.
const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Issue rule sets.
const (
	IssueBugRisk     IssueType = "bug-risk"
	IssueSecurity    IssueType = "security"
	IssuePerformance IssueType = "performance"
	IssueStyle       IssueType = "style"
	IssueMaintenance IssueType = "maintenance"
)

// Issue severities.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Commit types. The first block is the conventional-commit vocabulary.
const (
	CommitFeat     CommitType = "feat"
	CommitFix      CommitType = "fix"
	CommitDocs     CommitType = "docs"
	CommitStyle    CommitType = "style"
	CommitRefactor CommitType = "refactor"
	CommitPerf     CommitType = "perf"
	CommitTest     CommitType = "test"
	CommitBuild    CommitType = "build"
	CommitCI       CommitType = "ci"
	CommitChore    CommitType = "chore"
	CommitRevert   CommitType = "revert"

	CommitMerge  CommitType = "merge"
	CommitHotfix CommitType = "hotfix"
	CommitOther  CommitType = "other"
)

// Function extraction forms.
const (
	KindDeclaration ChangeKind = "declaration"
	KindArrow       ChangeKind = "arrow"
	KindMethod      ChangeKind = "method"
)

// Insight types.
const (
	InsightSize     InsightType = "size-warning"
	InsightRefactor InsightType = "refactor-signal"
	InsightHotspot  InsightType = "hotspot"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// UnknownType is the detected type when no rule applies.
const UnknownType = "unknown"

// GeneralPurpose is the fallback purpose tag.
const GeneralPurpose = "General purpose"

// AllIssueTypes lists issue rule sets in report order.
var AllIssueTypes = []IssueType{IssueBugRisk, IssueSecurity, IssuePerformance, IssueStyle, IssueMaintenance}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
	YAMLOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidFileStatuses lists all statuses a diff entry may carry.
var ValidFileStatuses = map[FileStatus]struct{}{
	StatusAdded:    {},
	StatusModified: {},
	StatusDeleted:  {},
	StatusRenamed:  {},
}
