package static

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/changescope/schema"
)

// Thresholds shared by the maintenance rules and the quality score.
const (
	complexCyclomatic = 10
	veryComplex       = 20
	deepNesting       = 5
	longFile          = 500
	veryLongFile      = 1000
	largeFileForLoops = 300
	maxLineLength     = 120
	minCommentToCode  = 0.1
	startingQuality   = 100
)

// lineRule flags every line matching pattern, for the listed languages only when set.
type lineRule struct {
	issue     schema.IssueType
	severity  schema.Severity
	message   string
	pattern   *regexp.Regexp
	languages []string
}

func (r lineRule) appliesTo(lang string) bool {
	if len(r.languages) == 0 {
		return true
	}
	for _, l := range r.languages {
		if l == lang {
			return true
		}
	}
	return false
}

var jsFamily = []string{"javascript", "typescript"}

// performanceLanguages are the only languages checked by the performance rules.
var performanceLanguages = map[string]struct{}{"javascript": {}, "typescript": {}, "java": {}}

var lineRules = []lineRule{
	{schema.IssueBugRisk, schema.SeverityMedium, "Loose equality comparison with null",
		regexp.MustCompile(`(?:^|[^=!])[=!]=\s*null\b`), jsFamily},
	{schema.IssueBugRisk, schema.SeverityLow, "Debug print statement",
		regexp.MustCompile(`\bconsole\.(log|debug)\s*\(|\bdebugger\b|(?:^|[^.\w])print\s*\(|\bfmt\.Print(ln|f)?\s*\(|\bSystem\.out\.print(ln)?\s*\(`), nil},
	{schema.IssueBugRisk, schema.SeverityLow, "Unresolved marker comment",
		regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX)\b`), nil},
	{schema.IssueSecurity, schema.SeverityHigh, "Dynamic code evaluation",
		regexp.MustCompile(`\beval\s*\(|\bnew\s+Function\s*\(`), nil},
	{schema.IssueSecurity, schema.SeverityHigh, "Unsafe HTML injection",
		regexp.MustCompile(`\.innerHTML\s*=|\bdangerouslySetInnerHTML\b|\bdocument\.write\s*\(`), nil},
	{schema.IssueSecurity, schema.SeverityHigh, "Possible hardcoded secret",
		regexp.MustCompile(`(?i)\b\w*(password|passwd|secret|api[_-]?key|access[_-]?token|private[_-]?key)\w*['"]?\s*(?::=|[:=])\s*['"][^'"\s]{4,}['"]`), nil},
	{schema.IssueStyle, schema.SeverityLow, "Use let or const instead of var",
		regexp.MustCompile(`(?:^|[;{(])\s*var\s+[A-Za-z_$]`), jsFamily},
}

var (
	iterationMethod = regexp.MustCompile(`\.(forEach|map|filter|reduce|find|some|every)\s*\(`)
	loopKeyword     = regexp.MustCompile(`\b(for|while)\b`)
)

func newIssueSet() schema.IssueSet {
	return schema.IssueSet{
		BugRisk:     []schema.Issue{},
		Security:    []schema.Issue{},
		Performance: []schema.Issue{},
		Style:       []schema.Issue{},
		Maintenance: []schema.Issue{},
	}
}

func add(set *schema.IssueSet, is schema.Issue) {
	switch is.Type {
	case schema.IssueBugRisk:
		set.BugRisk = append(set.BugRisk, is)
	case schema.IssueSecurity:
		set.Security = append(set.Security, is)
	case schema.IssuePerformance:
		set.Performance = append(set.Performance, is)
	case schema.IssueStyle:
		set.Style = append(set.Style, is)
	case schema.IssueMaintenance:
		set.Maintenance = append(set.Maintenance, is)
	}
}

// detectIssues runs the five rule sets. Line numbers are 1-based; file-level issues have none.
func detectIssues(lines []string, lang string, m schema.LineMetrics, c schema.ComplexityMetrics) schema.IssueSet {
	set := newIssueSet()

	for i, line := range lines {
		for _, r := range lineRules {
			if r.appliesTo(lang) && r.pattern.MatchString(line) {
				add(&set, schema.Issue{Type: r.issue, Severity: r.severity, Message: r.message, Line: i + 1})
			}
		}
		if utf8.RuneCountInString(line) > maxLineLength {
			add(&set, schema.Issue{
				Type:     schema.IssueStyle,
				Severity: schema.SeverityLow,
				Message:  fmt.Sprintf("Line exceeds %d characters", maxLineLength),
				Line:     i + 1,
			})
		}
	}

	if _, ok := performanceLanguages[lang]; ok {
		for _, is := range performanceIssues(lines) {
			add(&set, is)
		}
	}

	for _, is := range maintenanceIssues(m, c) {
		add(&set, is)
	}
	return set
}

func performanceIssues(lines []string) []schema.Issue {
	var out []schema.Issue

	if len(lines) > largeFileForLoops {
		count, first := 0, 0
		for i, line := range lines {
			if n := len(iterationMethod.FindAllStringIndex(line, -1)); n > 0 {
				if count == 0 {
					first = i + 1
				}
				count += n
			}
		}
		if count > 0 {
			out = append(out, schema.Issue{
				Type:     schema.IssuePerformance,
				Severity: schema.SeverityLow,
				Message:  fmt.Sprintf("%d iteration method calls in a file of %d lines", count, len(lines)),
				Line:     first,
			})
		}
	}

	// Open loops are remembered by the brace depth of their header line.
	var openLoops []int
	depth := 0
	for i, line := range lines {
		for len(openLoops) > 0 && depth <= openLoops[len(openLoops)-1] {
			openLoops = openLoops[:len(openLoops)-1]
		}
		if n := len(loopKeyword.FindAllStringIndex(line, -1)); n > 0 {
			if len(openLoops) > 0 || n > 1 {
				out = append(out, schema.Issue{
					Type:     schema.IssuePerformance,
					Severity: schema.SeverityMedium,
					Message:  "Nested loop",
					Line:     i + 1,
				})
			}
			if strings.Contains(line, "{") {
				openLoops = append(openLoops, depth)
			}
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		depth = max(depth, 0)
	}
	return out
}

func maintenanceIssues(m schema.LineMetrics, c schema.ComplexityMetrics) []schema.Issue {
	var out []schema.Issue
	if c.Cyclomatic > complexCyclomatic {
		out = append(out, schema.Issue{
			Type:     schema.IssueMaintenance,
			Severity: schema.SeverityMedium,
			Message:  fmt.Sprintf("Cyclomatic complexity %d exceeds %d", c.Cyclomatic, complexCyclomatic),
		})
	}
	if c.Nesting > deepNesting {
		out = append(out, schema.Issue{
			Type:     schema.IssueMaintenance,
			Severity: schema.SeverityMedium,
			Message:  fmt.Sprintf("Nesting depth %d exceeds %d", c.Nesting, deepNesting),
		})
	}
	if m.TotalLines > longFile {
		out = append(out, schema.Issue{
			Type:     schema.IssueMaintenance,
			Severity: schema.SeverityLow,
			Message:  fmt.Sprintf("File has %d lines, more than %d", m.TotalLines, longFile),
		})
	}
	return out
}
