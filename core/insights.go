package core

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/huangsam/changescope/schema"
)

// Insight thresholds.
const (
	largeChangeFiles    = 100
	refactorDeleteRatio = 2
	highComplexityAbove = 10
)

// criticalPaths are the operationally sensitive locations reported as hotspots.
// Patterns match the lowercased path.
var criticalPaths = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"entry point", regexp.MustCompile(`(^|/)(main|index|app|server)\.(js|jsx|ts|tsx|py|go|java|rb|php)$`)},
	{"dependency manifest", regexp.MustCompile(`(^|/)(package\.json|package-lock\.json|yarn\.lock|go\.mod|go\.sum|requirements\.txt|pipfile|pyproject\.toml|pom\.xml|build\.gradle|cargo\.toml|gemfile|composer\.json)$`)},
	{"environment file", regexp.MustCompile(`(^|/)\.env(\.[^/]*)?$`)},
	{"sensitive directory", regexp.MustCompile(`(^|/)(config|configs|database|db|migrations|auth|security|payment|payments|billing)/`)},
}

// IsCriticalPath reports whether path matches the critical-path table.
func IsCriticalPath(path string) bool {
	lower := strings.ToLower(path)
	for _, c := range criticalPaths {
		if c.pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

// generateInsights derives repository-level observations from the summary and records.
func generateInsights(summary schema.DiffSummary, records []schema.FileChangeRecord) []schema.Insight {
	insights := []schema.Insight{}

	if summary.FilesChanged > largeChangeFiles {
		insights = append(insights, schema.Insight{
			Type:     schema.InsightSize,
			Severity: schema.SeverityMedium,
			Message:  fmt.Sprintf("Large change: %d files changed, consider splitting it", summary.FilesChanged),
		})
	}

	if summary.Deletions > refactorDeleteRatio*summary.Insertions {
		insights = append(insights, schema.Insight{
			Type:     schema.InsightRefactor,
			Severity: schema.SeverityLow,
			Message:  fmt.Sprintf("Mostly removals (%d deletions vs %d insertions), likely a cleanup or refactor", summary.Deletions, summary.Insertions),
		})
	}

	var hot []string
	for i := range records {
		if IsCriticalPath(records[i].Path) {
			hot = append(hot, records[i].Path)
		}
	}
	if len(hot) > 0 {
		insights = append(insights, schema.Insight{
			Type:     schema.InsightHotspot,
			Severity: schema.SeverityHigh,
			Message:  fmt.Sprintf("%d critical file(s) changed", len(hot)),
			Paths:    hot,
		})
	}
	return insights
}

// rollupMetrics sums the static reports of all records.
func rollupMetrics(records []schema.FileChangeRecord) schema.RepositoryMetrics {
	m := schema.RepositoryMetrics{IssueCounts: make(map[schema.IssueType]int, len(schema.AllIssueTypes))}
	for _, t := range schema.AllIssueTypes {
		m.IssueCounts[t] = 0
	}

	qualityTotal := 0
	for i := range records {
		r := &records[i]
		if schema.IsTestPath(r.Path) {
			m.TestFiles++
		} else {
			m.SourceFiles++
		}

		st := r.Static()
		if st == nil {
			continue
		}
		m.AnalyzedFiles++
		m.TotalComplexity += st.Complexity.Cyclomatic
		if st.Complexity.Cyclomatic > highComplexityAbove {
			m.HighComplexityFiles++
		}
		qualityTotal += st.Quality.Score
		for _, t := range schema.AllIssueTypes {
			m.IssueCounts[t] += len(st.Issues.ByType(t))
		}
	}

	if m.AnalyzedFiles > 0 {
		m.AverageComplexity = round2(float64(m.TotalComplexity) / float64(m.AnalyzedFiles))
		m.AverageQuality = round2(float64(qualityTotal) / float64(m.AnalyzedFiles))
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
