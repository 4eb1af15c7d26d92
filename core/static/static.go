// Package static computes text-based metrics, complexity, structure, issues and a quality
// grade for one snapshot of a file.
package static

import (
	"errors"
	"strings"

	"github.com/huangsam/changescope/schema"
)

// ErrEmptyContent is returned when there is nothing to analyze.
var ErrEmptyContent = errors.New("empty content")

// Analyze runs every static pass over content. Only empty or whitespace-only content fails.
func Analyze(content, language string) (schema.StaticReport, error) {
	if strings.TrimSpace(content) == "" {
		return schema.StaticReport{}, ErrEmptyContent
	}
	lang := strings.ToLower(strings.TrimSpace(language))
	lines := splitLines(content)

	metrics := lineMetrics(lines)
	complexity := schema.ComplexityMetrics{
		Cyclomatic: cyclomatic(content, lang),
		Cognitive:  cognitive(lines, lang),
		Nesting:    nesting(content),
		Halstead:   halstead(content),
	}

	return schema.StaticReport{
		Language:   lang,
		Metrics:    metrics,
		Complexity: complexity,
		Structure:  extractStructure(content, lang),
		Issues:     detectIssues(lines, lang, metrics, complexity),
		Quality:    scoreQuality(metrics, complexity),
	}, nil
}

func splitLines(content string) []string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
