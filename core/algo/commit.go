package algo

import (
	"regexp"
	"strings"

	"github.com/huangsam/changescope/schema"
)

// conventionalTypes is checked in order against the commit subject.
var conventionalTypes = []schema.CommitType{
	schema.CommitFeat,
	schema.CommitFix,
	schema.CommitDocs,
	schema.CommitStyle,
	schema.CommitRefactor,
	schema.CommitPerf,
	schema.CommitTest,
	schema.CommitBuild,
	schema.CommitCI,
	schema.CommitChore,
	schema.CommitRevert,
}

// conventionalPatterns holds one "type(scope)!: subject" pattern per conventional type.
var conventionalPatterns = buildConventionalPatterns()

func buildConventionalPatterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(conventionalTypes))
	for _, t := range conventionalTypes {
		out = append(out, regexp.MustCompile(`(?i)^`+string(t)+`(\([^)]*\))?!?:\s*\S`))
	}
	return out
}

// keywordFallbacks apply when the subject is not conventional.
var keywordFallbacks = []struct {
	pattern *regexp.Regexp
	kind    schema.CommitType
}{
	{regexp.MustCompile(`(?i)\bmerge\b`), schema.CommitMerge},
	{regexp.MustCompile(`(?i)\bhot-?fix\b`), schema.CommitHotfix},
	{regexp.MustCompile(`(?i)\bbug-?fix(es)?\b`), schema.CommitFix},
	{regexp.MustCompile(`(?i)\bfeature\b`), schema.CommitFeat},
}

// ticketPattern matches issue tracker keys such as PROJ-123.
var ticketPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]+-\d+\b`)

// ClassifyCommit derives the commit type from the first line of a message.
func ClassifyCommit(message string) schema.CommitType {
	subject := firstLine(message)
	for i, re := range conventionalPatterns {
		if re.MatchString(subject) {
			return conventionalTypes[i]
		}
	}
	for _, kw := range keywordFallbacks {
		if kw.pattern.MatchString(subject) {
			return kw.kind
		}
	}
	return schema.CommitOther
}

// IsConventional reports whether the subject follows the conventional commit table.
func IsConventional(message string) bool {
	subject := firstLine(message)
	for _, re := range conventionalPatterns {
		if re.MatchString(subject) {
			return true
		}
	}
	return false
}

// HasTicketReference reports whether the message mentions a tracker key.
func HasTicketReference(message string) bool {
	return ticketPattern.MatchString(message)
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(line)
}
