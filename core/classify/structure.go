package classify

import (
	"regexp"
	"strings"

	"github.com/huangsam/changescope/schema"
)

var (
	importLine    = regexp.MustCompile(`^(import\b|from\s+[\w.]+\s+import\b|(const|let|var)\s+\S+\s*=\s*require\s*\(|using\s+[\w.]+\s*;|require\s*\()`)
	exportLine    = regexp.MustCompile(`^(export\b|module\.exports\b|exports\.\w+\s*=)`)
	functionLine  = regexp.MustCompile(`^((async\s+)?function\b|(async\s+)?def\s|func\s|(const|let|var)\s+[\w$]+\s*=\s*(async\s+)?(\([^)]*\)|[\w$]+)\s*=>|(public|private|protected)\s+(static\s+)?[\w<>\[\]]+\s+\w+\s*\()`)
	classLine     = regexp.MustCompile(`^((public\s+|abstract\s+|final\s+)*class\s+\w|type\s+\w+\s+struct\b)`)
	interfaceLine = regexp.MustCompile(`^((public\s+)?interface\s+\w|type\s+\w+|enum\s+\w)`)
)

// SplitLines splits content into lines without a phantom line after a trailing newline.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func isCommentLine(trimmed string) bool {
	switch {
	case strings.HasPrefix(trimmed, "//"),
		strings.HasPrefix(trimmed, "/*"),
		strings.HasPrefix(trimmed, "*"),
		strings.HasPrefix(trimmed, "<!--"),
		strings.HasPrefix(trimmed, `"""`):
		return true
	case strings.HasPrefix(trimmed, "#"):
		return !strings.HasPrefix(trimmed, "#include")
	}
	return false
}

// CountStructure classifies every line into at most one structural bucket.
func CountStructure(content string) schema.StructureCounts {
	lines := SplitLines(content)
	counts := schema.StructureCounts{Lines: len(lines)}
	for _, line := range lines {
		t := strings.TrimSpace(line)
		switch {
		case t == "":
			counts.BlankLines++
		case isCommentLine(t):
			counts.Comments++
		case importLine.MatchString(t) || strings.HasPrefix(t, "#include"):
			counts.Imports++
		case exportLine.MatchString(t):
			counts.Exports++
		case functionLine.MatchString(t):
			counts.Functions++
		case classLine.MatchString(t):
			counts.Classes++
		case interfaceLine.MatchString(t):
			counts.Interfaces++
		}
	}
	return counts
}
