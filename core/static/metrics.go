package static

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/changescope/schema"
)

// lineMetrics counts lines in one pass. Block comments are tracked across lines.
func lineMetrics(lines []string) schema.LineMetrics {
	m := schema.LineMetrics{TotalLines: len(lines)}
	inBlock := false
	totalLen := 0

	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		totalLen += n
		m.MaxLineLength = max(m.MaxLineLength, n)

		t := strings.TrimSpace(line)
		switch {
		case inBlock:
			m.CommentLines++
			if strings.Contains(t, "*/") {
				inBlock = false
			}
		case t == "":
			m.BlankLines++
		case strings.HasPrefix(t, "/*"):
			m.CommentLines++
			if !strings.Contains(t[2:], "*/") {
				inBlock = true
			}
		case strings.HasPrefix(t, "//"), strings.HasPrefix(t, "#") && !strings.HasPrefix(t, "#include"):
			m.CommentLines++
		default:
			m.CodeLines++
		}
	}

	if m.TotalLines > 0 {
		m.AvgLineLength = round2(float64(totalLen) / float64(m.TotalLines))
	}
	return m
}

// commentRatio is comments per code line; files without code count as fully commented.
func commentRatio(m schema.LineMetrics) float64 {
	if m.CodeLines == 0 {
		return 1
	}
	return float64(m.CommentLines) / float64(m.CodeLines)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
