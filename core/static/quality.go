package static

import "github.com/huangsam/changescope/schema"

// scoreQuality starts at 100 and deducts per threshold crossed, clamped to [0,100].
func scoreQuality(m schema.LineMetrics, c schema.ComplexityMetrics) schema.Quality {
	score := startingQuality
	if c.Cyclomatic > complexCyclomatic {
		score -= 10
	}
	if c.Cyclomatic > veryComplex {
		score -= 10
	}
	if c.Nesting > deepNesting {
		score -= 5
	}
	if m.TotalLines > longFile {
		score -= 5
	}
	if m.TotalLines > veryLongFile {
		score -= 10
	}
	if commentRatio(m) < minCommentToCode {
		score -= 5
	}
	score = min(max(score, 0), 100)
	return schema.Quality{Score: score, Grade: Grade(score)}
}

// Grade maps a quality score to a letter.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
