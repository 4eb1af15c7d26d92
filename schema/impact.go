package schema

import (
	"math"
	"strings"
)

// Impact thresholds and multipliers.
const (
	highImpactAbove    = 5
	mediumImpactAbove  = 2
	complexityImpactAt = 10
)

// statusBaseImpact is the starting score per status.
var statusBaseImpact = map[FileStatus]float64{
	StatusAdded:    3,
	StatusDeleted:  2,
	StatusModified: 1,
	StatusRenamed:  1,
}

// testPathImpact applies to paths matched by IsTestPath.
const testPathImpact = 0.5

// pathImpactMultipliers apply when the lowercased path contains the marker.
var pathImpactMultipliers = []struct {
	marker string
	factor float64
}{
	{"config", 2},
	{"security", 3},
}

// ScoreImpact computes the impact of a record from its status, path and static report.
func ScoreImpact(r *FileChangeRecord) Impact {
	score := statusBaseImpact[r.Status()]

	if IsTestPath(r.Path) {
		score *= testPathImpact
	}
	lower := strings.ToLower(r.Path)
	for _, m := range pathImpactMultipliers {
		if strings.Contains(lower, m.marker) {
			score *= m.factor
		}
	}

	if st := r.Static(); st != nil {
		if st.Complexity.Cyclomatic > complexityImpactAt {
			score *= 1.5
		}
		if len(st.Issues.Security) > 0 {
			score *= 3
		}
	}

	rounded := int(math.Round(score))
	return Impact{Score: rounded, Level: ImpactLevelFor(rounded)}
}

// ImpactLevelFor buckets a rounded impact score.
func ImpactLevelFor(score int) ImpactLevel {
	switch {
	case score > highImpactAbove:
		return ImpactHigh
	case score > mediumImpactAbove:
		return ImpactMedium
	default:
		return ImpactLow
	}
}
