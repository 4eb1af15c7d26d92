// Package algo has the ranking and classification rules shared by the analysis.
package algo

import (
	"slices"
	"strings"

	"github.com/huangsam/changescope/schema"
)

// RankByImpact orders change records by impact score in descending order and
// returns the top 'limit' records. Ties keep path order. A limit <= 0 or
// larger than the number of records returns all of them. The input is not modified.
func RankByImpact(records []schema.FileChangeRecord, limit int) []schema.FileChangeRecord {
	ranked := slices.Clone(records)
	scores := make(map[string]int, len(ranked))
	for i := range ranked {
		scores[ranked[i].Path] = ranked[i].Impact().Score
	}
	slices.SortStableFunc(ranked, func(a, b schema.FileChangeRecord) int {
		if sa, sb := scores[a.Path], scores[b.Path]; sa != sb {
			return sb - sa
		}
		return strings.Compare(a.Path, b.Path)
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
