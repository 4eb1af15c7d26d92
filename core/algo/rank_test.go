package algo

import (
	"testing"

	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
)

func record(path string, change schema.FileChange) schema.FileChangeRecord {
	return schema.FileChangeRecord{Path: path, Change: change}
}

func paths(records []schema.FileChangeRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}

func TestRankByImpact(t *testing.T) {
	records := []schema.FileChangeRecord{
		record("src/b.js", schema.ModifiedChange{}),                // 1
		record("config/app.js", schema.AddedChange{}),              // 6
		record("src/a.js", schema.ModifiedChange{}),                // 1
		record("src/new.js", schema.AddedChange{}),                 // 3
		record("src/gone.js", schema.DeletedChange{}),              // 2
		record("src/moved.js", schema.RenamedChange{OldPath: "x"}), // 1
	}

	t.Run("all records", func(t *testing.T) {
		ranked := RankByImpact(records, 0)
		assert.Equal(t, []string{"config/app.js", "src/new.js", "src/gone.js", "src/a.js", "src/b.js", "src/moved.js"}, paths(ranked))
	})

	t.Run("limit", func(t *testing.T) {
		ranked := RankByImpact(records, 2)
		assert.Equal(t, []string{"config/app.js", "src/new.js"}, paths(ranked))
	})

	t.Run("limit larger than input", func(t *testing.T) {
		assert.Len(t, RankByImpact(records, 100), len(records))
	})

	t.Run("input is untouched", func(t *testing.T) {
		_ = RankByImpact(records, 1)
		assert.Equal(t, "src/b.js", records[0].Path)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, RankByImpact(nil, 5))
	})
}
