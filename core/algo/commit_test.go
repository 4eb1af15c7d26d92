package algo

import (
	"testing"

	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
)

func TestClassifyCommit(t *testing.T) {
	tests := []struct {
		message  string
		expected schema.CommitType
	}{
		{"feat: add login", schema.CommitFeat},
		{"feat(auth): add login", schema.CommitFeat},
		{"fix!: drop legacy flag", schema.CommitFix},
		{"Docs: update readme", schema.CommitDocs},
		{"style: gofmt", schema.CommitStyle},
		{"refactor(core): split builder", schema.CommitRefactor},
		{"perf: cache regexes", schema.CommitPerf},
		{"test: cover rename", schema.CommitTest},
		{"build: bump go", schema.CommitBuild},
		{"ci: add lint job", schema.CommitCI},
		{"chore: tidy", schema.CommitChore},
		{"revert: feat: add login", schema.CommitRevert},
		{"Merge branch 'main' into feature", schema.CommitMerge},
		{"Hotfix for prod outage", schema.CommitHotfix},
		{"bugfix in parser", schema.CommitFix},
		{"New feature for exports", schema.CommitFeat},
		{"update stuff", schema.CommitOther},
		{"feature: not a conventional type", schema.CommitFeat},
		{"fixup typo", schema.CommitOther},
		{"feat:", schema.CommitOther},
		{"", schema.CommitOther},
		{"feat: multi\n\nbody mentions merge", schema.CommitFeat},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyCommit(tt.message))
		})
	}
}

func TestIsConventional(t *testing.T) {
	assert.True(t, IsConventional("feat(ui): button"))
	assert.True(t, IsConventional("  chore: trim  "))
	assert.False(t, IsConventional("Merge pull request #1"))
	assert.False(t, IsConventional("feature: x"))
}

func TestHasTicketReference(t *testing.T) {
	assert.True(t, HasTicketReference("fix: PROJ-123 null check"))
	assert.True(t, HasTicketReference("AB2-9 tweak"))
	assert.False(t, HasTicketReference("fix: proj-123 lowercase"))
	assert.False(t, HasTicketReference("A-1 single letter prefix"))
	assert.False(t, HasTicketReference("no ticket"))
}
