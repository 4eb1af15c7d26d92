package agg

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"testing"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/commits.json
var commitsFixture []byte

func loadCommits(t *testing.T) []schema.CommitRecord {
	t.Helper()
	var commits []schema.CommitRecord
	require.NoError(t, json.Unmarshal(commitsFixture, &commits))
	return commits
}

func TestAggregateCommits(t *testing.T) {
	result := AggregateCommits(loadCommits(t))

	assert.Equal(t, 5, result.Total)
	require.Len(t, result.Commits, 5)
	assert.Equal(t, schema.CommitFeat, result.Commits[0].Type)
	assert.Equal(t, schema.CommitMerge, result.Commits[4].Type)

	assert.Equal(t, schema.AuthorStats{Count: 3, Hashes: []string{"c5", "c3", "c2"}}, result.ByAuthor["Alice"])
	assert.Equal(t, schema.AuthorStats{Count: 1, Hashes: []string{"c4"}}, result.ByAuthor["Bob"])
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, schema.SortedAuthors(result.ByAuthor))

	assert.Equal(t, map[schema.CommitType]int{
		schema.CommitFeat:  1,
		schema.CommitFix:   1,
		schema.CommitDocs:  1,
		schema.CommitTest:  1,
		schema.CommitMerge: 1,
	}, result.ByType)

	// 4 of 5 conventional (0.8), 3 of 5 with tickets (0.6)
	require.Len(t, result.Patterns, 2)
	assert.Equal(t, PatternConventional, result.Patterns[0].Name)
	assert.InDelta(t, 0.8, result.Patterns[0].Ratio, 1e-9)
	assert.Equal(t, PatternTickets, result.Patterns[1].Name)
	assert.InDelta(t, 0.6, result.Patterns[1].Ratio, 1e-9)
}

func TestAggregateCommitsEmpty(t *testing.T) {
	result := AggregateCommits(nil)
	assert.Zero(t, result.Total)
	assert.NotNil(t, result.Commits)
	assert.NotNil(t, result.Patterns)
	assert.Empty(t, result.ByAuthor)
}

func TestDetectPatternsThresholdsAreStrict(t *testing.T) {
	msgs := func(ms ...string) []schema.CommitRecord {
		out := make([]schema.CommitRecord, 0, len(ms))
		for _, m := range ms {
			out = append(out, schema.CommitRecord{Message: m})
		}
		return out
	}

	// exactly 70% conventional and 50% tickets: neither pattern
	commits := msgs(
		"feat: a ABC-1", "fix: b ABC-2", "docs: c ABC-3", "chore: d ABC-4", "ci: e ABC-5",
		"test: f", "build: g", "update h", "tweak i", "misc j",
	)
	assert.Empty(t, DetectPatterns(commits))

	commits = append(commits, msgs("perf: k XYZ-9")...)
	names := []string{}
	for _, p := range DetectPatterns(commits) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{PatternConventional, PatternTickets}, names)
}

func TestFetchCommits(t *testing.T) {
	ctx := context.Background()
	const repo = "/test/repo"
	c := func(h string) schema.CommitRecord { return schema.CommitRecord{Hash: h} }

	t.Run("source minus target", func(t *testing.T) {
		mockClient := &contract.MockGitClient{}
		mockClient.On("CommitLog", mock.Anything, repo, "feature", schema.Filters{}).
			Return([]schema.CommitRecord{c("f2"), c("f1"), c("m1")}, nil)
		mockClient.On("CommitLog", mock.Anything, repo, "main", schema.Filters{}).
			Return([]schema.CommitRecord{c("m1")}, nil)

		commits, err := FetchCommits(ctx, mockClient, repo, "feature", "main", schema.Filters{})
		require.NoError(t, err)
		assert.Equal(t, []schema.CommitRecord{c("f2"), c("f1")}, commits)
		mockClient.AssertExpectations(t)
	})

	t.Run("commit filter", func(t *testing.T) {
		filters := schema.Filters{Commit: "abc1234"}
		mockClient := &contract.MockGitClient{}
		mockClient.On("CommitLog", ctx, repo, "abc1234^!", filters).Return([]schema.CommitRecord{c("abc1234")}, nil)

		commits, err := FetchCommits(ctx, mockClient, repo, "feature", "main", filters)
		require.NoError(t, err)
		assert.Len(t, commits, 1)
		mockClient.AssertExpectations(t)
	})

	t.Run("range filter", func(t *testing.T) {
		filters := schema.Filters{From: "v1", To: "v2"}
		mockClient := &contract.MockGitClient{}
		mockClient.On("CommitLog", ctx, repo, "v1..v2", filters).Return([]schema.CommitRecord{}, nil)

		commits, err := FetchCommits(ctx, mockClient, repo, "feature", "main", filters)
		require.NoError(t, err)
		assert.Empty(t, commits)
		mockClient.AssertExpectations(t)
	})

	t.Run("log failure", func(t *testing.T) {
		mockClient := &contract.MockGitClient{}
		mockClient.On("CommitLog", mock.Anything, repo, "feature", schema.Filters{}).Return(nil, errors.New("boom"))
		mockClient.On("CommitLog", mock.Anything, repo, "main", schema.Filters{}).Return([]schema.CommitRecord{}, nil).Maybe()

		_, err := FetchCommits(ctx, mockClient, repo, "feature", "main", schema.Filters{})
		assert.Error(t, err)
	})
}
