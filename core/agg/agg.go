// Package agg has aggregation logic for the commit log of a change.
package agg

import (
	"context"

	"github.com/huangsam/changescope/core/algo"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"golang.org/x/sync/errgroup"
)

// Repository pattern thresholds. A pattern is reported when its ratio is strictly above.
const (
	conventionalThreshold = 0.7
	ticketThreshold       = 0.5
)

// Pattern names reported in CommitAggregation.Patterns.
const (
	PatternConventional = "conventional-commits"
	PatternTickets      = "ticket-references"
)

// FetchCommits returns the commits unique to sourceRef.
// A commit filter selects exactly that commit, a commit range selects from..to,
// and otherwise the commits reachable from sourceRef but not targetRef are kept.
func FetchCommits(ctx context.Context, client contract.GitClient, repoPath, sourceRef, targetRef string, filters schema.Filters) ([]schema.CommitRecord, error) {
	switch {
	case filters.Commit != "":
		return client.CommitLog(ctx, repoPath, filters.Commit+"^!", filters)
	case filters.From != "" && filters.To != "":
		return client.CommitLog(ctx, repoPath, filters.From+".."+filters.To, filters)
	}

	var source, target []schema.CommitRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		source, err = client.CommitLog(gctx, repoPath, sourceRef, filters)
		return err
	})
	g.Go(func() error {
		var err error
		target, err = client.CommitLog(gctx, repoPath, targetRef, filters)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return subtractCommits(source, target), nil
}

// subtractCommits keeps the commits of a whose hash is not in b, in a's order.
func subtractCommits(a, b []schema.CommitRecord) []schema.CommitRecord {
	seen := make(map[string]struct{}, len(b))
	for _, c := range b {
		seen[c.Hash] = struct{}{}
	}
	out := make([]schema.CommitRecord, 0, len(a))
	for _, c := range a {
		if _, ok := seen[c.Hash]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// AggregateCommits classifies every commit and groups them by author and type.
func AggregateCommits(commits []schema.CommitRecord) schema.CommitAggregation {
	result := schema.CommitAggregation{
		Total:    len(commits),
		Commits:  make([]schema.CommitRecord, 0, len(commits)),
		ByAuthor: make(map[string]schema.AuthorStats),
		ByType:   make(map[schema.CommitType]int),
	}

	for _, c := range commits {
		c.Type = algo.ClassifyCommit(c.Message)
		result.Commits = append(result.Commits, c)

		stats := result.ByAuthor[c.Author]
		stats.Count++
		stats.Hashes = append(stats.Hashes, c.Hash)
		result.ByAuthor[c.Author] = stats

		result.ByType[c.Type]++
	}

	result.Patterns = DetectPatterns(commits)
	return result
}

// DetectPatterns reports the repository conventions followed by most commits.
func DetectPatterns(commits []schema.CommitRecord) []schema.CommitPattern {
	patterns := []schema.CommitPattern{}
	if len(commits) == 0 {
		return patterns
	}

	var conventional, tickets int
	for _, c := range commits {
		if algo.IsConventional(c.Message) {
			conventional++
		}
		if algo.HasTicketReference(c.Message) {
			tickets++
		}
	}

	total := float64(len(commits))
	if ratio := float64(conventional) / total; ratio > conventionalThreshold {
		patterns = append(patterns, schema.CommitPattern{
			Name:        PatternConventional,
			Description: "Most commits follow the conventional commit format",
			Ratio:       ratio,
		})
	}
	if ratio := float64(tickets) / total; ratio > ticketThreshold {
		patterns = append(patterns, schema.CommitPattern{
			Name:        PatternTickets,
			Description: "Most commits reference an issue tracker key",
			Ratio:       ratio,
		})
	}
	return patterns
}
