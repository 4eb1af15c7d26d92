// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/changescope/schema"
)

// GitClient defines the revision operations the change analysis needs.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Repository / Reference Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// ListBranches returns local branch names in ref order.
	ListBranches(ctx context.Context, repoPath string) ([]string, error)

	// ResolveRef returns the commit hash a ref points to.
	ResolveRef(ctx context.Context, repoPath string, ref string) (string, error)

	// --- Diff ---

	// DiffSummary returns aggregate counts over targetRef...sourceRef after filtering.
	DiffSummary(ctx context.Context, repoPath string, targetRef, sourceRef string, filters schema.Filters) (schema.DiffSummary, error)

	// DiffFiles returns the changed paths over targetRef...sourceRef in diff order.
	DiffFiles(ctx context.Context, repoPath string, targetRef, sourceRef string, filters schema.Filters) ([]schema.DiffEntry, error)

	// FileDiff returns the unified diff of one path over the same range DiffFiles uses.
	FileDiff(ctx context.Context, repoPath string, targetRef, sourceRef, path string, filters schema.Filters) (schema.FileDiff, error)

	// --- File State / Content ---

	// FileContentAt returns the content of path at ref, or an error wrapping ErrContentUnavailable.
	FileContentAt(ctx context.Context, repoPath string, ref, path string) (string, error)

	// --- Commit Logs ---

	// CommitLog returns the commits reachable from rev, newest first.
	// Since, until, author and the file pathspec of filters apply.
	CommitLog(ctx context.Context, repoPath string, rev string, filters schema.Filters) ([]schema.CommitRecord, error)
}
