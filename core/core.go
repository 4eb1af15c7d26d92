// Package core has the change analysis: per-file classification and static reports,
// functional diffs, impact ranking, insights and the result cache around them.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/changescope/core/classify"
	"github.com/huangsam/changescope/core/static"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/internal/outwriter"
	"github.com/huangsam/changescope/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteDiff analyzes the configured refs and prints the result.
// It serves as the main entry point for the 'diff' command.
func ExecuteDiff(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetDiffResult(ctx, cfg, contract.NewLocalGitClient(), mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDiff(result, cfg, time.Since(start))
}

// GetDiffResult runs the branch diff analysis for the configured refs and filters.
func GetDiffResult(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.AnalysisResult, error) {
	return NewChangeAnalyzerFromConfig(client, cfg, mgr).AnalyzeBranchDiff(ctx, cfg.SourceRef, cfg.TargetRef, cfg.Filters)
}

// ExecuteBranches lists the local branches of the repository.
func ExecuteBranches(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	list, err := GetBranches(ctx, cfg, contract.NewLocalGitClient())
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBranches(list, cfg, time.Since(start))
}

// GetBranches returns the local branches of the configured repository.
func GetBranches(ctx context.Context, cfg *contract.Config, client contract.GitClient) (schema.BranchList, error) {
	branches, err := client.ListBranches(ctx, cfg.RepoPath)
	if err != nil {
		return schema.BranchList{}, err
	}
	return schema.BranchList{RepoPath: cfg.RepoPath, Branches: branches}, nil
}

// ExecuteInspect classifies one file at one ref and prints both reports.
func ExecuteInspect(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	result, err := InspectFile(ctx, cfg, contract.NewLocalGitClient(), cfg.InspectRef, cfg.InspectPath)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteInspect(result, cfg, time.Since(start))
}

// InspectFile runs the classifier and the static analyzer on path at ref.
func InspectFile(ctx context.Context, cfg *contract.Config, client contract.GitClient, ref, path string) (schema.InspectResult, error) {
	if path == "" {
		return schema.InspectResult{}, errors.New("--path is required")
	}
	if ref == "" {
		ref = contract.DefaultSourceRef
	}

	commit, err := client.ResolveRef(ctx, cfg.RepoPath, ref)
	if err != nil {
		return schema.InspectResult{}, contract.NewRepositoryAccessError("resolve", ref, err)
	}
	content, err := client.FileContentAt(ctx, cfg.RepoPath, ref, path)
	if err != nil {
		return schema.InspectResult{}, fmt.Errorf("cannot inspect %s: %w", path, err)
	}

	snap := classify.New(classify.WithMethodExcludes(cfg.MethodExcludes)).Analyze(path, content)
	result := schema.InspectResult{Path: path, Ref: ref, Commit: commit, Snapshot: snap}
	if report, err := static.Analyze(content, snap.Language); err == nil {
		result.Static = &report
	}
	return result, nil
}
