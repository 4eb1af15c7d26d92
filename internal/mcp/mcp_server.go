// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the changescope MCP server without starting it.
// A nil client falls back to the local git binary.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, client contract.GitClient) *server.MCPServer {
	s := server.NewMCPServer(
		"Changescope Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	if client == nil {
		client = contract.NewLocalGitClient()
	}
	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		client:  client,
	}

	// --- 1. Tool: analyze_branch_diff ---
	s.AddTool(mcp.NewTool("analyze_branch_diff",
		mcp.WithDescription("Analyze the changes of a source ref against a target ref: per-file classification, static analysis, impact, commits and insights."),
		mcp.WithString("target_ref", mcp.Description("The ref the changes are compared against (e.g. main)."), mcp.Required()),
		mcp.WithString("source_ref", mcp.Description("The ref holding the changes. Defaults to HEAD.")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository).")),
		mcp.WithString("commit", mcp.Description("Analyze only this commit against its parent.")),
		mcp.WithString("from", mcp.Description("Start of a commit range (requires 'to').")),
		mcp.WithString("to", mcp.Description("End of a commit range (requires 'from').")),
		mcp.WithString("since", mcp.Description("Only count commits after this date (YYYY-MM-DD, RFC3339 or 'N units ago').")),
		mcp.WithString("until", mcp.Description("Only count commits before this date (YYYY-MM-DD, RFC3339 or 'N units ago').")),
		mcp.WithString("author", mcp.Description("Only count commits by this author.")),
		mcp.WithString("file", mcp.Description("Restrict the analysis to this path.")),
		mcp.WithString("include", mcp.Description("Comma-separated globs of paths to keep.")),
		mcp.WithString("exclude", mcp.Description("Comma-separated globs of paths to drop.")),
		mcp.WithNumber("limit", mcp.Description("Return only the highest-impact files.")),
	), h.handleAnalyzeBranchDiff)

	// --- 2. Tool: list_branches ---
	s.AddTool(mcp.NewTool("list_branches",
		mcp.WithDescription("List the local branches of the repository."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleListBranches)

	// --- 3. Tool: inspect_file ---
	s.AddTool(mcp.NewTool("inspect_file",
		mcp.WithDescription("Classify one file at one ref and run the static analyzer on it."),
		mcp.WithString("path", mcp.Description("Repository-relative path of the file."), mcp.Required()),
		mcp.WithString("ref", mcp.Description("The ref to read the file from. Defaults to HEAD.")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleInspectFile)

	return s
}

// StartMCPServer starts the changescope MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr, nil)
	return server.ServeStdio(s)
}
