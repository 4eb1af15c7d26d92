package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/changescope/core"
	"github.com/huangsam/changescope/core/algo"
	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	client  contract.GitClient
}

// configFor clones the base config and applies the repo_path override.
func (h *toolHandler) configFor(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	return cfg
}

func (h *toolHandler) handleAnalyzeBranchDiff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	cfg.TargetRef = strings.TrimSpace(request.GetString("target_ref", ""))
	cfg.SourceRef = strings.TrimSpace(request.GetString("source_ref", ""))
	if cfg.TargetRef == "" {
		return mcp.NewToolResultError("target_ref is required"), nil
	}
	if cfg.SourceRef == "" {
		cfg.SourceRef = contract.DefaultSourceRef
	}

	since, until, err := contract.NormalizeTimeRange(request.GetString("since", ""), request.GetString("until", ""), time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filters: %v", err)), nil
	}
	filters, err := schema.NewFilters(schema.FilterInput{
		Commit:  request.GetString("commit", ""),
		From:    request.GetString("from", ""),
		To:      request.GetString("to", ""),
		Since:   since,
		Until:   until,
		Author:  request.GetString("author", ""),
		File:    request.GetString("file", ""),
		Include: request.GetString("include", ""),
		Exclude: request.GetString("exclude", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filters: %v", err)), nil
	}
	cfg.Filters = filters

	result, err := core.GetDiffResult(core.WithSuppressHeader(ctx), cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	if l := request.GetInt("limit", 0); l > 0 {
		limited := *result
		limited.Files = algo.RankByImpact(result.Files, l)
		result = &limited
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)

	list, err := core.GetBranches(ctx, cfg, h.client)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing branches failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(list, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleInspectFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)

	result, err := core.InspectFile(ctx, cfg, h.client, request.GetString("ref", ""), request.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspection failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
