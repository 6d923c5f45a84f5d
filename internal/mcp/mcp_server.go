// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the diffeffort MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Diff Effort Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		client:  contract.NewLocalGitClient(),
		lister:  contract.NewGoGitRemoteLister(),
	}

	// --- 1. Tool: estimate_effort ---
	s.AddTool(mcp.NewTool("estimate_effort",
		mcp.WithDescription("Estimate the time spent on a number of changed lines, using a decaying per-line cost plus a setup cost."),
		mcp.WithNumber("changes", mcp.Description("Number of added plus removed lines."), mcp.Required()),
		mcp.WithNumber("per_change_minutes", mcp.Description("Minutes the first change costs (defaults to the configured value).")),
		mcp.WithNumber("decay_factor", mcp.Description("Multiplier applied to each following change, in (0, 1].")),
		mcp.WithNumber("setup_minutes", mcp.Description("Fixed minutes added once.")),
	), h.handleEstimateEffort)

	// --- 2. Tool: analyze_day ---
	s.AddTool(mcp.NewTool("analyze_day",
		mcp.WithDescription("Count the changed lines per file category in one Git repository on one day and estimate the effort."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository."), mcp.Required()),
		mcp.WithString("date", mcp.Description("Day to analyze as YYYY-MM-DD, 'today', 'yesterday' or 'N days ago'. Defaults to today.")),
		mcp.WithString("branches", mcp.Description("Comma-separated branch preference list (e.g., 'develop,main,master').")),
	), h.handleAnalyzeDay)

	// --- 3. Tool: list_categories ---
	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the file category rules in match order."),
	), h.handleListCategories)

	// --- 4. Tool: list_repositories ---
	s.AddTool(mcp.NewTool("list_repositories",
		mcp.WithDescription("Find the Git repositories under a directory, optionally keeping those whose remotes contain a filter."),
		mcp.WithString("root_dir", mcp.Description("Directory to search (defaults to the configured root).")),
		mcp.WithString("remote_filter", mcp.Description("Case-insensitive text a remote name or URL must contain.")),
	), h.handleListRepositories)

	return s
}

// StartMCPServer starts the diffeffort MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
