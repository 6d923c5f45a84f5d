package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/diffeffort/core"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	client  contract.GitClient
	lister  contract.RemoteLister
}

// jsonResult marshals v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEstimateEffort(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	changes := request.GetFloat("changes", -1)
	if changes < 0 || changes != float64(int(changes)) {
		return mcp.NewToolResultError(fmt.Sprintf("changes must be a non-negative integer (received %v)", changes)), nil
	}

	cost := h.baseCfg.Cost
	cost.PerChangeMinutes = request.GetFloat("per_change_minutes", cost.PerChangeMinutes)
	cost.DecayFactor = request.GetFloat("decay_factor", cost.DecayFactor)
	cost.SetupMinutes = request.GetFloat("setup_minutes", cost.SetupMinutes)

	result, err := core.GetEstimateResult(int(changes), cost)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleAnalyzeDay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	repo := request.GetString("repo_path", "")
	if repo == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}
	if b := contract.SplitList(request.GetString("branches", "")); len(b) > 0 {
		cfg.Branches = b
	}
	day, err := contract.ParseDay(request.GetString("date", "today"), time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg.Days = []time.Time{day}

	result, err := core.AnalyzeRepoDay(core.WithSuppressHeader(ctx), cfg, h.client, h.mgr, repo, day)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(struct {
		Rules               []schema.CategoryRule `json:"rules"`
		IncludeUnclassified bool                  `json:"include_unclassified"`
	}{
		Rules:               h.baseCfg.Categories,
		IncludeUnclassified: h.baseCfg.IncludeUnclassified,
	})
}

func (h *toolHandler) handleListRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := request.GetString("root_dir", h.baseCfg.RootDir)
	filter := request.GetString("remote_filter", h.baseCfg.RemoteFilter)

	repos, err := core.DiscoverRepositories(core.WithSuppressHeader(ctx), root, filter, h.lister)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("discovery failed: %v", err)), nil
	}
	return jsonResult(repos)
}
