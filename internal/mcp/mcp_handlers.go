package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
// Every tool reads the holder's current dataset, loading one on first use.
type toolHandler struct {
	baseCfg *contract.Config
	loader  *core.Loader
	holder  *core.DatasetHolder
}

// dataset returns the current generation, building the first one lazily.
func (h *toolHandler) dataset(ctx context.Context) (*core.Dataset, error) {
	if ds := h.holder.Current(); ds != nil {
		return ds, nil
	}
	return h.loader.Load(ctx)
}

// monthArg reads an optional month argument and validates its format.
func monthArg(request mcp.CallToolRequest, key string) (string, error) {
	m := request.GetString(key, "")
	if m == "" {
		return "", nil
	}
	if err := contract.ValidateMonthKey(m); err != nil {
		return "", err
	}
	return m, nil
}

// limitArg reads an optional limit argument, falling back to the configured one.
func (h *toolHandler) limitArg(request mcp.CallToolRequest) int {
	if l := request.GetInt("limit", 0); l > 0 {
		return min(l, contract.MaxResultLimit)
	}
	return h.baseCfg.ResultLimit
}

// jsonResult renders a payload together with the dataset it came from.
func jsonResult(ds *core.Dataset, key string, payload any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(map[string]any{"dataset": ds.Info(), key: payload}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	month, err := monthArg(request, "month")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid snapshot parameters: %v", err)), nil
	}

	ds, err := h.dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	result, err := core.BuildSnapshot(ds, month)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}
	result.Records = algo.Limit(result.Records, h.limitArg(request))

	return jsonResult(ds, "snapshot", result), nil
}

func (h *toolHandler) handleGetRollingAverage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	month, err := monthArg(request, "month")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid rolling parameters: %v", err)), nil
	}
	months := request.GetInt("months", h.baseCfg.Months)
	if months < 1 {
		return mcp.NewToolResultError("invalid rolling parameters: months must be at least 1"), nil
	}

	ds, err := h.dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	result, err := core.RollingWindow(ds.Index, month, months, ds.Thresholds)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rolling average failed: %v", err)), nil
	}
	result.Records = algo.Limit(result.Records, h.limitArg(request))

	return jsonResult(ds, "rolling", result), nil
}

func (h *toolHandler) handleCompareMonths(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	base, err := monthArg(request, "base_month")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}
	target, err := monthArg(request, "target_month")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}

	ds, err := h.dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	base, target, err = core.ResolveComparisonMonths(ds.Index, base, target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	result, err := core.CompareMonths(ds.Index, base, target, h.limitArg(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	return jsonResult(ds, "comparison", result), nil
}

func (h *toolHandler) handleGetLocation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("invalid location parameters: name is required"), nil
	}
	month, err := monthArg(request, "month")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid location parameters: %v", err)), nil
	}

	ds, err := h.dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	detail, err := core.DescribeLocation(ds, name, month, h.baseCfg.AlertThresholds)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("location lookup failed: %v", err)), nil
	}

	return jsonResult(ds, "location", detail), nil
}

func (h *toolHandler) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	month, err := monthArg(request, "month")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}
	rolling := request.GetBool("rolling", false)
	months := request.GetInt("months", h.baseCfg.Months)
	if rolling && months < 1 {
		return mcp.NewToolResultError("invalid report parameters: months must be at least 1"), nil
	}

	ds, err := h.dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	report, _, err := core.BuildAnalysisReport(ds, month, months, rolling)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	return jsonResult(ds, "report", report), nil
}
