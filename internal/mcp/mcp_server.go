// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/internal/ingest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the locscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Location Score Server",
		"1.0.0",
		server.WithLogging(),
	)

	var fetchStore contract.CacheStore
	if mgr != nil {
		fetchStore = mgr.GetFetchStore()
	}
	holder := core.NewDatasetHolder()
	h := &toolHandler{
		baseCfg: baseCfg,
		loader:  core.NewLoader(baseCfg, ingest.NewDataSource(baseCfg, fetchStore), holder),
		holder:  holder,
	}

	s.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Rank every location by overall score for one month (latest by default)."),
		mcp.WithString("month", mcp.Description("Month key in YYYY-MM format. Defaults to the latest month.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked locations returned.")),
	), h.handleGetSnapshot)

	s.AddTool(mcp.NewTool("get_rolling_average",
		mcp.WithDescription("Average each location's scores over the most recent months and rank them."),
		mcp.WithNumber("months", mcp.Description("Number of months in the window. Defaults to the configured window.")),
		mcp.WithString("month", mcp.Description("Last month of the window in YYYY-MM format. Defaults to the latest month.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked locations returned.")),
	), h.handleGetRollingAverage)

	s.AddTool(mcp.NewTool("compare_months",
		mcp.WithDescription("Compare location scores between two months, largest changes first."),
		mcp.WithString("base_month", mcp.Description("Base month in YYYY-MM format. Defaults to the month before the target.")),
		mcp.WithString("target_month", mcp.Description("Target month in YYYY-MM format. Defaults to the latest month.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of changes returned.")),
	), h.handleCompareMonths)

	s.AddTool(mcp.NewTool("get_location",
		mcp.WithDescription("Drill into one location: category and metric scores, trend, history, alert level and improvement actions."),
		mcp.WithString("name", mcp.Description("Location name (case-insensitive)."), mcp.Required()),
		mcp.WithString("month", mcp.Description("Month key in YYYY-MM format. Defaults to the latest month.")),
	), h.handleGetLocation)

	s.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Build the network analysis report: summary, category insights, recommendations, risks and benchmark gaps."),
		mcp.WithString("month", mcp.Description("Month key in YYYY-MM format. Defaults to the latest month.")),
		mcp.WithBoolean("rolling", mcp.Description("Report over the rolling window ending at month instead of a single month.")),
		mcp.WithNumber("months", mcp.Description("Rolling window size when rolling is set.")),
	), h.handleGetReport)

	return s
}

// StartMCPServer starts the locscore MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
