// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewTrendingTool creates the knowledge_trending tool definition
func NewTrendingTool() mcp.Tool {
	return mcp.NewTool("knowledge_trending",
		mcp.WithDescription("List the knowledge entries with the most adoption inside a recent window, blended with quality so a junk entry cannot trend on volume alone."),
		mcp.WithNumber("window_days",
			mcp.Description("Trailing window in days. Default: 7"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max entries. Default: 10"),
		),
	)
}

// TrendingHandler handles the knowledge_trending tool
func TrendingHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		windowDays := int(request.GetFloat("window_days", 7))
		limit := int(request.GetFloat("limit", 10))

		trending, err := ctx.Engine.Trending(c, windowDays, limit)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(trending)
	}
}
