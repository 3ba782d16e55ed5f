// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewInsightsTool creates the knowledge_insights tool definition
func NewInsightsTool() mcp.Tool {
	return mcp.NewTool("knowledge_insights",
		mcp.WithDescription("Explain the quality and trust of one knowledge entry: the composite scores, the tier, and concrete recommendations for improving weak signals."),
		mcp.WithString("entry_id",
			mcp.Required(),
			mcp.Description("The knowledge entry to analyze"),
		),
	)
}

// InsightsHandler handles the knowledge_insights tool
func InsightsHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entryID, err := request.RequireString("entry_id")
		if err != nil {
			return mcp.NewToolResultError("'entry_id' is required"), nil
		}

		insights, err := ctx.Engine.EntryInsights(c, entryID)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(insights)
	}
}
