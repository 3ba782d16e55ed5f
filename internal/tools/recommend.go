// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewRecommendTool creates the knowledge_recommend tool definition
func NewRecommendTool() mcp.Tool {
	return mcp.NewTool("knowledge_recommend",
		mcp.WithDescription("Suggest knowledge entries for an agent based on what they already used: graph neighbors of their usage history, excluding their own entries. Agents with no history get the highest-quality entries instead."),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("The agent to recommend for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max recommendations. Default: 10"),
		),
	)
}

// RecommendHandler handles the knowledge_recommend tool
func RecommendHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agentID, err := request.RequireString("agent_id")
		if err != nil {
			return mcp.NewToolResultError("'agent_id' is required"), nil
		}
		limit := int(request.GetFloat("limit", 10))

		recs, err := ctx.Engine.Recommend(c, agentID, limit)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(recs)
	}
}
