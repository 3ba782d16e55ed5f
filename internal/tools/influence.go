// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewInfluenceTool creates the agent_influence tool definition
func NewInfluenceTool() mcp.Tool {
	return mcp.NewTool("agent_influence",
		mcp.WithDescription("Map an agent's influence network: who adopted their knowledge directly, and who was reached transitively through those adopters. Edge weights count adoption events."),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("The root agent of the network"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Max influence hops (1-5). Default: 5"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max agents in the network. Default: 50"),
		),
	)
}

// InfluenceHandler handles the agent_influence tool
func InfluenceHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agentID, err := request.RequireString("agent_id")
		if err != nil {
			return mcp.NewToolResultError("'agent_id' is required"), nil
		}
		maxDepth := int(request.GetFloat("max_depth", 0))
		limit := int(request.GetFloat("limit", 50))

		network, err := ctx.Engine.Influence(c, agentID, maxDepth, limit)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(network)
	}
}
