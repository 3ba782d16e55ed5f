// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewImpactTool creates the agent_impact tool definition
func NewImpactTool() mcp.Tool {
	return mcp.NewTool("agent_impact",
		mcp.WithDescription("Measure an agent's impact on the rest of the hive: how widely their knowledge was adopted by others and how it worked out. Self-use never counts."),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("The agent to measure"),
		),
		mcp.WithNumber("window_days",
			mcp.Description("Only count adoption inside this trailing window. Default: all time"),
		),
	)
}

// ImpactHandler handles the agent_impact tool
func ImpactHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agentID, err := request.RequireString("agent_id")
		if err != nil {
			return mcp.NewToolResultError("'agent_id' is required"), nil
		}
		windowDays := int(request.GetFloat("window_days", 0))

		score, err := ctx.Engine.Impact(c, agentID, windowDays)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(score)
	}
}
