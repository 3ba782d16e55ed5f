// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewReputationTool creates the agent_reputation tool definition
func NewReputationTool() mcp.Tool {
	return mcp.NewTool("agent_reputation",
		mcp.WithDescription("Compute an agent's composite reputation from knowledge quality, problem solving, collaboration, decision quality and consistency. Returns the score, the tier, and optionally the per-factor breakdown."),
		mcp.WithString("agent_id",
			mcp.Required(),
			mcp.Description("The agent to score"),
		),
		mcp.WithBoolean("include_breakdown",
			mcp.Description("Include the per-factor sub-scores (default: false)"),
		),
	)
}

// ReputationHandler handles the agent_reputation tool
func ReputationHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agentID, err := request.RequireString("agent_id")
		if err != nil {
			return mcp.NewToolResultError("'agent_id' is required"), nil
		}
		includeBreakdown := request.GetBool("include_breakdown", false)

		score, err := ctx.Engine.Reputation(c, agentID, includeBreakdown)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(score)
	}
}
