// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewPathTool creates the knowledge_path tool definition
func NewPathTool() mcp.Tool {
	return mcp.NewTool("knowledge_path",
		mcp.WithDescription("Find the strongest connection chain between two knowledge entries through the graph. An unreachable pair is reported explicitly, not as an error."),
		mcp.WithString("from_id",
			mcp.Required(),
			mcp.Description("Starting entry"),
		),
		mcp.WithString("to_id",
			mcp.Required(),
			mcp.Description("Target entry"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Max hops to explore (1-5). Default: 5"),
		),
	)
}

// PathHandler handles the knowledge_path tool
func PathHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fromID, err := request.RequireString("from_id")
		if err != nil {
			return mcp.NewToolResultError("'from_id' is required"), nil
		}
		toID, err := request.RequireString("to_id")
		if err != nil {
			return mcp.NewToolResultError("'to_id' is required"), nil
		}
		maxDepth := int(request.GetFloat("max_depth", 0))

		path, err := ctx.Engine.FindPath(c, fromID, toID, maxDepth)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(path)
	}
}
