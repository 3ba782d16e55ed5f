// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewRelatedTool creates the knowledge_related tool definition
func NewRelatedTool() mcp.Tool {
	return mcp.NewTool("knowledge_related",
		mcp.WithDescription("Find entries related to a given entry through the knowledge graph: shared category, overlapping tags, common keywords or similar titles. Results are ordered by relationship strength."),
		mcp.WithString("entry_id",
			mcp.Required(),
			mcp.Description("The entry to find neighbors of"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max related entries. Default: 10"),
		),
	)
}

// RelatedHandler handles the knowledge_related tool
func RelatedHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entryID, err := request.RequireString("entry_id")
		if err != nil {
			return mcp.NewToolResultError("'entry_id' is required"), nil
		}
		limit := int(request.GetFloat("limit", 10))

		related, err := ctx.Engine.Related(c, entryID, limit)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(related)
	}
}
