// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewSearchTool creates the knowledge_search tool definition
func NewSearchTool() mcp.Tool {
	return mcp.NewTool("knowledge_search",
		mcp.WithDescription("Search the shared knowledge base. Results are ranked by a blend of text relevance and entry quality, so proven entries surface above unproven ones. The response reports which strategy ran: 'vector' (TF-IDF cosine) or 'keyword' (fallback for tiny corpora or vocabulary misses)."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What you want to know. Keywords or a short question. Examples: 'deploy containers to ECS', 'postgres connection pooling'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results. Default: 10"),
		),
		mcp.WithNumber("min_quality",
			mcp.Description("Drop results below this quality score (0-1). Default: 0"),
		),
	)
}

// SearchHandler handles the knowledge_search tool
func SearchHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("'query' is required"), nil
		}
		limit := int(request.GetFloat("limit", 10))
		minQuality := request.GetFloat("min_quality", 0)

		resp, err := ctx.Engine.Search(c, query, limit, minQuality)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(resp)
	}
}
