// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewClustersTool creates the knowledge_clusters tool definition
func NewClustersTool() mcp.Tool {
	return mcp.NewTool("knowledge_clusters",
		mcp.WithDescription("Partition the knowledge base into clusters of related entries. Every entry lands in exactly one cluster; isolated entries form singletons. Useful for mapping what topic areas the hive actually covers."),
		mcp.WithNumber("threshold",
			mcp.Description("Minimum edge weight (0-1) for two entries to cluster together. Default: 0.3"),
		),
	)
}

// ClustersHandler handles the knowledge_clusters tool
func ClustersHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		threshold := request.GetFloat("threshold", 0.3)

		clusters, err := ctx.Engine.Clusters(c, threshold)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(clusters)
	}
}
