// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/hivemind-ai/intelligence/internal/config"
	"github.com/hivemind-ai/intelligence/internal/engine"
	"github.com/hivemind-ai/intelligence/internal/tools"
)

// MCPServer wraps the mcp-go server with our configuration
type MCPServer struct {
	mcpServer *server.MCPServer
	config    *config.Config
	engine    *engine.Engine
}

// NewMCPServer creates a new MCP server instance with all tools registered
func NewMCPServer(cfg *config.Config, eng *engine.Engine) *MCPServer {
	mcpServer := server.NewMCPServer(
		"Hivemind Intelligence",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &MCPServer{
		mcpServer: mcpServer,
		config:    cfg,
		engine:    eng,
	}
	srv.registerTools()
	return srv
}

// registerTools registers every intelligence tool
func (s *MCPServer) registerTools() {
	toolCtx := tools.NewToolContext(s.engine)

	// Knowledge tools: search, explain, navigate
	s.mcpServer.AddTool(tools.NewSearchTool(), tools.SearchHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewInsightsTool(), tools.InsightsHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewRelatedTool(), tools.RelatedHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewPathTool(), tools.PathHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewClustersTool(), tools.ClustersHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewTrendingTool(), tools.TrendingHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewRecommendTool(), tools.RecommendHandler(toolCtx))

	// Agent tools: reputation, impact, influence
	s.mcpServer.AddTool(tools.NewReputationTool(), tools.ReputationHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewImpactTool(), tools.ImpactHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewInfluenceTool(), tools.InfluenceHandler(toolCtx))
}

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server over stdio until the client disconnects
func (s *MCPServer) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
