// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/engine"
)

func setupToolContext(t *testing.T) *ToolContext {
	t.Helper()

	db, err := database.Connect(&database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "tools_test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	now := time.Now()
	rate := 0.9
	agents := []database.HiveAgent{
		{ID: "ava", Name: "Ava", CreatedAt: now.AddDate(-1, 0, 0), LastActiveAt: now},
		{ID: "ben", Name: "Ben", CreatedAt: now.AddDate(0, -6, 0), LastActiveAt: now},
	}
	require.NoError(t, db.Create(&agents).Error)

	entries := []database.HiveKnowledgeEntry{
		{
			ID: "e-ecs", Title: "Deploying services to ECS",
			Description: "Rolling deployments for containers on AWS ECS",
			Content:     "Update the task definition and roll tasks.",
			Category:    "deployment", Tags: "aws,ecs,containers",
			CreatorID: "ava", CreatedAt: now.AddDate(0, -2, 0),
			Upvotes: 10, UsageCount: 30, SuccessRate: &rate, Verified: true,
		},
		{
			ID: "e-fargate", Title: "Fargate deployment guide",
			Description: "Serverless containers on AWS Fargate",
			Content:     "Fargate removes instance management from deployments.",
			Category:    "deployment", Tags: "aws,fargate,containers",
			CreatorID: "ben", CreatedAt: now.AddDate(0, -1, 0),
			Upvotes: 4, UsageCount: 12, SuccessRate: &rate,
		},
		{
			ID: "e-dns", Title: "Debugging DNS resolution",
			Description: "Tracing resolver failures",
			Content:     "Check /etc/resolv.conf and the search path first.",
			Category:    "networking", Tags: "dns,debugging",
			CreatorID: "ben", CreatedAt: now.AddDate(0, -1, 0),
			Upvotes: 2, UsageCount: 5, SuccessRate: &rate,
		},
	}
	require.NoError(t, db.Create(&entries).Error)

	usage := []database.HiveUsageEvent{
		{AgentID: "ben", KnowledgeID: "e-ecs", Outcome: database.UsageOutcomeSuccess, UsedAt: now.Add(-time.Hour)},
	}
	require.NoError(t, db.Create(&usage).Error)

	return NewToolContext(engine.New(database.NewStore(db), engine.DefaultParams()))
}

// callTool invokes a handler the way the MCP server would
func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// resultText extracts the text payload from a tool result
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestSearchTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, SearchHandler(ctx), map[string]interface{}{
		"query": "deploy containers to aws ecs",
	})
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "e-ecs")
	assert.Contains(t, text, "strategy")
	assert.NotContains(t, text, "e-dns")
}

func TestSearchTool_MissingQuery(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, SearchHandler(ctx), map[string]interface{}{})
	assert.True(t, result.IsError)
}

func TestInsightsTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, InsightsHandler(ctx), map[string]interface{}{
		"entry_id": "e-ecs",
	})
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "quality_score")
	assert.Contains(t, text, "recommendations")
}

func TestInsightsTool_NotFound(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, InsightsHandler(ctx), map[string]interface{}{
		"entry_id": "missing",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")
}

func TestRelatedTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, RelatedHandler(ctx), map[string]interface{}{
		"entry_id": "e-ecs",
	})
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "e-fargate")
}

func TestPathTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, PathHandler(ctx), map[string]interface{}{
		"from_id": "e-ecs",
		"to_id":   "e-dns",
	})
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unreachable")
}

func TestClustersTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, ClustersHandler(ctx), map[string]interface{}{
		"threshold": 0.1,
	})
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "e-ecs")
	assert.Contains(t, text, "e-dns")
}

func TestTrendingTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, TrendingHandler(ctx), map[string]interface{}{})
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "e-ecs")
}

func TestRecommendTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, RecommendHandler(ctx), map[string]interface{}{
		"agent_id": "ben",
	})
	require.False(t, result.IsError)
}

func TestReputationTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, ReputationHandler(ctx), map[string]interface{}{
		"agent_id":          "ava",
		"include_breakdown": true,
	})
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "tier")
	assert.Contains(t, text, "knowledge_quality")
}

func TestImpactTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, ImpactHandler(ctx), map[string]interface{}{
		"agent_id": "ava",
	})
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "knowledge_impact")
}

func TestInfluenceTool(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, InfluenceHandler(ctx), map[string]interface{}{
		"agent_id": "ava",
	})
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, `"root": "ava"`)
	assert.Contains(t, text, "ben")
}

func TestInfluenceTool_UnknownAgent(t *testing.T) {
	ctx := setupToolContext(t)

	result := callTool(t, InfluenceHandler(ctx), map[string]interface{}{
		"agent_id": "ghost",
	})
	assert.True(t, result.IsError)
}
