// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tools exposes the intelligence engine over MCP. Every tool is a
// read-only analytics query against the current snapshot; the writing side
// of the platform lives elsewhere.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hivemind-ai/intelligence/internal/engine"
)

// ToolContext holds shared dependencies for all tools
type ToolContext struct {
	Engine *engine.Engine
}

// NewToolContext creates a new tool context
func NewToolContext(eng *engine.Engine) *ToolContext {
	return &ToolContext{Engine: eng}
}

// jsonResult marshals a response payload into a tool result
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts an engine error into a tool error, keeping the
// not-found case readable for the calling agent
func errorResult(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, engine.ErrNotFound) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
}
