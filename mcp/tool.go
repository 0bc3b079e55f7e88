// Package mcp bridges troupe tools and the Model Context Protocol.
//
// The bridge runs in both directions. NewServer and ServeStdio expose a
// [tool.Registry] to MCP clients such as IDEs and desktop assistants;
// [RemoteRegistry] attaches to someone else's MCP server and surfaces its
// tools as ordinary tool values an agent can carry:
//
//	remote, err := mcp.NewRemoteRegistry(ctx, "./order-tools-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	support := agent.New("support",
//	    agent.WithProvider(claude),
//	    agent.WithTools(remote.Tools()...))
//
// Serving is one call:
//
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
//
// The To*/From* functions translate between the two tool vocabularies.
// Both sides speak JSON Schema, so declarations cross the boundary without
// loss.
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troupe-dev/troupe"
)

// ToMCPTool converts a tool declaration for the MCP wire. The parameters
// schema rides along untouched as the raw input schema.
func ToMCPTool(t troupe.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// ToMCPTools converts a batch of declarations.
func ToMCPTools(tools []troupe.Tool) []mcp.Tool {
	out := make([]mcp.Tool, len(tools))
	for i, t := range tools {
		out[i] = ToMCPTool(t)
	}
	return out
}

// FromMCPTool converts a remote MCP tool into a local declaration. Servers
// ship their schema either raw or structured; raw wins when both are set.
func FromMCPTool(t mcp.Tool) troupe.Tool {
	schema := t.RawInputSchema
	if len(schema) == 0 {
		if data, err := json.Marshal(t.InputSchema); err == nil {
			schema = data
		}
	}

	return troupe.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// FromMCPTools converts a server's tool list.
func FromMCPTools(tools []mcp.Tool) []troupe.Tool {
	out := make([]troupe.Tool, len(tools))
	for i, t := range tools {
		out[i] = FromMCPTool(t)
	}
	return out
}

// ToMCPCallToolRequest converts a model's tool call for the MCP wire.
// Arguments are normally a JSON object; anything unparseable passes through
// as a plain string for the server to reject.
func ToMCPCallToolRequest(call troupe.ToolCall) mcp.CallToolRequest {
	var args any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// FromMCPCallToolResult flattens an MCP call result into a tool result.
// Text content concatenates in order; non-text content and any structured
// payload fold in as JSON. A nil result counts as an error.
func FromMCPCallToolResult(callID string, result *mcp.CallToolResult) troupe.ToolResult {
	if result == nil {
		return troupe.ToolResult{ToolCallID: callID, IsError: true}
	}

	var parts []string
	for _, c := range result.Content {
		parts = appendContentText(parts, c)
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	return troupe.ToolResult{
		ToolCallID: callID,
		Content:    strings.Join(parts, "\n"),
		IsError:    result.IsError,
	}
}

// appendContentText appends the textual form of one content block. Blocks
// the protocol types as text come through as-is, everything else as JSON.
func appendContentText(parts []string, c mcp.Content) []string {
	switch content := c.(type) {
	case mcp.TextContent:
		return append(parts, content.Text)
	case *mcp.TextContent:
		return append(parts, content.Text)
	}
	if data, err := json.Marshal(c); err == nil {
		parts = append(parts, string(data))
	}
	return parts
}

// ToMCPCallToolResult converts a tool result for the MCP wire. Failures map
// onto the protocol's isError flag rather than a Go error.
func ToMCPCallToolResult(result troupe.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
