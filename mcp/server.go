package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/tool"
)

// ServerOption configures NewServer.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName overrides the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) { c.name = name }
}

// WithVersion overrides the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) { c.version = version }
}

// NewServer creates an MCP server that exposes the tools of a tool.Registry.
// Each registered tool is declared to MCP clients; calls route through
// Registry.Execute, so the full validation, timeout, and retry policy of
// each tool applies to remote callers too.
//
// Example:
//
//	registry := tool.NewRegistry().Add(tool.Builtins()...)
//
//	mcpServer := mcp.NewServer(registry,
//	    mcp.WithName("my-tools"),
//	    mcp.WithVersion("1.0.0"),
//	)
//
//	server.ServeStdio(mcpServer)
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "troupe-mcp-server",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, spec := range registry.Specs() {
		s.AddTool(ToMCPTool(spec), createMCPHandler(registry, spec.Name))
	}

	return s
}

// remoteArguments renders the MCP request arguments as the JSON string a
// registry call expects. Absent arguments become an empty object.
func remoteArguments(req mcp.CallToolRequest) (string, error) {
	if req.Params.Arguments == nil {
		return "{}", nil
	}
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// createMCPHandler wraps one registry tool as an MCP tool handler. Failures
// fold into MCP error results rather than protocol errors so a failing tool
// never takes down the session.
func createMCPHandler(registry *tool.Registry, toolName string) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := remoteArguments(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading arguments: %v", err)), nil
		}

		// MCP calls carry no ID the way chat provider tool calls do.
		result, err := registry.Execute(ctx, troupe.ToolCall{Name: toolName, Arguments: args})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return ToMCPCallToolResult(result), nil
	}
}

// ServeStdio starts an MCP server that communicates over stdin/stdout, the
// standard transport for MCP servers invoked as subprocesses.
//
// Example:
//
//	registry := tool.NewRegistry().Add(tool.Builtins()...)
//
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
