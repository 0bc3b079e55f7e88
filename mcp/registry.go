package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/tool"
)

// Identity reported to the server during the MCP handshake.
const (
	clientName    = "troupe-mcp-client"
	clientVersion = "1.0.0"
)

// RemoteRegistry provides access to tools from an MCP server. The server's
// tools surface as regular *tool.Tool values whose handlers proxy execution
// to the server, so agents use remote tools exactly like local ones: same
// validation, timeout, and retry policy, same result shape.
//
// RemoteRegistry is safe for concurrent use. The tool list is cached
// locally and can be refreshed with [RemoteRegistry.Refresh].
type RemoteRegistry struct {
	client *client.Client
	mu     sync.RWMutex
	tools  map[string]*tool.Tool
}

// NewRemoteRegistry launches an MCP server over stdio and connects to it.
// The command names the server executable; env and args pass through to the
// process. Close shuts the connection down.
//
//	registry, err := mcp.NewRemoteRegistry(ctx, "./order-tools-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer registry.Close()
//
//	a := agent.New("support", agent.WithTools(registry.Tools()...))
func NewRemoteRegistry(ctx context.Context, command string, env []string, args ...string) (*RemoteRegistry, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("creating stdio MCP client: %w", err)
	}
	return attach(ctx, c)
}

// NewRemoteRegistrySSE connects to an MCP server over SSE at the given base
// URL, for servers that run as network services rather than subprocesses.
func NewRemoteRegistrySSE(ctx context.Context, baseURL string) (*RemoteRegistry, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("creating SSE MCP client: %w", err)
	}
	return attach(ctx, c)
}

// NewRemoteRegistryFromClient adopts an existing MCP client. The client is
// started, the session initialized, and the tool list fetched.
func NewRemoteRegistryFromClient(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	return attach(ctx, c)
}

// attach starts the client, runs the MCP handshake, and loads the tool list.
func attach(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    clientName,
				Version: clientVersion,
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("MCP handshake: %w", err)
	}

	r := &RemoteRegistry{
		client: c,
		tools:  make(map[string]*tool.Tool),
	}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("listing remote tools: %w", err)
	}
	return r, nil
}

// Close closes the connection to the MCP server.
func (r *RemoteRegistry) Close() error {
	return r.client.Close()
}

// Refresh fetches the current list of tools from the MCP server and rebuilds
// the local proxies. Call it when the server's tool set may have changed.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools = make(map[string]*tool.Tool, len(result.Tools))
	for _, t := range result.Tools {
		spec := FromMCPTool(t)
		r.tools[spec.Name] = r.proxy(spec)
	}

	return nil
}

// proxy builds the local tool value for one remote declaration. Arguments
// validate locally against the server's declared schema before the call
// crosses the wire. Transport failures surface as errors so the tool
// runtime's retry policy gets another shot; failures the server reports
// are readable outcomes and come back as failed results.
func (r *RemoteRegistry) proxy(spec troupe.Tool) *tool.Tool {
	handler := func(ctx context.Context, args map[string]any) (any, error) {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}

		result, err := r.client.CallTool(ctx, ToMCPCallToolRequest(troupe.ToolCall{
			Name:      spec.Name,
			Arguments: string(data),
		}))
		if err != nil {
			return nil, err
		}

		res := FromMCPCallToolResult("", result)
		if res.IsError {
			return tool.Failure(res.Content), nil
		}
		return &tool.Result{Success: true, Data: res.Content}, nil
	}

	return tool.New(spec.Name, spec.Description, spec.Parameters, handler,
		tool.WithOnError(tool.ModeReturn),
	)
}

// Tools returns the remote tools in name order, ready to hand to an agent.
func (r *RemoteRegistry) Tools() []*tool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*tool.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Tool retrieves a remote tool by name.
func (r *RemoteRegistry) Tool(name string) (*tool.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// Specs returns the wire-level declarations of all remote tools.
func (r *RemoteRegistry) Specs() []troupe.Tool {
	specs := make([]troupe.Tool, 0, r.Len())
	for _, t := range r.Tools() {
		specs = append(specs, t.Spec())
	}
	return specs
}

// Names returns the names of all available tools in sorted order.
func (r *RemoteRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of available tools.
func (r *RemoteRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Has returns true if the registry has a tool with the given name.
func (r *RemoteRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Execute calls a tool on the remote MCP server directly, without the local
// tool runtime's validation or retry policy. Transport failures fold into
// an error result rather than propagating.
func (r *RemoteRegistry) Execute(ctx context.Context, call troupe.ToolCall) (troupe.ToolResult, error) {
	result, err := r.client.CallTool(ctx, ToMCPCallToolRequest(call))
	if err != nil {
		return troupe.ToolResult{
			ToolCallID: call.ID,
			Content:    err.Error(),
			IsError:    true,
		}, nil
	}
	return FromMCPCallToolResult(call.ID, result), nil
}
