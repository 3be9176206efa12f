// Package backendclient implements the Client Pool (spec §4.D): one MCP
// client connection per backend, opened lazily and reconnected on demand.
// stdio backends are reached over the pipes the Supervisor already opened
// (pkg/supervisor); sse and streamable-http backends are reached the same
// way the teacher's CLI reaches a running toolhive-managed server.
package backendclient

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agentmesh/mcpgw/pkg/gwlog"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

// Client is the minimal MCP surface the Proxy and Discovery Cache need from
// a backend connection, regardless of transport.
type Client interface {
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	ListResources(ctx context.Context) ([]mcp.Resource, error)
	ListPrompts(ctx context.Context) ([]mcp.Prompt, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
	ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error)
	GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error)
	Close() error
}

const clientName = "mcpgw"

// stdioClient talks MCP over the Supervisor's pipes via pipeTransport.
type stdioClient struct {
	name string
	t    *pipeTransport
}

func newStdioClient(ctx context.Context, name string, t *pipeTransport) (*stdioClient, error) {
	c := &stdioClient{name: name, t: t}
	if err := c.initialize(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *stdioClient) initialize(ctx context.Context) error {
	params := mcp.InitializeRequest{}
	params.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	params.Params.ClientInfo = mcp.Implementation{Name: clientName}
	var result mcp.InitializeResult
	if err := c.t.call(ctx, "initialize", params.Params, &result); err != nil {
		return fmt.Errorf("backend %q: initialize failed: %w", c.name, err)
	}
	return c.t.writeLine(rpcEnvelope{JSONRPC: "2.0", Method: "notifications/initialized"})
}

func (c *stdioClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	var result mcp.ListToolsResult
	if err := c.t.call(ctx, "tools/list", mcp.ListToolsRequest{}.Params, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

func (c *stdioClient) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	var result mcp.ListResourcesResult
	if err := c.t.call(ctx, "resources/list", mcp.ListResourcesRequest{}.Params, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

func (c *stdioClient) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	var result mcp.ListPromptsResult
	if err := c.t.call(ctx, "prompts/list", mcp.ListPromptsRequest{}.Params, &result); err != nil {
		return nil, err
	}
	return result.Prompts, nil
}

func (c *stdioClient) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolParams{Name: name, Arguments: args}
	var result mcp.CallToolResult
	if err := c.t.call(ctx, "tools/call", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *stdioClient) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	req := mcp.ReadResourceParams{URI: uri}
	var result mcp.ReadResourceResult
	if err := c.t.call(ctx, "resources/read", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *stdioClient) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	req := mcp.GetPromptParams{Name: name, Arguments: args}
	var result mcp.GetPromptResult
	if err := c.t.call(ctx, "prompts/get", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *stdioClient) Close() error {
	return c.t.Close()
}

// httpClient wraps mark3labs/mcp-go's own client.Client, used for sse and
// streamable-http backends the same way the teacher's CLI connects to a
// running server (cmd/thv/app/mcp.go's createMCPClient/initializeMCPClient).
type httpClient struct {
	c *client.Client
}

func newHTTPClient(ctx context.Context, name string, cfg gwtypes.BackendServerConfig) (*httpClient, error) {
	var mcpClient *client.Client
	var err error
	switch cfg.Transport {
	case gwtypes.TransportSSE:
		mcpClient, err = client.NewSSEMCPClient(cfg.URL, client.WithHeaders(cfg.Headers))
	case gwtypes.TransportStreamableHTTP:
		mcpClient, err = client.NewStreamableHttpClient(cfg.URL, client.WithHTTPHeaders(cfg.Headers))
	default:
		return nil, fmt.Errorf("backend %q: unsupported http transport %q", name, cfg.Transport)
	}
	if err != nil {
		return nil, fmt.Errorf("backend %q: failed to create client: %w", name, err)
	}

	if err := mcpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("backend %q: failed to start transport: %w", name, err)
	}
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: clientName}
	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		return nil, fmt.Errorf("backend %q: failed to initialize: %w", name, err)
	}
	return &httpClient{c: mcpClient}, nil
}

func (h *httpClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	result, err := h.c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	return result.Tools, nil
}

func (h *httpClient) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	result, err := h.c.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		return nil, err
	}
	return result.Resources, nil
}

func (h *httpClient) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	result, err := h.c.ListPrompts(ctx, mcp.ListPromptsRequest{})
	if err != nil {
		return nil, err
	}
	return result.Prompts, nil
}

func (h *httpClient) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return h.c.CallTool(ctx, req)
}

func (h *httpClient) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return h.c.ReadResource(ctx, req)
}

func (h *httpClient) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	req := mcp.GetPromptRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return h.c.GetPrompt(ctx, req)
}

func (h *httpClient) Close() error {
	return h.c.Close()
}

func logConnected(name string, cfg gwtypes.BackendServerConfig) {
	gwlog.Infof("backend %q: connected (%s)", name, cfg.Transport)
}
