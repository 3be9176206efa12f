// Package frontend implements the Frontend Server (spec §4.H): it binds an
// mcp-go server to stdio and serves the active Group's tools, resources and
// prompts, proxying calls through the Group Manager, Argument Transformer
// and Proxy/Router.
package frontend

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentmesh/mcpgw/pkg/discovery"
	"github.com/agentmesh/mcpgw/pkg/groupmanager"
	"github.com/agentmesh/mcpgw/pkg/gwerrors"
	"github.com/agentmesh/mcpgw/pkg/gwlog"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
	"github.com/agentmesh/mcpgw/pkg/proxy"
	"github.com/agentmesh/mcpgw/pkg/transform"
)

const (
	serverName = "mcpgw"
)

// Server is the gateway's own MCP endpoint, serving one active group.
type Server struct {
	version string
	cache   *discovery.Cache
	px      *proxy.Proxy

	group   gwtypes.Group
	mcp     *server.MCPServer
	tools   []groupmanager.ResolvedTool
	resMeta []groupmanager.ResolvedResource
	prompts []groupmanager.ResolvedPrompt
}

// New builds a Server for group, backed by cache and px. Call Reload once
// before ServeStdio to populate the initial tool/resource/prompt set.
func New(version string, group gwtypes.Group, cache *discovery.Cache, px *proxy.Proxy) *Server {
	s := &Server{version: version, cache: cache, px: px, group: group}
	s.mcp = server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithLogging(),
	)
	return s
}

// Reload re-resolves the active group against the (presumably just
// refreshed) discovery cache and re-registers every tool/resource/prompt.
func (s *Server) Reload() {
	oldTools, oldResources, oldPrompts := s.tools, s.resMeta, s.prompts
	for _, t := range oldTools {
		s.mcp.DeleteTools(t.ClientName)
	}
	for _, r := range oldResources {
		s.mcp.RemoveResource(r.URI)
	}
	for _, p := range oldPrompts {
		s.mcp.DeletePrompts(p.Name)
	}

	s.tools = groupmanager.ToolsForGroup(s.group, s.cache.AllTools())
	s.resMeta = groupmanager.ResourcesForGroup(s.group, s.cache.AllResources())
	s.prompts = groupmanager.PromptsForGroup(s.group, s.cache.AllPrompts())

	for _, t := range s.tools {
		s.registerTool(t)
	}
	for _, r := range s.resMeta {
		s.registerResource(r)
	}
	for _, p := range s.prompts {
		s.registerPrompt(p)
	}
	gwlog.Infof("group %q: serving %d tools, %d resources, %d prompts", s.group.Name, len(s.tools), len(s.resMeta), len(s.prompts))
}

// ServeStdio binds the gateway's MCP server to stdio and blocks until ctx is
// cancelled or the transport closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.ServeStdio(s.mcp, server.WithStdioContextFunc(func(context.Context) context.Context { return ctx }))
}

func (s *Server) registerTool(t groupmanager.ResolvedTool) {
	tool := mcp.Tool{
		Name:        t.ClientName,
		Description: t.Description,
		InputSchema: toInputSchema(t.InputSchema),
	}
	resolved := t
	s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.handleToolCall(ctx, resolved, req)
	})
}

func (s *Server) handleToolCall(ctx context.Context, t groupmanager.ResolvedTool, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	backendArgs := args
	if t.ArgumentMapping != nil {
		transformed, err := transform.Transform(args, *t.ArgumentMapping)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("argument mapping failed: %v", err)), nil
		}
		backendArgs = transformed
	}

	result, err := s.px.CallTool(ctx, t.ServerName, t.OriginalName, backendArgs, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return result, nil
}

func (s *Server) registerResource(r groupmanager.ResolvedResource) {
	resolved := r
	res := mcp.Resource{URI: r.URI, Name: r.Name, Description: r.Description, MIMEType: r.MimeType}
	s.mcp.AddResource(res, func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		refs := make([]groupmanager.ResolvedResource, 0, len(s.group.Resources))
		for _, ref := range s.group.Resources {
			refs = append(refs, groupmanager.ResolvedResource{URI: ref.URI, ServerName: ref.ServerName})
		}
		result, err := ReadResourceByRefs(ctx, s.px, refs, resolved.URI)
		if err != nil {
			return nil, err
		}
		return result.Contents, nil
	})
}

func (s *Server) registerPrompt(p groupmanager.ResolvedPrompt) {
	resolved := p
	prompt := mcp.Prompt{Name: p.Name, Description: p.Description}
	s.mcp.AddPrompt(prompt, func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var lastErr error
		for _, ref := range s.group.Prompts {
			if ref.Name != resolved.Name {
				continue
			}
			result, err := s.px.GetPrompt(ctx, ref.ServerName, ref.Name, req.Params.Arguments, 0)
			if err == nil {
				return result, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			return nil, gwerrors.CapabilityNotFound("prompt", resolved.Name, s.group.Name)
		}
		return nil, gwerrors.FallbacksExhausted("prompt", resolved.Name, lastErr)
	})
}

func toInputSchema(m map[string]any) mcp.ToolInputSchema {
	schema := mcp.ToolInputSchema{Type: "object", Properties: map[string]any{}}
	if m == nil {
		return schema
	}
	if props, ok := m["properties"].(map[string]any); ok {
		schema.Properties = props
	}
	if required, ok := m["required"].([]string); ok {
		schema.Required = required
	} else if raw, ok := m["required"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	return schema
}

// ReadResourceByRefs implements the priority-fallback rule for resources/read
// (spec §4.G/§4.H): try each ref matching uri in order, first success wins.
func ReadResourceByRefs(ctx context.Context, px *proxy.Proxy, refs []groupmanager.ResolvedResource, uri string) (*mcp.ReadResourceResult, error) {
	var lastErr error
	for _, r := range refs {
		if r.URI != uri {
			continue
		}
		result, err := px.ReadResource(ctx, r.ServerName, uri, 0)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return nil, gwerrors.CapabilityNotFound("resource", uri, "")
	}
	return nil, gwerrors.FallbacksExhausted("resource", uri, lastErr)
}
