// Package discovery implements the Discovery Cache (spec §4.E): per-backend
// tools/resources/prompts listings, cached by server name and refreshed on
// reload. A failure discovering one backend never blocks the others.
package discovery

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/agentmesh/mcpgw/pkg/backendclient"
	"github.com/agentmesh/mcpgw/pkg/gwlog"
)

// Cache holds the most recent successful discovery result per backend.
type Cache struct {
	pool *backendclient.Pool

	mu        sync.RWMutex
	tools     map[string][]mcp.Tool
	resources map[string][]mcp.Resource
	prompts   map[string][]mcp.Prompt
}

// New creates a Cache backed by pool.
func New(pool *backendclient.Pool) *Cache {
	return &Cache{
		pool:      pool,
		tools:     make(map[string][]mcp.Tool),
		resources: make(map[string][]mcp.Resource),
		prompts:   make(map[string][]mcp.Prompt),
	}
}

// RefreshAll reruns discovery against every connected backend, replacing the
// cache wholesale. Called at startup and on reload.
func (c *Cache) RefreshAll(ctx context.Context) {
	names := c.pool.BackendNames()

	tools := make(map[string][]mcp.Tool, len(names))
	resources := make(map[string][]mcp.Resource, len(names))
	prompts := make(map[string][]mcp.Prompt, len(names))

	var mu sync.Mutex
	var g errgroup.Group
	for _, name := range names {
		name := name
		g.Go(func() error {
			client, err := c.pool.EnsureConnected(ctx, name)
			if err != nil {
				gwlog.Warnf("discovery: backend %q unavailable: %v", name, err)
				return nil
			}

			t, err := client.ListTools(ctx)
			if err != nil {
				gwlog.Warnf("discovery: backend %q tools/list failed: %v", name, err)
			}
			r, err := client.ListResources(ctx)
			if err != nil {
				gwlog.Warnf("discovery: backend %q resources/list failed: %v", name, err)
			}
			p, err := client.ListPrompts(ctx)
			if err != nil {
				gwlog.Warnf("discovery: backend %q prompts/list failed: %v", name, err)
			}

			mu.Lock()
			defer mu.Unlock()
			tools[name] = t
			resources[name] = r
			prompts[name] = p
			return nil
		})
	}
	_ = g.Wait()

	c.mu.Lock()
	c.tools = tools
	c.resources = resources
	c.prompts = prompts
	c.mu.Unlock()
}

// AllTools returns the cached tools keyed by server name.
func (c *Cache) AllTools() map[string][]mcp.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneTools(c.tools)
}

// AllResources returns the cached resources keyed by server name.
func (c *Cache) AllResources() map[string][]mcp.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneResources(c.resources)
}

// AllPrompts returns the cached prompts keyed by server name.
func (c *Cache) AllPrompts() map[string][]mcp.Prompt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clonePrompts(c.prompts)
}

func cloneTools(m map[string][]mcp.Tool) map[string][]mcp.Tool {
	out := make(map[string][]mcp.Tool, len(m))
	for k, v := range m {
		out[k] = append([]mcp.Tool(nil), v...)
	}
	return out
}

func cloneResources(m map[string][]mcp.Resource) map[string][]mcp.Resource {
	out := make(map[string][]mcp.Resource, len(m))
	for k, v := range m {
		out[k] = append([]mcp.Resource(nil), v...)
	}
	return out
}

func clonePrompts(m map[string][]mcp.Prompt) map[string][]mcp.Prompt {
	out := make(map[string][]mcp.Prompt, len(m))
	for k, v := range m {
		out[k] = append([]mcp.Prompt(nil), v...)
	}
	return out
}
