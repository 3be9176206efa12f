package backendclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentmesh/mcpgw/pkg/gwerrors"
	"github.com/agentmesh/mcpgw/pkg/gwlog"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
	"github.com/agentmesh/mcpgw/pkg/supervisor"
)

// ConnectResult is one backend's outcome from ConnectAll.
type ConnectResult struct {
	Name string
	Err  error
}

// Pool holds one Client per backend, connecting lazily and reconnecting on
// demand (spec §4.D). It observes Supervisor exits to invalidate the client
// for a backend whose process has gone away.
type Pool struct {
	mu         sync.Mutex
	cfg        map[string]gwtypes.BackendServerConfig
	clients    map[string]Client
	sessionIDs map[string]string
}

// New creates a Pool for the given backend configuration.
func New(cfg *gwtypes.BackendServersConfig) *Pool {
	p := &Pool{
		cfg:        make(map[string]gwtypes.BackendServerConfig),
		clients:    make(map[string]Client),
		sessionIDs: make(map[string]string),
	}
	for name, b := range cfg.MCPServers {
		p.cfg[name] = b
	}
	return p
}

// OnBackendExit is registered as the Supervisor's ExitListener so a
// process's death immediately invalidates its stale MCP client.
func (p *Pool) OnBackendExit(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.clients[name]; ok {
		_ = c.Close()
		delete(p.clients, name)
		delete(p.sessionIDs, name)
		gwlog.Warnf("backend %q: client invalidated after process exit", name)
	}
}

// EnsureConnected returns a ready client for name, connecting lazily if
// necessary. Retries are the caller's concern (spec §4.D).
func (p *Pool) EnsureConnected(ctx context.Context, name string) (Client, error) {
	p.mu.Lock()
	if c, ok := p.clients[name]; ok {
		p.mu.Unlock()
		return c, nil
	}
	cfg, ok := p.cfg[name]
	p.mu.Unlock()
	if !ok {
		return nil, gwerrors.BackendNotConfigured(name)
	}

	c, err := p.connect(ctx, name, cfg)
	if err != nil {
		return nil, gwerrors.BackendUnavailable(name, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.clients[name]; ok {
		_ = c.Close()
		return existing, nil
	}
	p.clients[name] = c
	p.sessionIDs[name] = uuid.New().String()
	return c, nil
}

// SessionID returns the correlation ID assigned to name's current connection,
// for tying backend logs/traces to a specific connect cycle. Empty if name
// isn't currently connected.
func (p *Pool) SessionID(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionIDs[name]
}

func (p *Pool) connect(ctx context.Context, name string, cfg gwtypes.BackendServerConfig) (Client, error) {
	switch cfg.Transport {
	case gwtypes.TransportStdio:
		in, out, ok := supervisor.StdioPipes(name)
		if !ok {
			return nil, fmt.Errorf("backend %q: process not running", name)
		}
		t := newPipeTransport(name, in, out)
		c, err := newStdioClient(ctx, name, t)
		if err != nil {
			_ = t.Close()
			return nil, err
		}
		logConnected(name, cfg)
		return c, nil
	case gwtypes.TransportSSE, gwtypes.TransportStreamableHTTP:
		c, err := newHTTPClient(ctx, name, cfg)
		if err != nil {
			return nil, err
		}
		logConnected(name, cfg)
		return c, nil
	default:
		return nil, fmt.Errorf("backend %q: unknown transport %q", name, cfg.Transport)
	}
}

// ConnectAll attempts every backend in parallel via an errgroup. It never
// fails as a whole: each goroutine reports its own outcome into a
// mutex-guarded slot rather than returning an error to the group, so one
// backend's connect failure never cancels or fails the others.
func (p *Pool) ConnectAll(ctx context.Context) (successful, failed []string) {
	p.mu.Lock()
	names := make([]string, 0, len(p.cfg))
	for name := range p.cfg {
		names = append(names, name)
	}
	p.mu.Unlock()

	var mu sync.Mutex
	var g errgroup.Group
	for _, name := range names {
		name := name
		g.Go(func() error {
			_, err := p.EnsureConnected(ctx, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				gwlog.Errorf("backend %q: connect failed: %v", name, err)
				failed = append(failed, name)
			} else {
				successful = append(successful, name)
			}
			return nil
		})
	}
	_ = g.Wait()
	return successful, failed
}

// DisconnectAll closes every connected client.
func (p *Pool) DisconnectAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, c := range p.clients {
		if err := c.Close(); err != nil {
			gwlog.Warnf("backend %q: close error: %v", name, err)
		}
	}
	p.clients = make(map[string]Client)
	p.sessionIDs = make(map[string]string)
}

// BackendNames returns every backend name known to the pool.
func (p *Pool) BackendNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.cfg))
	for name := range p.cfg {
		out = append(out, name)
	}
	return out
}
