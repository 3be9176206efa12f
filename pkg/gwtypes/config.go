// Package gwtypes holds the data model shared across the gateway: backend
// server configuration, groups, capability overrides and argument mappings.
// Types here are pure data — no I/O, no behaviour beyond small accessors —
// so every other package can depend on them without creating import cycles.
package gwtypes

import "fmt"

// BackendTransport identifies which tagged-union shape a BackendServerConfig
// carries. Unknown values must be rejected at load time, never silently
// defaulted.
type BackendTransport string

const (
	TransportStdio          BackendTransport = "stdio"
	TransportStreamableHTTP BackendTransport = "streamable-http"
	TransportSSE            BackendTransport = "sse"
)

// BackendServerConfig is the tagged union describing one backend MCP server.
// Exactly one of the transport-specific fields is meaningful, selected by
// Transport.
type BackendServerConfig struct {
	Transport BackendTransport `json:"transport"`

	// stdio
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Cwd     string            `json:"cwd,omitempty"`

	// streamable-http / sse
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Validate checks structural invariants of a single backend config entry.
func (b BackendServerConfig) Validate(name string) error {
	switch b.Transport {
	case TransportStdio:
		if b.Command == "" {
			return fmt.Errorf("backend %q: stdio transport requires command", name)
		}
	case TransportStreamableHTTP, TransportSSE:
		if b.URL == "" {
			return fmt.Errorf("backend %q: %s transport requires url", name, b.Transport)
		}
	case "":
		return fmt.Errorf("backend %q: missing transport", name)
	default:
		return fmt.Errorf("backend %q: unknown transport %q", name, b.Transport)
	}
	return nil
}

// IsProcessBacked reports whether this backend is supervised as a child
// process (stdio) as opposed to a bare connection (streamable-http, sse).
func (b BackendServerConfig) IsProcessBacked() bool {
	return b.Transport == TransportStdio
}

// BackendServersConfig is the top-level backend-servers.json document.
type BackendServersConfig struct {
	MCPServers map[string]BackendServerConfig `json:"mcpServers"`
}

// Validate checks every entry and returns the first error encountered.
func (c *BackendServersConfig) Validate() error {
	for name, srv := range c.MCPServers {
		if name == "" {
			return fmt.Errorf("backend-servers: empty server name")
		}
		if err := srv.Validate(name); err != nil {
			return err
		}
	}
	return nil
}
