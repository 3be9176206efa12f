package backendclient

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmesh/mcpgw/pkg/gwerrors"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

func TestEnsureConnected_UnknownBackend(t *testing.T) {
	p := New(&gwtypes.BackendServersConfig{MCPServers: map[string]gwtypes.BackendServerConfig{}})
	_, err := p.EnsureConnected(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, gwerrors.ErrBackendNotConfigured)
}

func TestEnsureConnected_StdioWithoutRunningProcess(t *testing.T) {
	p := New(&gwtypes.BackendServersConfig{MCPServers: map[string]gwtypes.BackendServerConfig{
		"s1": {Transport: gwtypes.TransportStdio, Command: "echo"},
	}})
	_, err := p.EnsureConnected(context.Background(), "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, gwerrors.ErrBackendUnavailable)
}

func TestConnectAll_AllFail_DoesNotError(t *testing.T) {
	p := New(&gwtypes.BackendServersConfig{MCPServers: map[string]gwtypes.BackendServerConfig{
		"s1": {Transport: gwtypes.TransportStdio, Command: "echo"},
		"s2": {Transport: gwtypes.TransportStdio, Command: "echo"},
	}})
	successful, failed := p.ConnectAll(context.Background())
	assert.Empty(t, successful)
	assert.ElementsMatch(t, []string{"s1", "s2"}, failed)
}

func TestOnBackendExit_InvalidatesCachedClient(t *testing.T) {
	p := New(&gwtypes.BackendServersConfig{})
	p.clients["s1"] = &fakeClient{}
	p.sessionIDs["s1"] = "some-session"
	p.OnBackendExit("s1")
	_, ok := p.clients["s1"]
	assert.False(t, ok)
	assert.Empty(t, p.SessionID("s1"))
}

func TestSessionID_ReportedAndClearedOnDisconnectAll(t *testing.T) {
	p := New(&gwtypes.BackendServersConfig{})
	p.clients["s1"] = &fakeClient{}
	p.sessionIDs["s1"] = "session-abc"
	assert.Equal(t, "session-abc", p.SessionID("s1"))

	p.DisconnectAll()
	assert.Empty(t, p.SessionID("s1"))
}

type fakeClient struct{ closed bool }

func (f *fakeClient) ListTools(context.Context) ([]mcp.Tool, error)         { return nil, nil }
func (f *fakeClient) ListResources(context.Context) ([]mcp.Resource, error) { return nil, nil }
func (f *fakeClient) ListPrompts(context.Context) ([]mcp.Prompt, error)     { return nil, nil }
func (f *fakeClient) CallTool(context.Context, string, map[string]any) (*mcp.CallToolResult, error) {
	return nil, nil
}
func (f *fakeClient) ReadResource(context.Context, string) (*mcp.ReadResourceResult, error) {
	return nil, nil
}
func (f *fakeClient) GetPrompt(context.Context, string, map[string]string) (*mcp.GetPromptResult, error) {
	return nil, nil
}
func (f *fakeClient) Close() error { f.closed = true; return nil }
