package proxy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmesh/mcpgw/pkg/backendclient"
	"github.com/agentmesh/mcpgw/pkg/gwerrors"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

func newEmptyProxy() *Proxy {
	return New(backendclient.New(&gwtypes.BackendServersConfig{}))
}

func TestCallTool_UnknownBackend(t *testing.T) {
	p := newEmptyProxy()
	_, err := p.CallTool(context.Background(), "nope", "t", nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, gwerrors.ErrBackendUnavailable)
}

func TestCallToolWithRetry_RetriesAndGivesUp(t *testing.T) {
	p := newEmptyProxy()
	start := time.Now()
	_, err := p.CallToolWithRetry(context.Background(), "nope", "t", nil, RetryOptions{MaxRetries: 2, RetryDelayMs: 5})
	elapsed := time.Since(start)
	require.Error(t, err)
	// 2 retries with linear backoff 5ms*1 + 5ms*2 = 15ms minimum.
	assert.GreaterOrEqual(t, elapsed, 15*time.Millisecond)
}

func TestCallToolWithRetry_DefaultsApplied(t *testing.T) {
	p := newEmptyProxy()
	_, err := p.CallToolWithRetry(context.Background(), "nope", "t", nil, RetryOptions{})
	require.Error(t, err)
}

func TestCallToolsBatch_PreservesOrderAndNeverFailsWhole(t *testing.T) {
	p := newEmptyProxy()
	calls := []BatchToolCall{
		{ServerName: "a", ToolName: "t1"},
		{ServerName: "b", ToolName: "t2"},
	}
	results := p.CallToolsBatch(context.Background(), calls, 0)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Success)
		assert.Error(t, r.Err)
	}
}
