// Package proxy implements the Proxy/Router (spec §4.G): the three
// primitive backend operations, retry wrapping, and batch variants, all on
// top of the Client Pool.
package proxy

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/agentmesh/mcpgw/pkg/backendclient"
	"github.com/agentmesh/mcpgw/pkg/gwerrors"
	"github.com/agentmesh/mcpgw/pkg/gwlog"
	"github.com/agentmesh/mcpgw/pkg/metrics"
)

const defaultTimeout = 30 * time.Second

// Proxy dispatches the three primitive MCP operations against the Client
// Pool, applying a per-call timeout and uniform error wrapping.
type Proxy struct {
	pool *backendclient.Pool
}

// New creates a Proxy over pool.
func New(pool *backendclient.Pool) *Proxy {
	return &Proxy{pool: pool}
}

// CallTool invokes a tool on serverName. timeout<=0 uses the 30s default.
func (p *Proxy) CallTool(ctx context.Context, serverName, toolName string, args map[string]any, timeout time.Duration) (*mcp.CallToolResult, error) {
	op := "tools/call " + toolName
	return callWithTimeout(ctx, p.pool, serverName, op, timeout, func(ctx context.Context, c backendclient.Client) (*mcp.CallToolResult, error) {
		return c.CallTool(ctx, toolName, args)
	})
}

// ReadResource reads uri from serverName.
func (p *Proxy) ReadResource(ctx context.Context, serverName, uri string, timeout time.Duration) (*mcp.ReadResourceResult, error) {
	op := "resources/read " + uri
	return callWithTimeout(ctx, p.pool, serverName, op, timeout, func(ctx context.Context, c backendclient.Client) (*mcp.ReadResourceResult, error) {
		return c.ReadResource(ctx, uri)
	})
}

// GetPrompt fetches prompt name from serverName.
func (p *Proxy) GetPrompt(ctx context.Context, serverName, name string, args map[string]string, timeout time.Duration) (*mcp.GetPromptResult, error) {
	op := "prompts/get " + name
	return callWithTimeout(ctx, p.pool, serverName, op, timeout, func(ctx context.Context, c backendclient.Client) (*mcp.GetPromptResult, error) {
		return c.GetPrompt(ctx, name, args)
	})
}

func callWithTimeout[T any](ctx context.Context, pool *backendclient.Pool, serverName, op string, timeout time.Duration, fn func(context.Context, backendclient.Client) (T, error)) (T, error) {
	var zero T
	client, err := pool.EnsureConnected(ctx, serverName)
	if err != nil {
		return zero, gwerrors.BackendUnavailable(serverName, err)
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := fn(callCtx, client)
	elapsed := time.Since(start)
	if err != nil {
		if callCtx.Err() != nil {
			metrics.ObserveCall(serverName, op, "timeout", elapsed)
			return zero, gwerrors.BackendTimeout(serverName, op, timeout.Milliseconds())
		}
		metrics.ObserveCall(serverName, op, "error", elapsed)
		return zero, fmt.Errorf("%s.%s failed: %w: %v", serverName, op, gwerrors.ErrBackendError, err)
	}
	metrics.ObserveCall(serverName, op, "success", elapsed)
	gwlog.Debugf("backend %q: %s succeeded in %s", serverName, op, elapsed)
	return result, nil
}

// RetryOptions configures …WithRetry wrappers (spec §4.G).
type RetryOptions struct {
	MaxRetries   int
	RetryDelayMs int
	Timeout      time.Duration
}

// DefaultRetryOptions matches the spec's documented defaults.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{MaxRetries: 2, RetryDelayMs: 1000}
}

// CallToolWithRetry retries CallTool with linear backoff: attempt N (1-based
// after the first failure) waits retryDelayMs*N before retrying.
func (p *Proxy) CallToolWithRetry(ctx context.Context, serverName, toolName string, args map[string]any, opts RetryOptions) (*mcp.CallToolResult, error) {
	return withRetry(ctx, opts, func(ctx context.Context) (*mcp.CallToolResult, error) {
		return p.CallTool(ctx, serverName, toolName, args, opts.Timeout)
	})
}

// ReadResourceWithRetry retries ReadResource with the same linear backoff.
func (p *Proxy) ReadResourceWithRetry(ctx context.Context, serverName, uri string, opts RetryOptions) (*mcp.ReadResourceResult, error) {
	return withRetry(ctx, opts, func(ctx context.Context) (*mcp.ReadResourceResult, error) {
		return p.ReadResource(ctx, serverName, uri, opts.Timeout)
	})
}

// GetPromptWithRetry retries GetPrompt with the same linear backoff.
func (p *Proxy) GetPromptWithRetry(ctx context.Context, serverName, name string, args map[string]string, opts RetryOptions) (*mcp.GetPromptResult, error) {
	return withRetry(ctx, opts, func(ctx context.Context) (*mcp.GetPromptResult, error) {
		return p.GetPrompt(ctx, serverName, name, args, opts.Timeout)
	})
}

func withRetry[T any](ctx context.Context, opts RetryOptions, fn func(context.Context) (T, error)) (T, error) {
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultRetryOptions().MaxRetries
	}
	delayMs := opts.RetryDelayMs
	if delayMs == 0 {
		delayMs = DefaultRetryOptions().RetryDelayMs
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			gwlog.Warnf("retrying after failure (attempt %d/%d): %v", attempt, maxRetries, lastErr)
			delay := time.Duration(delayMs*attempt) * time.Millisecond
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	gwlog.Errorf("giving up after %d retries: %v", maxRetries, lastErr)
	return zero, lastErr
}

// BatchToolCall is one item of a CallToolsBatch request.
type BatchToolCall struct {
	ServerName string
	ToolName   string
	Args       map[string]any
}

// BatchResult is one item's outcome from a batch call.
type BatchResult[T any] struct {
	Success bool
	Result  T
	Err     error
}

// CallToolsBatch executes every call in parallel via an errgroup and returns
// results in the same order as calls, never failing the batch as a whole:
// each goroutine reports its outcome into its own output slot rather than
// returning an error to the group.
func (p *Proxy) CallToolsBatch(ctx context.Context, calls []BatchToolCall, timeout time.Duration) []BatchResult[*mcp.CallToolResult] {
	out := make([]BatchResult[*mcp.CallToolResult], len(calls))
	var g errgroup.Group
	for i, c := range calls {
		i, c := i, c
		g.Go(func() error {
			result, err := p.CallTool(ctx, c.ServerName, c.ToolName, c.Args, timeout)
			out[i] = BatchResult[*mcp.CallToolResult]{Success: err == nil, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// BatchResourceRead is one item of a ReadResourcesBatch request.
type BatchResourceRead struct {
	ServerName string
	URI        string
}

// ReadResourcesBatch executes every read in parallel via an errgroup,
// preserving order; never fails the batch as a whole (see CallToolsBatch).
func (p *Proxy) ReadResourcesBatch(ctx context.Context, reads []BatchResourceRead, timeout time.Duration) []BatchResult[*mcp.ReadResourceResult] {
	out := make([]BatchResult[*mcp.ReadResourceResult], len(reads))
	var g errgroup.Group
	for i, r := range reads {
		i, r := i, r
		g.Go(func() error {
			result, err := p.ReadResource(ctx, r.ServerName, r.URI, timeout)
			out[i] = BatchResult[*mcp.ReadResourceResult]{Success: err == nil, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
