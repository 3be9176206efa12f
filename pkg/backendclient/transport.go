package backendclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// pipeTransport frames newline-delimited JSON-RPC 2.0 messages over an
// already-running stdio backend's pipes. It never spawns a process itself —
// the Supervisor does that (pkg/supervisor) and hands the pipes over via
// supervisor.StdioPipes — preserving the spec's ownership split (Supervisor
// owns the process, Client Pool owns the protocol session).
type pipeTransport struct {
	name string
	in   io.WriteCloser
	out  io.ReadCloser

	writeMu sync.Mutex
	nextID  int64

	mu      sync.Mutex
	pending map[int64]chan rpcResult

	closeOnce sync.Once
	done      chan struct{}
}

type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type rpcResult struct {
	result json.RawMessage
	err    error
}

func newPipeTransport(name string, in io.WriteCloser, out io.ReadCloser) *pipeTransport {
	t := &pipeTransport{
		name:    name,
		in:      in,
		out:     out,
		pending: make(map[int64]chan rpcResult),
		done:    make(chan struct{}),
	}
	go t.readLoop()
	return t
}

func (t *pipeTransport) readLoop() {
	defer close(t.done)
	scanner := bufio.NewScanner(t.out)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env rpcEnvelope
		if err := json.Unmarshal(line, &env); err != nil || env.ID == nil {
			continue
		}
		t.mu.Lock()
		ch, ok := t.pending[*env.ID]
		if ok {
			delete(t.pending, *env.ID)
		}
		t.mu.Unlock()
		if !ok {
			continue
		}
		if env.Error != nil {
			ch <- rpcResult{err: fmt.Errorf("backend %q: rpc error %d: %s", t.name, env.Error.Code, env.Error.Message)}
		} else {
			ch <- rpcResult{result: env.Result}
		}
	}
}

// call sends a JSON-RPC request and blocks for its matching response.
func (t *pipeTransport) call(ctx context.Context, method string, params any, out any) error {
	id := atomic.AddInt64(&t.nextID, 1)
	ch := make(chan rpcResult, 1)
	t.mu.Lock()
	t.pending[id] = ch
	t.mu.Unlock()

	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	if err := t.writeLine(rpcEnvelope{JSONRPC: "2.0", ID: &id, Method: method, Params: raw}); err != nil {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return err
	}

	select {
	case resp := <-ch:
		if resp.err != nil {
			return resp.err
		}
		if out == nil || len(resp.result) == 0 {
			return nil
		}
		return json.Unmarshal(resp.result, out)
	case <-ctx.Done():
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return ctx.Err()
	case <-t.done:
		return fmt.Errorf("backend %q: transport closed", t.name)
	}
}

func (t *pipeTransport) writeLine(env rpcEnvelope) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = t.in.Write(data)
	return err
}

// Close closes the backend's stdin pipe. The read loop keeps running until
// the backend's stdout reaches EOF; the Supervisor owns process teardown.
func (t *pipeTransport) Close() error {
	var err error
	t.closeOnce.Do(func() { err = t.in.Close() })
	return err
}
