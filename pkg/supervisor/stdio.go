package supervisor

import (
	"io"
	"sync"
)

// stdioPipes holds a supervised child's stdin/stdout ends. The Client Pool
// reads these to build its MCP transport, keeping process ownership
// (Supervisor) and protocol-connection ownership (Client Pool) distinct per
// spec §3's ownership rules.
type stdioPipes struct {
	in  io.WriteCloser
	out io.ReadCloser
}

type stdioRegistry struct {
	mu sync.Mutex
	m  map[string]stdioPipes
}

func (r *stdioRegistry) store(name string, p stdioPipes) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		r.m = make(map[string]stdioPipes)
	}
	r.m[name] = p
}

func (r *stdioRegistry) load(name string) (stdioPipes, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.m[name]
	return p, ok
}

func (r *stdioRegistry) delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, name)
}

var stdioHandles = &stdioRegistry{}

// StdioPipes returns the stdin writer and stdout reader for a running
// stdio-backed backend, for the Client Pool to wrap in an MCP transport.
func StdioPipes(name string) (in io.WriteCloser, out io.ReadCloser, ok bool) {
	p, ok := stdioHandles.load(name)
	return p.in, p.out, ok
}
