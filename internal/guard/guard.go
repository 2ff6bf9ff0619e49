// Package guard provides the single-flight guard used to serialize session
// state transitions. Unlike coalescing helpers, a busy guard rejects the
// second caller outright: auth attempts carry distinct credentials and must
// not share a result.
package guard

import "sync"

// Guard tracks at most one in-flight holder per operation key.
// The zero value is not usable; call New.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]bool
}

// New returns an empty guard.
func New() *Guard {
	return &Guard{inflight: make(map[string]bool)}
}

// TryAcquire marks op as in flight. It reports false when op is already
// held, leaving the existing holder untouched.
func (g *Guard) TryAcquire(op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight[op] {
		return false
	}
	g.inflight[op] = true
	return true
}

// Release clears op. Releasing an op that is not held is a no-op.
func (g *Guard) Release(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, op)
}

// Held reports whether op is currently in flight.
func (g *Guard) Held(op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inflight[op]
}
