package rhttp

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Registry holds the owning reference to every live connection. A connection is
// released exactly once, by [Registry.Untrack]. Track and Untrack are called from the
// reactor; the mutex only exists because timeout sweeps take snapshots from another
// goroutine.
type Registry struct {
	mu     sync.Mutex
	nextID uint64
	conns  map[uint64]*Conn
}

// NewRegistry inits an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[uint64]*Conn)}
}

// Track assigns c an id and keeps it alive until it is untracked.
func (r *Registry) Track(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	c.id = r.nextID
	r.conns[c.id] = c
}

// Untrack releases c. It reports false if c was not tracked, which makes a second call
// for the same connection a no-op.
func (r *Registry) Untrack(c *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.conns[c.id]; !ok || cur != c {
		return false
	}

	delete(r.conns, c.id)

	return true
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.conns)
}

// Snapshot returns the live connections ordered by id.
func (r *Registry) Snapshot() []*Conn {
	r.mu.Lock()
	conns := lo.Values(r.conns)
	r.mu.Unlock()

	slices.SortFunc(conns, func(a, b *Conn) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		default:
			return 0
		}
	})

	return conns
}
