package rhttp

import (
	"context"
	"slices"

	"github.com/samber/lo"
)

// ServeMux is the handler table: it maps exact request paths onto handlers. It is
// filled during startup and frozen once an [Engine] starts serving from it, after which
// it is only read.
type ServeMux struct {
	handlers    map[string]Handler
	frozen      bool
	middlewares struct {
		captured bool
		buffered []Middleware
	}
}

// NewServeMux creates an empty ServeMux.
func NewServeMux() *ServeMux {
	return &ServeMux{handlers: make(map[string]Handler)}
}

// Use allows providing of middleware. It applies to handlers registered afterwards and
// must therefore be called before any Handle.
func (m *ServeMux) Use(mw ...Middleware) {
	m.ensureNoUseAfterHandle()
	m.middlewares.buffered = append(m.middlewares.buffered, mw...)
}

// HandleFunc registers a function for the exact path.
func (m *ServeMux) HandleFunc(path string, handler func(context.Context, *Response, *Request) error) {
	m.Handle(path, HandlerFunc(handler))
}

// Handle registers the handler for the exact path. Registering a path twice replaces
// the earlier handler.
func (m *ServeMux) Handle(path string, handler Handler) {
	if m.frozen {
		panic("rhttp: cannot call Handle() after the mux started serving")
	}

	if path == "" {
		panic("rhttp: empty path")
	}

	m.middlewares.captured = true
	m.handlers[path] = Wrap(handler, m.middlewares.buffered...)
}

// Lookup returns the handler registered for path.
func (m *ServeMux) Lookup(path string) (Handler, bool) {
	h, ok := m.handlers[path]
	return h, ok
}

// Paths returns the registered paths in sorted order.
func (m *ServeMux) Paths() []string {
	paths := lo.Keys(m.handlers)
	slices.Sort(paths)

	return paths
}

func (m *ServeMux) freeze() { m.frozen = true }

func (m *ServeMux) ensureNoUseAfterHandle() {
	if m.middlewares.captured {
		panic("rhttp: cannot call Use() after calling Handle")
	}
}
