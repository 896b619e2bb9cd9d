package rapp

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *rapp.Runtime[Env]
//	}
//
//	func NewHandlers(rt *rapp.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) Hello(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
//	    fmt.Fprintf(w, "hello from %s", h.rt.Env().ServiceName)
//	    return nil
//	}
type Runtime[E Environment] struct {
	env E
	mux *Mux
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, mux *Mux) *Runtime[E] {
	return &Runtime[E]{
		env: env,
		mux: mux,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Paths returns the registered paths in sorted order.
func (r *Runtime[E]) Paths() []string {
	return r.mux.Paths()
}
