package rhttp

// Middleware wraps a [Handler]. It runs on the reactor like the handler itself and may
// adjust the response, the context handed down or the error passed back up.
type Middleware func(Handler) Handler

// Wrap returns h wrapped by m, the first middleware being outermost. A request passes
// m[0] first and reaches h last, errors travel back in reverse order.
func Wrap(h Handler, m ...Middleware) Handler {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}

	return h
}
