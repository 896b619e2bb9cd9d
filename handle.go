package rhttp

import (
	"context"
)

// Handler produces the response for a request. A handler rejects a request by setting
// the status of w. Returning an error discards whatever was written to the response and
// always answers with a [StatusServerError].
type Handler interface {
	ServeRHTTP(ctx context.Context, w *Response, r *Request) error
}

// HandlerFunc allow casting a function to imple [Handler].
type HandlerFunc func(context.Context, *Response, *Request) error

// ServeRHTTP implements the [Handler] interface.
func (f HandlerFunc) ServeRHTTP(ctx context.Context, w *Response, r *Request) error {
	return f(ctx, w, r)
}
