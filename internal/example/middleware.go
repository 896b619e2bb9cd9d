// Package example implements example middleware in an outside package.
package example

import (
	"context"
	"log/slog"

	"github.com/advdv/rhttp"
)

// ctxKey type scopes middlware values.
type ctxKey string

// Middleware provides an example for middleware that adds a logger to the context.
func Middleware(logs *slog.Logger) rhttp.Middleware {
	return func(n rhttp.Handler) rhttp.Handler {
		return rhttp.HandlerFunc(func(c context.Context, w *rhttp.Response, r *rhttp.Request) error {
			logs := logs.With(slog.String("method", r.Method.String()), slog.String("path", r.Path))
			c = context.WithValue(c, ctxKey("slog"), logs)

			return n.ServeRHTTP(c, w, r)
		})
	}
}

func Log(ctx context.Context) *slog.Logger {
	v, _ := ctx.Value(ctxKey("slog")).(*slog.Logger)

	return v
}
