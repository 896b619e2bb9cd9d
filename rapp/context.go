package rapp

import (
	"context"

	"github.com/advdv/rhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey is the key type for context values.
type ctxKey int

const (
	ctxKeyRequestDep ctxKey = iota
)

// requestDep holds request-scoped dependencies available via context.
// App-scoped dependencies (env, mux) are accessed via Runtime instead.
type requestDep struct {
	logger *zap.Logger
}

// withRequestDep injects dependencies into the request context. The logger is
// narrowed to the request so every line carries the method, path and peer.
func withRequestDep(d *requestDep) rhttp.Middleware {
	return func(next rhttp.Handler) rhttp.Handler {
		return rhttp.HandlerFunc(func(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
			rd := &requestDep{logger: d.logger.With(
				zap.Stringer("method", r.Method),
				zap.String("path", r.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)}

			return next.ServeRHTTP(context.WithValue(ctx, ctxKeyRequestDep, rd), w, r)
		})
	}
}

// WithLogger returns a context that carries the logger returned by [Log]. The
// server installs it for every request, use this to call handlers directly.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyRequestDep, &requestDep{logger: logger})
}

func requestDepFromContext(ctx context.Context) *requestDep {
	d, ok := ctx.Value(ctxKeyRequestDep).(*requestDep)
	if !ok {
		panic("rapp: requestDep not found in context; is the middleware configured?")
	}
	return d
}

// Log returns a trace-correlated zap logger from the context.
func Log(ctx context.Context) *zap.Logger {
	d := requestDepFromContext(ctx)
	return d.logger.With(traceFields(ctx)...)
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// traceFields extracts trace_id and span_id from the context for log correlation.
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
