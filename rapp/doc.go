// Package rapp provides a batteries-included application around the rhttp engine.
//
// # Overview
//
// rapp handles the boilerplate of running an rhttp server: environment parsing,
// structured logging, OpenTelemetry tracing, the gnet event loop and graceful
// shutdown. A complete application can be created in a single call:
//
//	rapp.NewApp[Env](func(m *rapp.Mux, h *Handlers) {
//	    m.HandleFunc("/items", h.ListItems)
//	},
//	    rapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    rapp.BaseEnvironment
//	    Greeting string `env:"GREETING" envDefault:"hello"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable               | Required | Default   | Description                                  |
//	|------------------------|----------|-----------|----------------------------------------------|
//	| RHTTP_PORT             | Yes      | -         | Port the server listens on                   |
//	| RHTTP_SERVICE_NAME     | Yes      | -         | Service name for logging and tracing         |
//	| RHTTP_BIND_ADDRESS     | No       | 127.0.0.1 | Address the server binds to                  |
//	| RHTTP_LOG_LEVEL        | No       | info      | Log level (debug, info, warn, error)         |
//	| RHTTP_OTEL_EXPORTER    | No       | stdout    | Trace exporter: "stdout", "xrayudp", "none"  |
//	| RHTTP_MAX_HEADER_BYTES | No       | 8192      | Bound on the request line and headers        |
//	| RHTTP_MAX_BODY_BYTES   | No       | 1048576   | Bound on the request body                    |
//	| RHTTP_READ_TIMEOUT     | No       | 10s       | Idle limit while reading a request           |
//	| RHTTP_WRITE_TIMEOUT    | No       | 10s       | Limit for a response to be written           |
//	| RHTTP_SWEEP_INTERVAL   | No       | 1s        | How often stalled connections are looked for |
//	| RHTTP_REUSE_PORT       | No       | false     | Bind with SO_REUSEPORT                       |
//
// # Runtime
//
// [Runtime] provides access to app-scoped dependencies and should be injected into
// handler constructors via fx:
//
//	type Handlers struct {
//	    rt *rapp.Runtime[Env]
//	}
//
//	func (h *Handlers) Hello(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
//	    fmt.Fprint(w, h.rt.Env().Greeting)
//	    return nil
//	}
//
// # Context
//
// Handlers receive a standard context.Context. Use the package-level functions
// to access request-scoped values:
//
//   - [Log] - trace-correlated zap logger
//   - [Span] - current OpenTelemetry span for custom instrumentation
//
// # Tracing
//
// OpenTelemetry tracing is configured based on RHTTP_OTEL_EXPORTER:
//
//   - "stdout" (default): Pretty-printed spans for local development
//   - "xrayudp": X-Ray UDP exporter with X-Ray trace IDs and propagation
//   - "none": tracing disabled
//
// Every routed request gets a server span that continues the trace found in the
// request headers. Unrouted requests (404) and malformed requests never reach the
// middleware and are therefore not traced.
//
// # Event Loop
//
// The server runs on a single gnet event loop. Handlers run on that loop, a slow
// handler delays every other connection. Offload blocking work or keep it short.
// Stalled connections are closed by a sweep on the gnet ticker, see timeout.go.
//
// # Testing
//
// [rapptest.CallHandler] invokes a handler against a synthetic request and returns
// the prepared response. Combine it with [WithLogger] to unit-test handlers that call
// [Log]:
//
//	ctx := rapp.WithLogger(context.Background(), zap.NewNop())
//	resp := rapptest.CallHandler(ctx, h.ListItems, &rhttp.Request{Method: rhttp.MethodGET, Path: "/items"})
//
// For integration tests that need the full DI graph, use [rapptest.New]:
//
//	rapptest.SetBaseEnv(t, 18081)
//	app := rapptest.New[Env](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
//
// # Dependency Injection
//
// rapp uses [go.uber.org/fx] for dependency injection. Add custom providers
// with [WithFx]:
//
//	rapp.WithFx(
//	    fx.Provide(NewHandlers),
//	    fx.Provide(NewRepository),
//	)
package rapp
