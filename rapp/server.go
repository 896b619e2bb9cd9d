package rapp

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/advdv/rhttp"
	"github.com/cockroachdb/errors"
	"github.com/panjf2000/gnet/v2"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerParams holds the dependencies for creating a server.
type ServerParams struct {
	fx.In

	Env        Environment
	Mux        *Mux
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// Server runs the engine on a single gnet event loop. It implements the gnet event
// handler: every connection is owned by the loop, only the timeout sweep runs on the
// ticker goroutine.
type Server struct {
	gnet.BuiltinEventEngine

	addr          string
	reusePort     bool
	sweepInterval time.Duration
	cfg           rhttp.EngineConfig
	mux           *Mux
	logs          *zap.Logger

	eng    *rhttp.Engine
	loop   gnet.Engine
	booted chan struct{}
	done   chan error
}

// NewServer creates a server with all middleware configured. The engine itself is
// created when the server starts, after all routes have been registered.
func NewServer(params ServerParams) *Server {
	d := &requestDep{
		logger: params.Logger,
	}

	tc := params.Env.timeouts()
	readTimeout, writeTimeout, sweepInterval := tc.ServerTimeouts()

	params.Mux.Use(withTracing(params.TracerProv, params.Propagator))
	params.Mux.Use(withRequestDep(d))
	params.Mux.Use(WithRequestDeadline(tc.HandlerTimeout()))

	return &Server{
		addr:          net.JoinHostPort(params.Env.bindAddress(), strconv.Itoa(params.Env.port())),
		reusePort:     params.Env.reusePort(),
		sweepInterval: sweepInterval,
		cfg: rhttp.EngineConfig{
			MaxHeaderBytes: params.Env.maxHeaderBytes(),
			MaxBodyBytes:   params.Env.maxBodyBytes(),
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
		},
		mux:    params.Mux,
		logs:   params.Logger,
		booted: make(chan struct{}),
		done:   make(chan error, 1),
	}
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string { return s.addr }

// Engine returns the engine once the server started, nil before.
func (s *Server) Engine() *rhttp.Engine { return s.eng }

// Start freezes the routes, starts the event loop and blocks until it accepts
// connections or fails to boot.
func (s *Server) Start(ctx context.Context) error {
	s.eng = rhttp.NewEngine(s.mux, NewRHTTPLogger(s.logs), s.cfg)

	go func() {
		s.done <- gnet.Run(s, "tcp://"+s.addr,
			gnet.WithMulticore(false),
			gnet.WithTicker(true),
			gnet.WithReusePort(s.reusePort),
			gnet.WithTCPNoDelay(gnet.TCPNoDelay),
			gnet.WithLogger(s.logs.Named("gnet").Sugar()),
		)
	}()

	select {
	case <-s.booted:
		return nil
	case err := <-s.done:
		return errors.Wrapf(err, "failed to serve on %s", s.addr)
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for event loop to boot")
	}
}

// Stop stops the event loop, which closes all remaining connections, and waits for it
// to return.
func (s *Server) Stop(ctx context.Context) error {
	select {
	case <-s.booted:
	default:
		return nil
	}

	if err := s.loop.Stop(ctx); err != nil {
		return errors.Wrap(err, "failed to stop event loop")
	}

	select {
	case err := <-s.done:
		return err
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for event loop to stop")
	}
}

func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.loop = eng
	close(s.booted)

	return gnet.None
}

func (s *Server) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(s.eng.Open(newGnetTransport(c)))

	return nil, gnet.None
}

func (s *Server) OnTraffic(c gnet.Conn) gnet.Action {
	conn, ok := c.Context().(*rhttp.Conn)
	if !ok {
		return gnet.Close
	}

	buf, err := c.Next(-1)
	if err != nil {
		s.eng.ReadError(conn, errors.Wrap(err, "read from event loop"))
		return gnet.None
	}

	s.eng.DispatchBytes(conn, buf)

	return gnet.None
}

func (s *Server) OnClose(c gnet.Conn, err error) gnet.Action {
	if conn, ok := c.Context().(*rhttp.Conn); ok {
		s.eng.Hangup(conn, err)
	}

	return gnet.None
}

// OnTick runs on the ticker goroutine, concurrently with the event loop.
func (s *Server) OnTick() (time.Duration, gnet.Action) {
	if n := s.eng.Sweep(time.Now()); n > 0 {
		s.logs.Debug("closed stalled connections", zap.Int("count", n))
	}

	return s.sweepInterval, gnet.None
}

// gnetTransport implements the engine's transport on a gnet connection.
type gnetTransport struct {
	c    gnet.Conn
	peer string
}

func newGnetTransport(c gnet.Conn) gnetTransport {
	t := gnetTransport{c: c}
	if addr := c.RemoteAddr(); addr != nil {
		t.peer = addr.String()
	}

	return t
}

// drainPoll is how often a response that did not fit into the socket buffer is checked
// for having left gnet's outbound buffer.
const drainPoll = 5 * time.Millisecond

func (t gnetTransport) Write(chunks [][]byte, done func(err error)) error {
	return t.c.AsyncWritev(chunks, func(c gnet.Conn, err error) error {
		if err != nil {
			done(err)
			return nil
		}

		drained(c, done)
		return nil
	})
}

// drained calls done once gnet's outbound buffer for c is empty. gnet flushes that
// buffer on writable events but drops what is left of it when the connection closes,
// so the engine may only close after this. It runs on the event loop.
func drained(c gnet.Conn, done func(err error)) {
	if c.Context() == nil {
		done(net.ErrClosed) // released by gnet, the engine already saw the hangup
		return
	}

	if c.OutboundBuffered() == 0 {
		done(nil)
		return
	}

	time.AfterFunc(drainPoll, func() {
		// a failed wake means the loop is stopping and closes c itself
		_ = c.Wake(func(c gnet.Conn, err error) error {
			if err != nil {
				done(err)
				return nil
			}

			drained(c, done)
			return nil
		})
	})
}

// Close uses the callback variant because it is safe to call from outside the loop.
func (t gnetTransport) Close() error {
	return t.c.CloseWithCallback(nil)
}

func (t gnetTransport) RemoteAddr() string { return t.peer }

// startServerHook registers lifecycle hooks for the server.
func startServerHook(lc fx.Lifecycle, server *Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", server.Addr()))
			return server.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Stop(ctx)
		},
	})
}
