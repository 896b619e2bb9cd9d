package rhttp

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// EngineConfig holds the limits the engine applies to every connection. Zero values
// select the defaults; zero timeouts disable the corresponding sweep.
type EngineConfig struct {
	MaxHeaderBytes int
	MaxBodyBytes   int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// BaseContext is handed to handlers. It defaults to context.Background().
	BaseContext context.Context
}

// Engine drives connections through reading, dispatching, writing and closing. All
// methods except [Engine.Sweep] must be called from the single reactor goroutine that
// owns the connections.
type Engine struct {
	mux  *ServeMux
	reg  *Registry
	logs Logger
	cfg  EngineConfig
	now  func() time.Time
}

// NewEngine creates an engine serving from mux. The mux is frozen: handlers can no
// longer be added once the engine exists.
func NewEngine(mux *ServeMux, logs Logger, cfg EngineConfig) *Engine {
	if cfg.BaseContext == nil {
		cfg.BaseContext = context.Background()
	}

	mux.freeze()

	return &Engine{
		mux:  mux,
		reg:  NewRegistry(),
		logs: logs,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Registry returns the registry that owns the engine's connections.
func (e *Engine) Registry() *Registry { return e.reg }

// Open creates the state for a newly accepted connection and starts tracking it.
func (e *Engine) Open(tr Transport) *Conn {
	c := newConn(tr, e.cfg.MaxHeaderBytes, e.cfg.MaxBodyBytes, e.now())
	e.reg.Track(c)

	return c
}

// DispatchBytes is called whenever the transport delivered bytes for c. Bytes that
// arrive after the request was parsed are ignored.
func (e *Engine) DispatchBytes(c *Conn, data []byte) {
	if c.State() != StateReading {
		return
	}

	c.touch(e.now())
	c.buf = append(c.buf, data...)

	res, req, err := c.parser.Feed(c.buf)
	switch res {
	case NeedMoreData:
		return
	case Complete:
		c.req = req
		e.dispatch(c, req)
	default:
		e.logs.LogMalformedRequest(err)
		c.resp.Status = StatusBadRequest
	}

	e.respond(c)
}

// ReadError reports a failed read on c. While the request is still being read the
// client gets a best-effort 500.
func (e *Engine) ReadError(c *Conn, err error) {
	if c.State() != StateReading {
		return
	}

	e.logs.LogReadError(err)
	c.resp.Reset()
	c.resp.Status = StatusServerError
	e.respond(c)
}

// Hangup reports that the transport of c is gone, because the peer went away or because
// the connection was closed locally. It is a no-op for connections already closed.
func (e *Engine) Hangup(c *Conn, err error) {
	if c.State() == StateClosed {
		return
	}

	if err != nil {
		e.logs.LogReadError(err)
	}

	e.teardown(c, false)
}

// Sweep asks the transport of every connection that stalled beyond its read or write
// timeout to close. It only touches the transport, the teardown itself arrives through
// [Engine.Hangup]. Sweep may run concurrently with the reactor.
func (e *Engine) Sweep(now time.Time) (n int) {
	for _, c := range e.reg.Snapshot() {
		var limit time.Duration
		switch c.State() {
		case StateReading:
			limit = e.cfg.ReadTimeout
		case StateWriting:
			limit = e.cfg.WriteTimeout
		default:
			continue
		}

		if limit <= 0 || now.Sub(c.Since()) < limit {
			continue
		}

		if !c.expired.CompareAndSwap(false, true) {
			continue
		}

		_ = c.tr.Close()
		n++
	}

	return n
}

func (e *Engine) dispatch(c *Conn, req *Request) {
	c.setState(StateDispatching, e.now())
	req.RemoteAddr = c.tr.RemoteAddr()

	h, ok := e.mux.Lookup(req.Path)
	if !ok {
		c.resp.Status = StatusNotFound
		return
	}

	if err := e.serve(h, &c.resp, req); err != nil {
		e.logs.LogHandlerError(err)
		c.resp.Reset()
		c.resp.Status = StatusServerError
	}
}

// serve runs the handler and turns a panic into an error so a failing handler cannot
// take down the reactor.
func (e *Engine) serve(h Handler, w *Response, r *Request) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("rhttp: handler for %q panicked: %v", r.Path, rec)
		}
	}()

	if err := h.ServeRHTTP(e.cfg.BaseContext, w, r); err != nil {
		return errors.Wrapf(err, "serve %s %s", r.Method, r.Path)
	}

	return nil
}

func (e *Engine) respond(c *Conn) {
	c.setState(StateWriting, e.now())

	Prepare(&c.resp)
	chunks := Serialize(&c.resp)

	access := Access{ConnID: c.id, RemoteAddr: c.tr.RemoteAddr(), Status: c.resp.Status, Bytes: Size(chunks)}
	if c.req != nil {
		access.Method, access.Path = c.req.Method, c.req.Path
	}

	if err := c.tr.Write(chunks, func(err error) { e.written(c, access, err) }); err != nil {
		e.written(c, access, err)
	}
}

func (e *Engine) written(c *Conn, a Access, err error) {
	if c.State() == StateClosed {
		return
	}

	if err != nil {
		e.logs.LogWriteError(errors.Wrapf(err, "write response on connection %d", c.id))
	} else {
		e.logs.LogAccess(a)
	}

	e.teardown(c, true)
}

// teardown is the single place a connection reaches StateClosed.
func (e *Engine) teardown(c *Conn, closeTransport bool) {
	c.setState(StateClosed, e.now())
	c.buf = nil

	if closeTransport {
		_ = c.tr.Close()
	}

	e.reg.Untrack(c)
}
