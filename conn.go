package rhttp

import (
	"sync/atomic"
	"time"
)

// State is the lifecycle state of a connection.
type State int32

const (
	StateReading State = iota
	StateDispatching
	StateWriting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReading:
		return "reading"
	case StateDispatching:
		return "dispatching"
	case StateWriting:
		return "writing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Transport is the connection-level I/O surface the engine needs. Write and Close are
// called from the reactor, Close may additionally be called from the timeout sweep and
// must therefore be safe for concurrent use.
type Transport interface {
	// Write queues the chunks for sending. If it returns nil, done is called at most once
	// on the reactor: after every byte was handed to the operating system or the write
	// failed. A transport whose reactor stops first never calls it.
	Write(chunks [][]byte, done func(err error)) error
	// Close tears down the underlying connection. The transport reports the teardown back
	// through [Engine.Hangup].
	Close() error
	RemoteAddr() string
}

// Conn is the per-connection state driven by an [Engine]. Its lifetime is owned by the
// engine's [Registry].
type Conn struct {
	id      uint64
	tr      Transport
	state   atomic.Int32
	since   atomic.Int64 // unix nanos of the last state change or inbound activity
	expired atomic.Bool

	buf    []byte
	parser Parser
	req    *Request
	resp   Response
}

func newConn(tr Transport, maxHeaderBytes, maxBodyBytes int, now time.Time) *Conn {
	c := &Conn{tr: tr}
	c.parser = Parser{MaxHeaderBytes: maxHeaderBytes, MaxBodyBytes: maxBodyBytes}
	c.since.Store(now.UnixNano())

	return c
}

// ID returns the registry-assigned identifier, zero before the connection is tracked.
func (c *Conn) ID() uint64 { return c.id }

// State returns the current lifecycle state.
func (c *Conn) State() State { return State(c.state.Load()) }

// Since returns when the connection entered its current state or last received bytes.
func (c *Conn) Since() time.Time { return time.Unix(0, c.since.Load()) }

// Request returns the parsed request once the connection got past reading, nil before.
func (c *Conn) Request() *Request { return c.req }

func (c *Conn) setState(s State, now time.Time) {
	c.state.Store(int32(s))
	c.since.Store(now.UnixNano())
}

func (c *Conn) touch(now time.Time) {
	c.since.Store(now.UnixNano())
}
