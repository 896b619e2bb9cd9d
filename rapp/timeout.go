package rapp

import (
	"context"
	"time"

	"github.com/advdv/rhttp"
)

// Timeout Configuration
//
// The engine serves every connection from a single event loop, so a stalled
// client cannot block other connections but it does hold on to its buffers until
// something closes it. Two timeouts bound that:
//
//  1. ReadTimeout: how long a connection may sit in the reading state without
//     receiving bytes. This catches slowloris-style clients that trickle a request
//     line or never send the blank line that ends the headers.
//
//  2. WriteTimeout: how long a response may stay queued before the peer drains it.
//
// Stalled connections are found by a periodic sweep that runs every SweepInterval,
// so a connection is closed somewhere between its timeout and its timeout plus one
// interval.
//
// Handlers additionally see a context deadline derived from the write timeout (see
// [WithRequestDeadline]) so downstream calls give up before the sweep would close the
// connection anyway.

// DefaultDeadlineBuffer is the default time reserved before the write timeout
// for serializing and flushing the response.
const DefaultDeadlineBuffer = 500 * time.Millisecond

const (
	defaultReadTimeout   = 10 * time.Second
	defaultWriteTimeout  = 10 * time.Second
	defaultSweepInterval = time.Second
)

// TimeoutConfig holds timeout configuration for the server.
type TimeoutConfig struct {
	// ReadTimeout bounds how long a connection may wait for request bytes.
	ReadTimeout time.Duration
	// WriteTimeout bounds how long a response may take to be written.
	WriteTimeout time.Duration
	// SweepInterval is how often stalled connections are looked for.
	SweepInterval time.Duration

	// DeadlineBuffer is subtracted from the write timeout to derive the handler
	// deadline. Defaults to DefaultDeadlineBuffer.
	DeadlineBuffer time.Duration
}

// ServerTimeouts returns the effective timeouts with defaults applied to
// non-positive values.
func (tc TimeoutConfig) ServerTimeouts() (readTimeout, writeTimeout, sweepInterval time.Duration) {
	readTimeout = tc.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}

	writeTimeout = tc.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	// sweeping less often than the shortest timeout would let connections overstay
	// by more than one full timeout.
	sweepInterval = tc.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	sweepInterval = min(sweepInterval, readTimeout, writeTimeout)

	return
}

// HandlerTimeout returns how long a handler may run: the write timeout minus the
// deadline buffer. If the buffer eats the whole timeout, the write timeout is used.
func (tc TimeoutConfig) HandlerTimeout() time.Duration {
	buffer := tc.DeadlineBuffer
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	_, writeTimeout, _ := tc.ServerTimeouts()

	timeout := writeTimeout - buffer
	if timeout <= 0 {
		timeout = writeTimeout
	}

	return timeout
}

// WithRequestDeadline returns middleware that puts a deadline of 'timeout' on the
// handler context. Handlers run on the event loop so the deadline cannot preempt
// them, it only tells downstream calls when to give up.
func WithRequestDeadline(timeout time.Duration) rhttp.Middleware {
	return func(next rhttp.Handler) rhttp.Handler {
		return rhttp.HandlerFunc(func(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
			if timeout <= 0 {
				return next.ServeRHTTP(ctx, w, r)
			}

			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next.ServeRHTTP(ctx, w, r)
		})
	}
}

// RequestDeadline returns the context deadline for the current request.
// Returns the zero time and false if no deadline is set.
func RequestDeadline(ctx context.Context) (time.Time, bool) {
	return ctx.Deadline()
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
