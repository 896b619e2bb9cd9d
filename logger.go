package rhttp

import (
	"log"
	"sync/atomic"
	"testing"
)

// Access describes a finished exchange for access logging.
type Access struct {
	ConnID     uint64
	RemoteAddr string
	Method     Method // zero when the request did not parse
	Path       string
	Status     Status
	Bytes      int
}

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogHandlerError(err error)
	LogMalformedRequest(err error)
	LogReadError(err error)
	LogWriteError(err error)
	LogAccess(a Access)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogHandlerError(err error) {
	l.Logger.Printf("rhttp: handler error: %s", err)
}

func (l stdLogger) LogMalformedRequest(err error) {
	l.Logger.Printf("rhttp: %s", err)
}

func (l stdLogger) LogReadError(err error) {
	l.Logger.Printf("rhttp: error while reading: %s", err)
}

func (l stdLogger) LogWriteError(err error) {
	l.Logger.Printf("rhttp: error while writing: %s", err)
}

func (l stdLogger) LogAccess(a Access) {
	l.Logger.Printf("rhttp: %s %s %q %d %d", a.RemoteAddr, a.Method, a.Path, a.Status.Code(), a.Bytes)
}

func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogHandlerError     int64
	NumLogMalformedRequest int64
	NumLogReadError        int64
	NumLogWriteError       int64
	NumLogAccess           int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogHandlerError(err error) {
	atomic.AddInt64(&l.NumLogHandlerError, 1)
	l.tb.Logf("rhttp: handler error: %s", err)
}

func (l *TestLogger) LogMalformedRequest(err error) {
	atomic.AddInt64(&l.NumLogMalformedRequest, 1)
	l.tb.Logf("rhttp: %s", err)
}

func (l *TestLogger) LogReadError(err error) {
	atomic.AddInt64(&l.NumLogReadError, 1)
	l.tb.Logf("rhttp: error while reading: %s", err)
}

func (l *TestLogger) LogWriteError(err error) {
	atomic.AddInt64(&l.NumLogWriteError, 1)
	l.tb.Logf("rhttp: error while writing: %s", err)
}

func (l *TestLogger) LogAccess(a Access) {
	atomic.AddInt64(&l.NumLogAccess, 1)
	l.tb.Logf("rhttp: %s %q %d", a.Method, a.Path, a.Status.Code())
}

var _ Logger = &TestLogger{}
