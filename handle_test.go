package rhttp_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/advdv/rhttp"
	"github.com/advdv/rhttp/internal/example"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func handleGreeting(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
	w.Header.Set("Is-Bar", "rab")
	fmt.Fprintf(w, `hello %s, at %s`, r.Header.Get("X-User"), r.Path)

	if r.Path == "/trigger-error" {
		return errors.New("triggered error")
	}

	return nil
}

func TestHandleBasic(t *testing.T) {
	eng, logs := newTestEngine(t, rhttp.EngineConfig{}, func(m *rhttp.ServeMux) {
		m.HandleFunc("/bar", handleGreeting)
	})

	tr := &fakeTransport{}
	eng.DispatchBytes(eng.Open(tr), []byte("GET /bar HTTP/1.0\r\nX-User: foo\r\n\r\n"))

	require.Equal(t, "HTTP/1.0 200 OK\r\n"+
		"Is-Bar: rab\r\n"+
		"Content-Type: text/html\r\n"+
		"Content-Length: 18\r\n"+
		"\r\n"+
		"hello foo, at /bar", tr.out.String())
	require.Equal(t, int64(1), logs.NumLogAccess)
}

func TestHandleDefaultError(t *testing.T) {
	eng, logs := newTestEngine(t, rhttp.EngineConfig{}, func(m *rhttp.ServeMux) {
		m.HandleFunc("/trigger-error", handleGreeting)
	})

	tr := &fakeTransport{}
	eng.DispatchBytes(eng.Open(tr), []byte("GET /trigger-error HTTP/1.0\r\n\r\n"))

	require.Equal(t, "HTTP/1.0 500 Internal Server Error\r\nContent-Type: text/html\r\nContent-Length: 0\r\n\r\n", tr.out.String())
	require.Equal(t, int64(1), logs.NumLogHandlerError)
}

func TestHandleWithOutsideMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	eng, _ := newTestEngine(t, rhttp.EngineConfig{}, func(m *rhttp.ServeMux) {
		m.Use(example.Middleware(logger))
		m.HandleFunc("/", func(ctx context.Context, w *rhttp.Response, _ *rhttp.Request) error {
			example.Log(ctx).Info("in handler")
			fmt.Fprint(w, "ok")
			return nil
		})
	})

	tr := &fakeTransport{}
	eng.DispatchBytes(eng.Open(tr), []byte("POST / HTTP/1.0\r\nContent-Length: 0\r\n\r\n"))

	require.Contains(t, tr.out.String(), "\r\n\r\nok")
	require.Contains(t, buf.String(), "msg=\"in handler\" method=POST path=/")
}
