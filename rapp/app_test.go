package rapp_test

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/advdv/rhttp"
	"github.com/advdv/rhttp/rapp"
	"github.com/advdv/rhttp/rapp/rapptest"
	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

// Handlers demonstrates injection of the runtime into handler constructors.
type Handlers struct {
	rt *rapp.Runtime[TestEnv]
}

func NewHandlers(rt *rapp.Runtime[TestEnv]) *Handlers {
	return &Handlers{rt: rt}
}

func (h *Handlers) Hello(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
	rapp.Log(ctx).Info("saying hello")
	rapp.Span(ctx).AddEvent("hello")

	_, hasDeadline := rapp.RequestDeadline(ctx)
	fmt.Fprintf(w, "%s from %s (deadline: %v)", h.rt.Env().Greeting, h.rt.Env().ServiceName, hasDeadline)
	return nil
}

func (h *Handlers) Echo(_ context.Context, w *rhttp.Response, r *rhttp.Request) error {
	fmt.Fprintf(w, "%s %s %s", r.Method, r.Path, r.Body)
	return nil
}

func (h *Handlers) Fail(_ context.Context, w *rhttp.Response, r *rhttp.Request) error {
	if r.Method == rhttp.MethodGET {
		w.Status = rhttp.StatusBadRequest
		return nil
	}

	w.Status = rhttp.StatusGood
	fmt.Fprint(w, "partial")
	return errors.New("rejected")
}

func (h *Handlers) Paths(_ context.Context, w *rhttp.Response, _ *rhttp.Request) error {
	fmt.Fprint(w, strings.Join(h.rt.Paths(), ","))
	return nil
}

func routing(m *rapp.Mux, h *Handlers) {
	m.HandleFunc("/", h.Hello)
	m.HandleFunc("/echo", h.Echo)
	m.HandleFunc("/fail", h.Fail)
	m.HandleFunc("/paths", h.Paths)
}

// rawExchange writes req on a fresh connection and returns everything the server sends
// until it closes the connection.
func rawExchange(t *testing.T, addr, req string) string {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	_, err = io.WriteString(conn, req)
	require.NoError(t, err)

	out, err := io.ReadAll(bufio.NewReader(conn))
	require.NoError(t, err)

	return string(out)
}

func TestApp_EndToEnd(t *testing.T) {
	rapptest.SetBaseEnv(t, 18081).ServiceName("test-service")

	app := rapptest.New[TestEnv](t, routing, rapp.WithFx(fx.Provide(NewHandlers)))
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	baseURL := "http://127.0.0.1:18081"
	ctx := context.Background()

	t.Run("Runtime_Log_Span_Deadline", func(t *testing.T) {
		var body string
		require.NoError(t, requests.URL(baseURL+"/").ToString(&body).Fetch(ctx))
		assert.Equal(t, "hello from test-service (deadline: true)", body)
	})

	t.Run("POST_with_body", func(t *testing.T) {
		var body string
		hdr := http.Header{}
		require.NoError(t, requests.URL(baseURL+"/echo").
			BodyBytes([]byte(`{"name":"Test"}`)).
			ContentType("application/json").
			CopyHeaders(hdr).
			ToString(&body).
			Fetch(ctx))

		assert.Equal(t, `POST /echo {"name":"Test"}`, body)
		assert.Equal(t, "text/html", hdr.Get("Content-Type"))
	})

	t.Run("NotFound", func(t *testing.T) {
		err := requests.URL(baseURL + "/missing").CheckStatus(http.StatusNotFound).Fetch(ctx)
		require.NoError(t, err)
	})

	t.Run("Rejected", func(t *testing.T) {
		var body string
		err := requests.URL(baseURL + "/fail").
			CheckStatus(http.StatusBadRequest).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("HandlerError", func(t *testing.T) {
		var body string
		err := requests.URL(baseURL + "/fail").
			BodyBytes([]byte("x")).
			CheckStatus(http.StatusInternalServerError).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("Routes", func(t *testing.T) {
		var body string
		require.NoError(t, requests.URL(baseURL+"/paths").ToString(&body).Fetch(ctx))
		assert.Equal(t, "/,/echo,/fail,/paths", body)
	})

	t.Run("Malformed", func(t *testing.T) {
		out := rawExchange(t, "127.0.0.1:18081", "DELETE / HTTP/1.0\r\n\r\n")
		assert.Equal(t, "HTTP/1.0 400 Bad Request\r\nContent-Type: text/html\r\nContent-Length: 0\r\n\r\n", out)
	})

	t.Run("HTTP10_wire_format", func(t *testing.T) {
		out := rawExchange(t, "127.0.0.1:18081", "PUT /echo HTTP/1.0\r\nContent-Length: 3\r\n\r\nabc")
		assert.Equal(t, "HTTP/1.0 200 OK\r\nContent-Type: text/html\r\nContent-Length: 13\r\n\r\nPUT /echo abc", out)
	})
}

func TestApp_ReadTimeout(t *testing.T) {
	rapptest.SetBaseEnv(t, 18082).ReadTimeout("200ms")

	app := rapptest.New[TestEnv](t, routing, rapp.WithFx(fx.Provide(NewHandlers)))
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	conn, err := net.DialTimeout("tcp", "127.0.0.1:18082", 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	// the blank line never arrives
	_, err = io.WriteString(conn, "GET / HTTP/1.0\r\n")
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	out, err := io.ReadAll(conn)
	require.NoError(t, err, "the server closes the stalled connection")
	assert.Empty(t, out)
}

func TestApp_HeaderLimit(t *testing.T) {
	rapptest.SetBaseEnv(t, 18083).MaxHeaderBytes(64)

	app := rapptest.New[TestEnv](t, routing, rapp.WithFx(fx.Provide(NewHandlers)))
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	out := rawExchange(t, "127.0.0.1:18083", "GET / HTTP/1.0\r\nX-Padding: "+strings.Repeat("a", 128)+"\r\n\r\n")
	assert.True(t, strings.HasPrefix(out, "HTTP/1.0 400 Bad Request\r\n"), out)
}

const bigBodySize = 16 << 20

func bigRouting(m *rapp.Mux) {
	m.HandleFunc("/big", func(_ context.Context, w *rhttp.Response, _ *rhttp.Request) error {
		_, err := w.Write(bytes.Repeat([]byte("x"), bigBodySize))
		return err
	})
}

// readAfter sends a request for the big body, waits before reading and returns the
// head and body the server sent until it closed the connection.
func readAfter(t *testing.T, addr string, wait time.Duration) (head, body string) {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = io.WriteString(conn, "GET /big HTTP/1.0\r\n\r\n")
	require.NoError(t, err)

	time.Sleep(wait)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	out, err := io.ReadAll(conn)
	require.NoError(t, err)

	head, body, ok := strings.Cut(string(out), "\r\n\r\n")
	require.True(t, ok, "no complete response head in %d bytes", len(out))

	return head, body
}

func TestApp_LargeResponseSlowReader(t *testing.T) {
	rapptest.SetBaseEnv(t, 18084)

	app := rapptest.New[TestEnv](t, bigRouting)
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	head, body := readAfter(t, "127.0.0.1:18084", 500*time.Millisecond)
	assert.Contains(t, head, "Content-Length: "+strconv.Itoa(bigBodySize))
	assert.Equal(t, bigBodySize, len(body))
}

func TestApp_WriteTimeout(t *testing.T) {
	rapptest.SetBaseEnv(t, 18085).WriteTimeout("300ms")

	app := rapptest.New[TestEnv](t, bigRouting)
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	head, body := readAfter(t, "127.0.0.1:18085", 1500*time.Millisecond)
	assert.True(t, strings.HasPrefix(head, "HTTP/1.0 200 OK\r\n"), head)
	assert.Less(t, len(body), bigBodySize, "the stalled response is cut off by the write timeout")
}
