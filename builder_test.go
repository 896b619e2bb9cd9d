package rhttp_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/advdv/rhttp"
	"github.com/stretchr/testify/require"
)

func render(r *rhttp.Response) string {
	return string(bytes.Join(rhttp.Serialize(r), nil))
}

func TestStatusLine(t *testing.T) {
	require.Equal(t, "HTTP/1.0 200 OK", rhttp.StatusLine(rhttp.StatusGood))
	require.Equal(t, "HTTP/1.0 400 Bad Request", rhttp.StatusLine(rhttp.StatusBadRequest))
	require.Equal(t, "HTTP/1.0 404 Not Found", rhttp.StatusLine(rhttp.StatusNotFound))
	require.Equal(t, "HTTP/1.0 500 Internal Server Error", rhttp.StatusLine(rhttp.StatusServerError))
	require.Equal(t, "HTTP/1.0 500 Internal Server Error", rhttp.StatusLine(rhttp.Status(42)))
	require.Equal(t, 500, rhttp.Status(42).Code())
}

func TestPrepareAndSerialize(t *testing.T) {
	resp := &rhttp.Response{}
	fmt.Fprintf(resp, "hello")

	rhttp.Prepare(resp)
	require.Equal(t,
		"HTTP/1.0 200 OK\r\nContent-Type: text/html\r\nContent-Length: 5\r\n\r\nhello",
		render(resp))
}

func TestPrepareIsIdempotent(t *testing.T) {
	for _, status := range []rhttp.Status{rhttp.StatusGood, rhttp.StatusBadRequest, rhttp.StatusNotFound, rhttp.StatusServerError} {
		t.Run(status.String(), func(t *testing.T) {
			once := &rhttp.Response{Status: status}
			once.Header.Add("X-Custom", "1")
			once.WriteString("body")

			twice := &rhttp.Response{Status: status}
			twice.Header.Add("X-Custom", "1")
			twice.WriteString("body")

			rhttp.Prepare(once)
			rhttp.Prepare(twice)
			rhttp.Prepare(twice)

			require.Equal(t, render(once), render(twice))
			require.Len(t, twice.Header.Values("Content-Length"), 1)
			require.Len(t, twice.Header.Values("Content-Type"), 1)
		})
	}
}

func TestPrepareClearsBodyOnErrorStatus(t *testing.T) {
	for _, status := range []rhttp.Status{rhttp.StatusBadRequest, rhttp.StatusServerError} {
		t.Run(status.String(), func(t *testing.T) {
			resp := &rhttp.Response{}
			resp.WriteString("partial output")
			resp.Header.Set("Content-Length", "14")
			resp.Status = status

			rhttp.Prepare(resp)
			require.Empty(t, resp.Body)
			require.Equal(t, "0", resp.Header.Get("Content-Length"))
			require.Equal(t, rhttp.StatusLine(status)+"\r\nContent-Length: 0\r\nContent-Type: text/html\r\n\r\n", render(resp))
		})
	}
}

func TestPrepareOverridesContentType(t *testing.T) {
	resp := &rhttp.Response{}
	resp.Header.Add("X-First", "a")
	resp.Header.Add("Content-Type", "application/json")
	resp.Header.Add("X-Last", "b")
	resp.WriteString("{}")

	rhttp.Prepare(resp)
	require.Equal(t,
		"HTTP/1.0 200 OK\r\nX-First: a\r\nContent-Type: text/html\r\nX-Last: b\r\nContent-Length: 2\r\n\r\n{}",
		render(resp))

	resp.Status = rhttp.StatusNotFound
	resp.Header.Set("Content-Type", "text/plain")
	rhttp.Prepare(resp)
	require.Equal(t, []string{"text/html"}, resp.Header.Values("Content-Type"))
}

func TestSerializeChunks(t *testing.T) {
	resp := &rhttp.Response{Status: rhttp.StatusNotFound}
	rhttp.Prepare(resp)

	chunks := rhttp.Serialize(resp)
	require.Equal(t, []string{
		"HTTP/1.0 404 Not Found\r\n",
		"Content-Type: text/html\r\n",
		"Content-Length: 0\r\n",
		"\r\n",
	}, toStrings(chunks))
	require.Equal(t, len(render(resp)), rhttp.Size(chunks))
}

func toStrings(chunks [][]byte) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = string(c)
	}

	return out
}
