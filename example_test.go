package rhttp_test

import (
	"context"
	"fmt"

	"github.com/advdv/rhttp"
)

type printTransport struct{}

func (printTransport) Write(chunks [][]byte, done func(error)) error {
	for _, c := range chunks {
		fmt.Printf("%q\n", c)
	}

	done(nil)

	return nil
}

func (printTransport) Close() error       { return nil }
func (printTransport) RemoteAddr() string { return "" }

func Example() {
	mux := rhttp.NewServeMux()
	mux.HandleFunc("/", func(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
		fmt.Fprint(w, "hello")
		return nil
	})

	eng := rhttp.NewEngine(mux, rhttp.NewStdLogger(nil), rhttp.EngineConfig{})
	conn := eng.Open(printTransport{})

	// the request arrives in two pieces
	eng.DispatchBytes(conn, []byte("GET / HTTP/1.0\r\n"))
	eng.DispatchBytes(conn, []byte("\r\n"))

	fmt.Println(conn.State())
	// Output:
	// "HTTP/1.0 200 OK\r\n"
	// "Content-Type: text/html\r\n"
	// "Content-Length: 5\r\n"
	// "\r\n"
	// "hello"
	// closed
}

func ExampleResponse() {
	mux := rhttp.NewServeMux()
	mux.HandleFunc("/protected", func(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.Status = rhttp.StatusBadRequest
			fmt.Fprint(w, "missing token")
			return nil
		}

		fmt.Fprint(w, "welcome")
		return nil
	})

	eng := rhttp.NewEngine(mux, rhttp.NewStdLogger(nil), rhttp.EngineConfig{})
	eng.DispatchBytes(eng.Open(printTransport{}), []byte("GET /protected HTTP/1.0\r\n\r\n"))
	// Output:
	// "HTTP/1.0 400 Bad Request\r\n"
	// "Content-Type: text/html\r\n"
	// "Content-Length: 0\r\n"
	// "\r\n"
}
