// Package rhttp implements a small HTTP/1.0 request engine meant to be driven by a
// single-threaded event loop.
//
// # Overview
//
// The transport hands inbound bytes to an [Engine] as they arrive. The engine
// accumulates them per connection, feeds them to a resumable [Parser], dispatches the
// completed [Request] to the [Handler] registered for its exact path and writes the
// serialized [Response] back. Every exchange closes the connection afterwards, there
// is no keep-alive, pipelining or chunked encoding.
//
// A minimal example:
//
//	mux := rhttp.NewServeMux()
//	mux.HandleFunc("/", func(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
//	    fmt.Fprintf(w, "hello")
//	    return nil
//	})
//
//	eng := rhttp.NewEngine(mux, rhttp.NewStdLogger(nil), rhttp.EngineConfig{})
//	conn := eng.Open(transport)       // on accept
//	eng.DispatchBytes(conn, data)     // on every read
//	eng.Hangup(conn, err)             // when the transport reports the connection gone
//
// The rapp package provides a complete server around the engine.
//
// # Parsing
//
// [Parser.Feed] is always given the whole accumulated input and continues where it
// stopped, so splitting a request over any number of deliveries gives the same result as
// delivering it at once. It recognizes
//
//	request-line := METHOD SP PATH SP "HTTP/" MAJOR "." MINOR CRLF
//	headers      := (NAME ":" VALUE CRLF)* CRLF
//
// for the methods GET, POST and PUT. Anything else is rejected with a [*MalformedError]
// whose [Reason] tells why. A method token that cannot become a supported method is
// rejected at the first offending byte. The request line and headers are bounded by
// MaxHeaderBytes (8 KiB by default), the body by MaxBodyBytes. With a Content-Length
// header the parser waits for that many body bytes, otherwise the bytes that arrived
// with the header block form the body.
//
// # Responses
//
// Handlers populate a [Response] and pick its status, 400 or 404 included. Returning an
// error, or panicking, discards everything the handler wrote and answers with a 500.
//
// [Prepare] sets Content-Type to text/html and Content-Length from the status and body and can be
// called any number of times. Error statuses (400 and 500) always go out with an empty
// body. [Serialize] renders the status line, the headers in the order they were added, a
// blank line and the body.
//
// # Connections
//
// A [Conn] moves through [StateReading], [StateDispatching], [StateWriting] and
// [StateClosed]. The engine's [Registry] owns every live connection and releases it
// exactly once. Entry points called for a closed connection are ignored, which makes late
// transport callbacks harmless. [Engine.Sweep] closes connections that stalled in
// reading or writing for longer than the configured timeouts.
package rhttp
