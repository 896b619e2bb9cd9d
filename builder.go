package rhttp

import "strconv"

const (
	crlf = "\r\n"

	defaultContentType = "text/html"
)

var statusLines = map[Status]string{
	StatusGood:        "HTTP/1.0 200 OK",
	StatusBadRequest:  "HTTP/1.0 400 Bad Request",
	StatusNotFound:    "HTTP/1.0 404 Not Found",
	StatusServerError: "HTTP/1.0 500 Internal Server Error",
}

// StatusLine returns the status line for s, without the trailing CRLF. Unknown
// statuses render as a 500.
func StatusLine(s Status) string {
	if line, ok := statusLines[s]; ok {
		return line
	}

	return statusLines[StatusServerError]
}

// Prepare computes the framing headers of r from its status and body. It is
// idempotent: the headers are (re)set, never appended, so calling it again yields the
// same result. Every response is sent as text/html and error statuses always go out
// with an empty body.
func Prepare(r *Response) {
	switch r.Status {
	case StatusGood, StatusNotFound:
	default:
		r.Body = r.Body[:0]
	}

	r.Header.Set("Content-Type", defaultContentType)
	r.Header.Set("Content-Length", strconv.Itoa(len(r.Body)))
}

// Serialize renders r into the chunks that go onto the wire, in order: status line,
// one chunk per header, the blank line and finally the body (omitted when empty).
// Call [Prepare] first. The body chunk aliases r.Body.
func Serialize(r *Response) [][]byte {
	chunks := make([][]byte, 0, len(r.Header)+3)
	chunks = append(chunks, []byte(StatusLine(r.Status)+crlf))

	for _, f := range r.Header {
		line := make([]byte, 0, len(f.Name)+len(f.Value)+4)
		line = append(line, f.Name...)
		line = append(line, ": "...)
		line = append(line, f.Value...)
		line = append(line, crlf...)
		chunks = append(chunks, line)
	}

	chunks = append(chunks, []byte(crlf))
	if len(r.Body) > 0 {
		chunks = append(chunks, r.Body)
	}

	return chunks
}

// Size returns the total number of bytes across chunks.
func Size(chunks [][]byte) (n int) {
	for _, c := range chunks {
		n += len(c)
	}

	return n
}
