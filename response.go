package rhttp

// Status is the outcome of handling a request. It maps onto a fixed set of HTTP/1.0
// status lines.
type Status int

const (
	StatusGood Status = iota
	StatusBadRequest
	StatusNotFound
	StatusServerError
)

// Code returns the numeric HTTP status code. Unknown values map to 500.
func (s Status) Code() int {
	switch s {
	case StatusGood:
		return 200
	case StatusBadRequest:
		return 400
	case StatusNotFound:
		return 404
	default:
		return 500
	}
}

func (s Status) String() string {
	switch s {
	case StatusGood:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	default:
		return "Internal Server Error"
	}
}

// Response is populated by handlers and serialized by [Serialize]. The header stays
// mutable until the response is serialized.
type Response struct {
	Status Status
	Header Header
	Body   []byte
}

// Write appends p to the body so handlers can use fmt.Fprintf and friends.
func (r *Response) Write(p []byte) (int, error) {
	r.Body = append(r.Body, p...)
	return len(p), nil
}

// WriteString appends s to the body.
func (r *Response) WriteString(s string) (int, error) {
	r.Body = append(r.Body, s...)
	return len(s), nil
}

// Reset discards everything the handler produced so far: headers, body and status.
func (r *Response) Reset() {
	r.Status = StatusGood
	r.Header = r.Header[:0]
	r.Body = r.Body[:0]
}
