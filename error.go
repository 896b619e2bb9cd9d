package rhttp

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Reason classifies why a request was rejected by the parser.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnsupportedMethod
	ReasonBadRequestLine
	ReasonBadVersion
	ReasonBadHeader
	ReasonTooLarge
)

func (r Reason) String() string {
	switch r {
	case ReasonUnsupportedMethod:
		return "unsupported method"
	case ReasonBadRequestLine:
		return "bad request line"
	case ReasonBadVersion:
		return "bad version"
	case ReasonBadHeader:
		return "bad header"
	case ReasonTooLarge:
		return "too large"
	default:
		return "none"
	}
}

// ErrMalformed is matched by every error the parser returns.
var ErrMalformed = errors.New("rhttp: malformed request")

// MalformedError is returned by the parser when the input cannot be a valid request.
type MalformedError struct {
	Reason Reason
	Offset int
	Detail string
}

func malformed(r Reason, offset int, format string, args ...any) *MalformedError {
	return &MalformedError{Reason: r, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("rhttp: malformed request: %s at offset %d: %s", e.Reason, e.Offset, e.Detail)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// ReasonOf returns the reason of a parser error, or [ReasonNone] if err did not come
// from the parser.
func ReasonOf(err error) Reason {
	var merr *MalformedError
	if errors.As(err, &merr) {
		return merr.Reason
	}

	return ReasonNone
}
