package rhttp

import (
	"bytes"
	"strconv"

	"golang.org/x/net/http/httpguts"
)

const (
	// DefaultMaxHeaderBytes bounds the request line plus the header block.
	DefaultMaxHeaderBytes = 8 << 10
	// DefaultMaxBodyBytes bounds the request body.
	DefaultMaxBodyBytes = 1 << 20

	protoPrefix      = "HTTP/"
	maxVersionDigits = 3
)

// Result is the outcome of a single [Parser.Feed] call.
type Result int

const (
	NeedMoreData Result = iota
	Complete
	Malformed
)

func (r Result) String() string {
	switch r {
	case NeedMoreData:
		return "need more data"
	case Complete:
		return "complete"
	default:
		return "malformed"
	}
}

type parserState int

const (
	stateStart parserState = iota
	stateMethod
	statePath
	stateProto
	stateMajor
	stateMinor
	stateRequestLineLF
	stateHeaders
	stateBody
	stateDone
	stateError
)

// Parser incrementally parses a single request. It is fed the whole accumulated input
// every time and resumes at the position it reached on the previous call, so the
// outcome does not depend on how the input was split across deliveries.
type Parser struct {
	MaxHeaderBytes int
	MaxBodyBytes   int

	state     parserState
	pos       int // next byte to look at
	mark      int // start of the token being scanned
	scan      int // where to continue looking for the end of a header line
	bodyStart int
	bodyLen   int // -1 without Content-Length
	req       Request
	err       error
}

// NewParser inits a parser. Non-positive limits select the defaults.
func NewParser(maxHeaderBytes, maxBodyBytes int) *Parser {
	return &Parser{MaxHeaderBytes: maxHeaderBytes, MaxBodyBytes: maxBodyBytes}
}

// Reset prepares the parser for a new request stream, keeping its limits.
func (p *Parser) Reset() {
	*p = Parser{MaxHeaderBytes: p.MaxHeaderBytes, MaxBodyBytes: p.MaxBodyBytes}
}

// Feed continues parsing buf, which must start with everything fed before. Once the
// parser returned Complete or Malformed, further calls return the same outcome.
func (p *Parser) Feed(buf []byte) (Result, *Request, error) {
	switch p.state {
	case stateDone:
		return Complete, &p.req, nil
	case stateError:
		return Malformed, nil, p.err
	}

	if err := p.run(buf); err != nil {
		p.state, p.err = stateError, err
		return Malformed, nil, err
	}

	if p.state == stateDone {
		return Complete, &p.req, nil
	}

	return NeedMoreData, nil, nil
}

func (p *Parser) maxHeader() int {
	if p.MaxHeaderBytes <= 0 {
		return DefaultMaxHeaderBytes
	}

	return p.MaxHeaderBytes
}

func (p *Parser) maxBody() int {
	if p.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}

	return p.MaxBodyBytes
}

func (p *Parser) run(buf []byte) error {
	for {
		if p.state < stateBody && p.pos > p.maxHeader() {
			return malformed(ReasonTooLarge, p.pos, "request head exceeds %d bytes", p.maxHeader())
		}

		switch p.state {
		case stateStart:
			p.mark = p.pos
			p.state = stateMethod

		case stateMethod:
			if p.pos >= len(buf) {
				return p.needMore(buf)
			}

			if buf[p.pos] == ' ' {
				m, ok := lookupMethod(buf[p.mark:p.pos])
				if !ok {
					return malformed(ReasonUnsupportedMethod, p.mark, "method %q", buf[p.mark:p.pos])
				}

				p.req.Method = m
				p.pos++
				p.mark = p.pos
				p.state = statePath
				continue
			}

			if !isMethodPrefix(buf[p.mark : p.pos+1]) {
				return malformed(ReasonUnsupportedMethod, p.mark, "method token %q", buf[p.mark:p.pos+1])
			}

			p.pos++

		case statePath:
			i := bytes.IndexAny(buf[p.pos:], " \r\n")
			if i < 0 {
				p.pos = len(buf)
				return p.needMore(buf)
			}

			p.pos += i
			if buf[p.pos] != ' ' {
				return malformed(ReasonBadRequestLine, p.pos, "line break inside request line")
			}

			if p.pos == p.mark {
				return malformed(ReasonBadRequestLine, p.pos, "empty path")
			}

			p.req.Path = string(buf[p.mark:p.pos])
			p.pos++
			p.mark = p.pos
			p.state = stateProto

		case stateProto:
			for p.pos-p.mark < len(protoPrefix) {
				if p.pos >= len(buf) {
					return p.needMore(buf)
				}

				if buf[p.pos] != protoPrefix[p.pos-p.mark] {
					return malformed(ReasonBadVersion, p.pos, "expected %q", protoPrefix)
				}

				p.pos++
			}

			p.mark = p.pos
			p.state = stateMajor

		case stateMajor:
			n, done, err := p.number(buf, '.')
			if err != nil || !done {
				return p.orNeedMore(buf, err)
			}

			p.req.Major = n
			p.mark = p.pos
			p.state = stateMinor

		case stateMinor:
			n, done, err := p.number(buf, '\r')
			if err != nil || !done {
				return p.orNeedMore(buf, err)
			}

			p.req.Minor = n
			p.state = stateRequestLineLF

		case stateRequestLineLF:
			if p.pos >= len(buf) {
				return p.needMore(buf)
			}

			if buf[p.pos] != '\n' {
				return malformed(ReasonBadRequestLine, p.pos, "request line not terminated by CRLF")
			}

			p.pos++
			p.scan = p.pos
			p.state = stateHeaders

		case stateHeaders:
			i := bytes.IndexByte(buf[p.scan:], '\n')
			if i < 0 {
				p.scan = len(buf)
				return p.needMore(buf)
			}

			end := p.scan + i
			if end+1 > p.maxHeader() {
				return malformed(ReasonTooLarge, end, "request head exceeds %d bytes", p.maxHeader())
			}

			if end == p.pos || buf[end-1] != '\r' {
				return malformed(ReasonBadHeader, end, "header line not terminated by CRLF")
			}

			line := buf[p.pos : end-1]
			start := p.pos
			p.pos, p.scan = end+1, end+1

			if len(line) == 0 {
				if err := p.beginBody(); err != nil {
					return err
				}

				continue
			}

			if err := p.header(line, start); err != nil {
				return err
			}

		case stateBody:
			avail := len(buf) - p.bodyStart
			if p.bodyLen < 0 {
				if avail > p.maxBody() {
					return malformed(ReasonTooLarge, p.bodyStart, "body exceeds %d bytes", p.maxBody())
				}

				p.req.Body = cloneBytes(buf[p.bodyStart:])
				p.pos = len(buf)
				p.state = stateDone

				return nil
			}

			if avail < p.bodyLen {
				return nil
			}

			p.req.Body = cloneBytes(buf[p.bodyStart : p.bodyStart+p.bodyLen])
			p.pos = p.bodyStart + p.bodyLen
			p.state = stateDone

			return nil

		default:
			return nil
		}
	}
}

// number scans a version component that started at p.mark up to the terminator.
func (p *Parser) number(buf []byte, term byte) (n int, done bool, err error) {
	for ; p.pos < len(buf); p.pos++ {
		c := buf[p.pos]
		if c == term {
			if p.pos == p.mark {
				return 0, false, malformed(ReasonBadVersion, p.pos, "empty version number")
			}

			n, _ = strconv.Atoi(string(buf[p.mark:p.pos]))
			p.pos++

			return n, true, nil
		}

		if c < '0' || c > '9' {
			return 0, false, malformed(ReasonBadVersion, p.pos, "non-numeric version character %q", c)
		}

		if p.pos-p.mark >= maxVersionDigits {
			return 0, false, malformed(ReasonBadVersion, p.pos, "version number longer than %d digits", maxVersionDigits)
		}
	}

	return 0, false, nil
}

func (p *Parser) header(line []byte, offset int) error {
	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return malformed(ReasonBadHeader, offset, "missing ':' in header line")
	}

	name := string(line[:colon])
	if !httpguts.ValidHeaderFieldName(name) {
		return malformed(ReasonBadHeader, offset, "invalid header name %q", name)
	}

	value := string(bytes.Trim(line[colon+1:], " \t"))
	if !httpguts.ValidHeaderFieldValue(value) {
		return malformed(ReasonBadHeader, offset+colon+1, "invalid value for header %q", name)
	}

	p.req.Header.Add(name, value)

	return nil
}

func (p *Parser) beginBody() error {
	p.bodyStart = p.pos
	p.bodyLen = -1
	p.state = stateBody

	vals := p.req.Header.Values("Content-Length")
	if len(vals) == 0 {
		return nil
	}

	for _, v := range vals[1:] {
		if v != vals[0] {
			return malformed(ReasonBadHeader, p.pos, "conflicting Content-Length values")
		}
	}

	n, err := strconv.ParseUint(vals[0], 10, 63)
	if err != nil {
		return malformed(ReasonBadHeader, p.pos, "invalid Content-Length %q", vals[0])
	}

	if n > uint64(p.maxBody()) {
		return malformed(ReasonTooLarge, p.pos, "Content-Length %d exceeds %d bytes", n, p.maxBody())
	}

	p.bodyLen = int(n)

	return nil
}

func (p *Parser) orNeedMore(buf []byte, err error) error {
	if err != nil {
		return err
	}

	return p.needMore(buf)
}

// needMore is returned while the head is incomplete. The whole buffer is part of the
// head at this point, so it must respect the head limit.
func (p *Parser) needMore(buf []byte) error {
	if len(buf) > p.maxHeader() {
		return malformed(ReasonTooLarge, p.maxHeader(), "request head exceeds %d bytes", p.maxHeader())
	}

	return nil
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}

	return append([]byte(nil), b...)
}
