package rhttp

// Method is one of the request methods the server understands.
type Method int

const (
	MethodGET Method = iota + 1
	MethodPOST
	MethodPUT
)

var methodTokens = [...]string{
	MethodGET:  "GET",
	MethodPOST: "POST",
	MethodPUT:  "PUT",
}

func (m Method) String() string {
	if m < MethodGET || m > MethodPUT {
		return "UNKNOWN"
	}

	return methodTokens[m]
}

// lookupMethod resolves a method token. Matching is case-sensitive.
func lookupMethod(tok []byte) (Method, bool) {
	for m := MethodGET; m <= MethodPUT; m++ {
		if string(tok) == methodTokens[m] {
			return m, true
		}
	}

	return 0, false
}

// isMethodPrefix reports whether tok could still grow into a supported method token.
func isMethodPrefix(tok []byte) bool {
	for m := MethodGET; m <= MethodPUT; m++ {
		name := methodTokens[m]
		if len(tok) <= len(name) && name[:len(tok)] == string(tok) {
			return true
		}
	}

	return false
}

// Request is a fully parsed request. A Request always carries one of the supported
// methods; anything else is rejected while parsing.
type Request struct {
	Method Method
	Path   string
	Major  int
	Minor  int
	Header Header
	Body   []byte

	// RemoteAddr is filled in by the engine from the transport, it is empty when the
	// transport does not report one.
	RemoteAddr string
}
