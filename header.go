package rhttp

import "strings"

// Field is a single header line. Name keeps the case it was received or set with.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered list of header fields. Duplicate names are permitted and lookups
// are case-insensitive.
type Header []Field

// Add appends a field, keeping any existing fields with the same name.
func (h *Header) Add(name, value string) {
	*h = append(*h, Field{Name: name, Value: value})
}

// Set replaces the first field named 'name' in place and removes any later duplicates. If
// no such field exists it is appended. Calling Set repeatedly never grows the header.
func (h *Header) Set(name, value string) {
	idx := -1
	out := (*h)[:0]
	for _, f := range *h {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
			continue
		}

		if idx >= 0 {
			continue
		}

		idx = len(out)
		out = append(out, Field{Name: f.Name, Value: value})
	}

	if idx < 0 {
		out = append(out, Field{Name: name, Value: value})
	}

	*h = out
}

// Get returns the value of the first field named 'name', or an empty string.
func (h Header) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}

	return ""
}

// Has reports whether at least one field named 'name' is present.
func (h Header) Has(name string) bool {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}

	return false
}

// Values returns all values for 'name' in the order they were added.
func (h Header) Values(name string) []string {
	var vals []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			vals = append(vals, f.Value)
		}
	}

	return vals
}

// Del removes every field named 'name'.
func (h *Header) Del(name string) {
	out := (*h)[:0]
	for _, f := range *h {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}

	*h = out
}

// Len returns the number of fields.
func (h Header) Len() int { return len(h) }

// Clone returns a copy that shares no backing array with h.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}

	return append(Header(nil), h...)
}

// Names returns the field names in order, including duplicates.
func (h Header) Names() []string {
	names := make([]string, 0, len(h))
	for _, f := range h {
		names = append(names, f.Name)
	}

	return names
}
