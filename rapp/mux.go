package rapp

import "github.com/advdv/rhttp"

// Mux is an alias for rhttp.ServeMux.
type Mux = rhttp.ServeMux

// NewMux creates a new, empty Mux.
func NewMux() *Mux {
	return rhttp.NewServeMux()
}
