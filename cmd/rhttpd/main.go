// Command rhttpd serves a greeting page and a greeting endpoint that reads a JSON body.
package main

import (
	"github.com/advdv/rhttp/rapp"
	"go.uber.org/fx"
)

// Env configures rhttpd on top of the base server variables.
type Env struct {
	rapp.BaseEnvironment
	Greeting string `env:"RHTTPD_GREETING" envDefault:"Hello"`
}

func main() {
	rapp.NewApp[Env](routing, rapp.WithFx(fx.Provide(NewHandlers))).Run()
}

func routing(m *rapp.Mux, h *Handlers) {
	m.HandleFunc("/", h.Index)
	m.HandleFunc("/greet", h.Greet)
}
