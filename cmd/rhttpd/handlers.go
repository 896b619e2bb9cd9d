package main

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/advdv/rhttp"
	"github.com/advdv/rhttp/rapp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	indexPage     = `<html><head><title>%[1]s</title></head><body><h1>%[1]s, World!</h1></body></html>`
	greetFragment = `<p class="greeting">%s</p>`
)

// Handlers serves the rhttpd routes.
type Handlers struct {
	rt *rapp.Runtime[Env]
}

func NewHandlers(rt *rapp.Runtime[Env]) *Handlers {
	return &Handlers{rt: rt}
}

// Index serves the static greeting page.
func (h *Handlers) Index(_ context.Context, w *rhttp.Response, _ *rhttp.Request) error {
	fmt.Fprintf(w, indexPage, html.EscapeString(h.rt.Env().Greeting))
	return nil
}

// Greet reads {"name": "..."} from a POST or PUT body and answers with a greeting
// fragment. Requests it cannot use are answered with a 400.
func (h *Handlers) Greet(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
	name, reason := greetName(r)
	if reason != "" {
		rapp.Log(ctx).Info("rejected greeting", zap.String("reason", reason))
		w.Status = rhttp.StatusBadRequest
		return nil
	}

	rapp.Log(ctx).Info("greeting", zap.String("name", name))

	fmt.Fprintf(w, greetFragment, html.EscapeString(h.rt.Env().Greeting+", "+name+"!"))
	return nil
}

func greetName(r *rhttp.Request) (name, reason string) {
	switch {
	case r.Method == rhttp.MethodGET:
		return "", "greet expects a body"
	case !gjson.ValidBytes(r.Body):
		return "", fmt.Sprintf("invalid json body of %d bytes", len(r.Body))
	}

	name = strings.TrimSpace(gjson.GetBytes(r.Body, "name").String())
	if name == "" {
		return "", "missing name"
	}

	return name, ""
}
