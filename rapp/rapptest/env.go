package rapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [rapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [rapp.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - RHTTP_SERVICE_NAME: "test"
//   - RHTTP_BIND_ADDRESS: "127.0.0.1"
//   - RHTTP_LOG_LEVEL: "error"
//   - RHTTP_OTEL_EXPORTER: "none"
//   - RHTTP_READ_TIMEOUT: "5s"
//   - RHTTP_WRITE_TIMEOUT: "5s"
//   - RHTTP_SWEEP_INTERVAL: "100ms"
//
// Use the returned [Env] to override individual values:
//
//	rapptest.SetBaseEnv(t, 18085).ReadTimeout("200ms").MaxHeaderBytes(64)
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("RHTTP_PORT", strconv.Itoa(port))
	t.Setenv("RHTTP_SERVICE_NAME", "test")
	t.Setenv("RHTTP_BIND_ADDRESS", "127.0.0.1")
	t.Setenv("RHTTP_LOG_LEVEL", "error")
	t.Setenv("RHTTP_OTEL_EXPORTER", "none")
	t.Setenv("RHTTP_READ_TIMEOUT", "5s")
	t.Setenv("RHTTP_WRITE_TIMEOUT", "5s")
	t.Setenv("RHTTP_SWEEP_INTERVAL", "100ms")
	return &Env{t: t}
}

// ServiceName overrides RHTTP_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("RHTTP_SERVICE_NAME", name)
	return e
}

// OtelExporter overrides RHTTP_OTEL_EXPORTER.
func (e *Env) OtelExporter(exp string) *Env {
	e.t.Helper()
	e.t.Setenv("RHTTP_OTEL_EXPORTER", exp)
	return e
}

// ReadTimeout overrides RHTTP_READ_TIMEOUT.
func (e *Env) ReadTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("RHTTP_READ_TIMEOUT", d)
	return e
}

// WriteTimeout overrides RHTTP_WRITE_TIMEOUT.
func (e *Env) WriteTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("RHTTP_WRITE_TIMEOUT", d)
	return e
}

// MaxHeaderBytes overrides RHTTP_MAX_HEADER_BYTES.
func (e *Env) MaxHeaderBytes(n int) *Env {
	e.t.Helper()
	e.t.Setenv("RHTTP_MAX_HEADER_BYTES", strconv.Itoa(n))
	return e
}

// MaxBodyBytes overrides RHTTP_MAX_BODY_BYTES.
func (e *Env) MaxBodyBytes(n int) *Env {
	e.t.Helper()
	e.t.Setenv("RHTTP_MAX_BODY_BYTES", strconv.Itoa(n))
	return e
}
