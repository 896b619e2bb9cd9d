package rapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	bindAddress() string
	logLevel() zapcore.Level
	otelExporter() string
	maxHeaderBytes() int
	maxBodyBytes() int
	timeouts() TimeoutConfig
	reusePort() bool
}

// BaseEnvironment contains the environment variables every server needs.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port           int           `env:"RHTTP_PORT,required"`
	ServiceName    string        `env:"RHTTP_SERVICE_NAME,required"`
	BindAddress    string        `env:"RHTTP_BIND_ADDRESS" envDefault:"127.0.0.1"`
	LogLevel       zapcore.Level `env:"RHTTP_LOG_LEVEL" envDefault:"info"`
	OtelExporter   string        `env:"RHTTP_OTEL_EXPORTER" envDefault:"stdout"`
	MaxHeaderBytes int           `env:"RHTTP_MAX_HEADER_BYTES" envDefault:"8192"`
	MaxBodyBytes   int           `env:"RHTTP_MAX_BODY_BYTES" envDefault:"1048576"`
	ReadTimeout    time.Duration `env:"RHTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout   time.Duration `env:"RHTTP_WRITE_TIMEOUT" envDefault:"10s"`
	SweepInterval  time.Duration `env:"RHTTP_SWEEP_INTERVAL" envDefault:"1s"`
	// ReusePort lets several processes bind the same port, the kernel balances
	// accepted connections between them.
	ReusePort bool `env:"RHTTP_REUSE_PORT" envDefault:"false"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) bindAddress() string {
	return e.BindAddress
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) maxHeaderBytes() int {
	return e.MaxHeaderBytes
}

func (e BaseEnvironment) maxBodyBytes() int {
	return e.MaxBodyBytes
}

func (e BaseEnvironment) timeouts() TimeoutConfig {
	return TimeoutConfig{
		ReadTimeout:   e.ReadTimeout,
		WriteTimeout:  e.WriteTimeout,
		SweepInterval: e.SweepInterval,
	}
}

func (e BaseEnvironment) reusePort() bool {
	return e.ReusePort
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
