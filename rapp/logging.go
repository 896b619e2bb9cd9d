package rapp

import (
	"github.com/advdv/rhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding with an ISO8601 "timestamp" key.
// RHTTP_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogHandlerError(err error) {
	l.Logger.Error("handler error", zap.Error(err))
}

func (l zapLogger) LogMalformedRequest(err error) {
	l.Logger.Info("malformed request",
		zap.Stringer("reason", rhttp.ReasonOf(err)),
		zap.Error(err))
}

func (l zapLogger) LogReadError(err error) {
	l.Logger.Warn("error while reading", zap.Error(err))
}

func (l zapLogger) LogWriteError(err error) {
	l.Logger.Error("error while writing", zap.Error(err))
}

func (l zapLogger) LogAccess(a rhttp.Access) {
	l.Logger.Info("access",
		zap.Uint64("conn_id", a.ConnID),
		zap.String("remote_addr", a.RemoteAddr),
		zap.Stringer("method", a.Method),
		zap.String("path", a.Path),
		zap.Int("status", a.Status.Code()),
		zap.Int("bytes", a.Bytes))
}

// NewRHTTPLogger adapts a zap logger to the logging interface of the engine.
func NewRHTTPLogger(l *zap.Logger) rhttp.Logger {
	return zapLogger{l.Named("rhttp").Named("rapp")}
}
