package rapp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/advdv/rhttp"
	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

const tracingInitTimeout = 5 * time.Second

const tracerName = "github.com/advdv/rhttp/rapp"

// NewTracerProvider creates and configures the OpenTelemetry TracerProvider.
// Supported exporters via RHTTP_OTEL_EXPORTER: "stdout" (default), "xrayudp" and
// "none", the latter disables tracing altogether.
// Shutdown is handled automatically via fx.Lifecycle.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	exporterType := env.otelExporter()
	if exporterType == "none" {
		return noop.NewTracerProvider(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), tracingInitTimeout)
	defer cancel()

	exporter, err := newExporter(ctx, exporterType)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(newResource(env.serviceName())),
	}
	if exporterType == "xrayudp" {
		opts = append(opts, sdktrace.WithIDGenerator(xray.NewIDGenerator()))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

// NewPropagator creates a TextMapPropagator based on the exporter type.
// For xrayudp: uses the X-Ray propagator.
// For stdout/default: uses W3C TraceContext + Baggage composite propagator.
func NewPropagator(env Environment) propagation.TextMapPropagator {
	if env.otelExporter() == "xrayudp" {
		return xray.Propagator{}
	}
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// newExporter creates a span exporter based on the exporter type.
func newExporter(ctx context.Context, exporterType string) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "stdout", "":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "xrayudp":
		return xrayudp.NewSpanExporter(ctx)
	default:
		return nil, fmt.Errorf("unsupported RHTTP_OTEL_EXPORTER: %q (supported: stdout, xrayudp, none)", exporterType)
	}
}

func newResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)
}

// HeaderCarrier adapts headers for use with a TextMapPropagator.
type HeaderCarrier struct{ *rhttp.Header }

func (c HeaderCarrier) Get(key string) string { return c.Header.Get(key) }

func (c HeaderCarrier) Set(key, value string) { c.Header.Set(key, value) }

func (c HeaderCarrier) Keys() []string { return c.Header.Names() }

var _ propagation.TextMapCarrier = HeaderCarrier{}

// withTracing starts a server span for every routed request, continuing the trace
// found in the request headers. The TracerProvider and Propagator are explicitly
// injected to avoid global state.
func withTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) rhttp.Middleware {
	tracer := tp.Tracer(tracerName)

	return func(next rhttp.Handler) rhttp.Handler {
		return rhttp.HandlerFunc(func(ctx context.Context, w *rhttp.Response, r *rhttp.Request) error {
			ctx = prop.Extract(ctx, HeaderCarrier{&r.Header})
			ctx, span := tracer.Start(ctx, r.Method.String()+" "+r.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method.String()),
					semconv.URLPath(r.Path),
					semconv.ClientAddress(r.RemoteAddr),
					semconv.NetworkProtocolVersion(strconv.Itoa(r.Major)+"."+strconv.Itoa(r.Minor)),
				))
			defer span.End()

			err := next.ServeRHTTP(ctx, w, r)

			status := w.Status
			if err != nil {
				status = rhttp.StatusServerError
				span.RecordError(err)
			}

			span.SetAttributes(semconv.HTTPResponseStatusCode(status.Code()))
			if status.Code() >= 500 {
				span.SetStatus(codes.Error, status.String())
			}

			return err
		})
	}
}
