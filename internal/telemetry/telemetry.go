// Package telemetry configures OpenTelemetry tracing. Without an OTLP endpoint every tracer is a no-op.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/latentecho/backdrop/common"
)

// DefaultServiceName is used when no service name is configured.
const DefaultServiceName = "backdrop"

// Provider owns the process tracer provider.
type Provider struct {
	sdk      *sdktrace.TracerProvider
	provider oteltrace.TracerProvider
}

// Setup installs a tracer provider exporting to endpoint over OTLP/HTTP and registers it globally.
// An empty endpoint installs nothing and returns a no-op provider.
//
// Parameters:
//   - ctx: context for exporter construction
//   - endpoint: host:port of the OTLP collector
//   - serviceName: the service.name resource attribute
//
// Returns:
//   - *Provider: the provider
//   - error: if the exporter cannot be created
func Setup(ctx context.Context, endpoint, serviceName string) (*Provider, error) {
	if endpoint == "" {
		return &Provider{provider: noop.NewTracerProvider()}, nil
	}
	serviceName = common.Coalesce(serviceName, DefaultServiceName)

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
	return NewProvider(sdktrace.WithBatcher(exporter), sdktrace.WithResource(res)), nil
}

// NewProvider builds an SDK provider from options and registers it globally.
func NewProvider(opts ...sdktrace.TracerProviderOption) *Provider {
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return &Provider{sdk: tp, provider: tp}
}

// Tracer returns a named tracer.
func (p *Provider) Tracer(name string) oteltrace.Tracer {
	return p.provider.Tracer(name)
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.sdk != nil
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	if err := p.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down tracer provider: %w", err)
	}
	return nil
}
