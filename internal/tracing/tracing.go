// Package tracing configures the OpenTelemetry tracer provider used around
// submit attempts.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter names.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active. When false a no-op tracer
	// is returned.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Exporter selects the export backend: "none" or "stdout".
	Exporter string `mapstructure:"exporter" yaml:"exporter"`
	// SampleRate is the fraction of root spans sampled.
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	// ServiceName identifies this service in traces.
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// DefaultConfig returns tracing disabled with stdout export ready to enable.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		Exporter:    ExporterStdout,
		SampleRate:  1.0,
		ServiceName: "regform",
	}
}

// Provider wraps the tracer provider so callers can get a tracer and shut
// down cleanly.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// Option customises NewProvider.
type Option func(*providerOptions)

type providerOptions struct {
	out       io.Writer
	processor sdktrace.SpanProcessor
}

// WithWriter redirects the stdout exporter.
func WithWriter(w io.Writer) Option {
	return func(o *providerOptions) {
		o.out = w
	}
}

// WithSpanProcessor registers an extra processor, such as a span recorder in
// tests.
func WithSpanProcessor(p sdktrace.SpanProcessor) Option {
	return func(o *providerOptions) {
		o.processor = p
	}
}

// NewProvider creates the trace provider. A disabled config yields a no-op
// tracer and leaves the global provider untouched.
func NewProvider(cfg Config, opts ...Option) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("noop")}, nil
	}

	options := providerOptions{out: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(options.out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("tracing: create stdout exporter: %w", err)
		}
		exporter = exp
	case ExporterNone, "":
	default:
		return nil, fmt.Errorf("tracing: unsupported exporter %q", cfg.Exporter)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultConfig().ServiceName
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
	}
	if exporter != nil {
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
	}
	if options.processor != nil {
		providerOpts = append(providerOpts, sdktrace.WithSpanProcessor(options.processor))
	}

	provider := sdktrace.NewTracerProvider(providerOpts...)
	otel.SetTracerProvider(provider)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
	}, nil
}

// Tracer returns the configured tracer. It is safe to use when tracing is
// disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
