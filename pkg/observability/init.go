package observability

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracingConfig configures the SDK tracer provider installed by InitTracing.
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	// SamplingRate is the fraction of traces kept, 0 keeps none and values
	// of 1 or more keep all.
	SamplingRate float64
	// Writer receives the exported spans; nil means stdout.
	Writer       io.Writer
	PrettyPrint  bool
	BatchTimeout time.Duration
}

// DefaultTracingConfig returns a config that samples everything.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:    "tablebridge",
		ServiceVersion: "dev",
		SamplingRate:   1,
		BatchTimeout:   5 * time.Second,
	}
}

// InitTracing installs an SDK tracer provider with a stdout exporter as the
// global provider. The returned function flushes and shuts it down.
func InitTracing(config TracingConfig) (func(context.Context) error, error) {
	var opts []stdouttrace.Option
	if config.Writer != nil {
		opts = append(opts, stdouttrace.WithWriter(config.Writer))
	}
	if config.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", config.ServiceName),
		attribute.String("service.version", config.ServiceVersion),
	)

	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(config.SamplingRate)),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown tracer: %w", err)
		}
		return nil
	}, nil
}

func samplerFor(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0:
		return sdktrace.NeverSample()
	case rate >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}
