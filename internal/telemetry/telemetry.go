// Package telemetry wires OpenTelemetry tracing for the orbitsim binary.
package telemetry

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Settings are read from ORBITSIM_OTEL_* environment variables.
type Settings struct {
	Endpoint    string  `env:"OTEL_ENDPOINT"`
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Prefix: "ORBITSIM_"}); err != nil {
		return s, fmt.Errorf("telemetry settings: %w", err)
	}
	if s.SampleRatio < 0 || s.SampleRatio > 1 {
		return s, fmt.Errorf("telemetry settings: sample ratio %v outside [0, 1]", s.SampleRatio)
	}
	return s, nil
}

// Setup installs a global tracer provider exporting to ORBITSIM_OTEL_ENDPOINT.
//
// Tracing is opt-in: with no endpoint, or ORBITSIM_OTEL_ENABLED=false, the
// global provider is left alone and the returned shutdown does nothing.
// Callers should defer the shutdown so pending spans are flushed.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	s, err := LoadSettings()
	if err != nil {
		return noop, err
	}
	if !s.Enabled || s.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(s.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
