// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	DefaultServiceName = "polls"
	defaultInterval    = 15 * time.Second
)

// Config selects where metrics go. An empty OTLPEndpoint disables export.
type Config struct {
	ServiceName  string
	OTLPEndpoint string // host:port of an OTLP/gRPC collector
	Insecure     bool
	Interval     time.Duration
}

// ShutdownFunc flushes pending metrics and stops the exporter.
type ShutdownFunc func(context.Context) error

// Setup installs a global MeterProvider that pushes to the configured
// collector on a fixed interval. Without an endpoint the global no-op
// provider stays in place.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.OTLPEndpoint == "" {
		slog.Info("Metrics export disabled")
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	mp := NewMeterProvider(cfg.ServiceName, sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(interval),
	))
	otel.SetMeterProvider(mp)

	slog.Info("Exporting metrics", "endpoint", cfg.OTLPEndpoint, "interval", interval)
	return mp.Shutdown, nil
}

// NewMeterProvider builds an SDK provider tagged with the service name
// that feeds the given reader.
func NewMeterProvider(serviceName string, reader sdkmetric.Reader) *sdkmetric.MeterProvider {
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(resource.NewSchemaless(semconv.ServiceName(serviceName))),
		sdkmetric.WithReader(reader),
	)
}
