package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "mfunnel"
	serviceVersion = "1.0.0"
)

// Exporter exports funnel activity metrics to an OTEL Collector.
type Exporter struct {
	provider           *sdkmetric.MeterProvider
	stepsTotal         metric.Int64Counter
	registrationsTotal metric.Int64Counter
	realizationsTotal  metric.Int64Counter
	hypothesesTotal    metric.Int64Counter
	queriesTotal       metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	e, err := newExporter(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	return e, nil
}

// newExporter registers the funnel instruments on provider.
func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	stepsTotal, err := meter.Int64Counter(
		"mfunnel_steps_created_total",
		metric.WithDescription("Funnel steps created"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating steps counter: %w", err)
	}

	registrationsTotal, err := meter.Int64Counter(
		"mfunnel_registrations_total",
		metric.WithDescription("Registrations recorded"),
		metric.WithUnit("{registration}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registrations counter: %w", err)
	}

	realizationsTotal, err := meter.Int64Counter(
		"mfunnel_realizations_total",
		metric.WithDescription("Realizations recorded across all registrations"),
		metric.WithUnit("{realization}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating realizations counter: %w", err)
	}

	hypothesesTotal, err := meter.Int64Counter(
		"mfunnel_hypotheses_total",
		metric.WithDescription("Hypotheses recorded"),
		metric.WithUnit("{hypothesis}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hypotheses counter: %w", err)
	}

	queriesTotal, err := meter.Int64Counter(
		"mfunnel_queries_total",
		metric.WithDescription("Funnel reads served"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queries counter: %w", err)
	}

	return &Exporter{
		provider:           provider,
		stepsTotal:         stepsTotal,
		registrationsTotal: registrationsTotal,
		realizationsTotal:  realizationsTotal,
		hypothesesTotal:    hypothesesTotal,
		queriesTotal:       queriesTotal,
	}, nil
}

func (e *Exporter) RecordStepCreated(ctx context.Context) {
	e.stepsTotal.Add(ctx, 1)
}

func (e *Exporter) RecordRegistration(ctx context.Context, stepName string, realizations int64) {
	opt := metric.WithAttributes(attribute.String("step", stepName))
	e.registrationsTotal.Add(ctx, 1, opt)
	e.realizationsTotal.Add(ctx, realizations, opt)
}

func (e *Exporter) RecordHypothesis(ctx context.Context) {
	e.hypothesesTotal.Add(ctx, 1)
}

func (e *Exporter) RecordQuery(ctx context.Context, kind string, cacheHit bool) {
	e.queriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("cache_hit", cacheHit),
	))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
