package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/elchristog/marketing-funnels-gestor/internal/infrastructure/config"
	"github.com/elchristog/marketing-funnels-gestor/internal/ports"
)

var (
	_ ports.MetricsExporter = (*Exporter)(nil)
	_ ports.MetricsExporter = (*NoOpExporter)(nil)
)

func TestNewExporter_Disabled(t *testing.T) {
	if _, err := NewExporter(context.Background(), Config{Enabled: false, Endpoint: "localhost:4317"}); err == nil {
		t.Error("expected error when exporter is disabled")
	}
	if _, err := NewExporter(context.Background(), Config{Enabled: true}); err == nil {
		t.Error("expected error when endpoint is missing")
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Otel{Enabled: true, Endpoint: "collector:4317", Insecure: true})
	if !cfg.Enabled || cfg.Endpoint != "collector:4317" || !cfg.Insecure {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestNoOpExporter(t *testing.T) {
	e := NewNoOpExporter()
	ctx := context.Background()
	e.RecordStepCreated(ctx)
	e.RecordRegistration(ctx, "Visit", 10)
	e.RecordHypothesis(ctx)
	e.RecordQuery(ctx, "funnel", true)
	if err := e.Close(ctx); err != nil {
		t.Errorf("Close() should not error, got: %v", err)
	}
}

func TestExporter_RecordsCounters(t *testing.T) {
	ctx := context.Background()
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))

	e, err := newExporter(provider)
	if err != nil {
		t.Fatalf("newExporter failed: %v", err)
	}
	defer e.Close(ctx)

	e.RecordStepCreated(ctx)
	e.RecordRegistration(ctx, "Visit", 10)
	e.RecordRegistration(ctx, "Visit", 5)
	e.RecordQuery(ctx, "funnel", false)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			data, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range data.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}

	expected := map[string]int64{
		"mfunnel_steps_created_total": 1,
		"mfunnel_registrations_total": 2,
		"mfunnel_realizations_total":  15,
		"mfunnel_queries_total":       1,
	}
	for name, want := range expected {
		if sums[name] != want {
			t.Errorf("%s = %d, want %d", name, sums[name], want)
		}
	}
}
