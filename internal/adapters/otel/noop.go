package otel

import "context"

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordStepCreated(ctx context.Context) {}

func (e *NoOpExporter) RecordRegistration(ctx context.Context, stepName string, realizations int64) {}

func (e *NoOpExporter) RecordHypothesis(ctx context.Context) {}

func (e *NoOpExporter) RecordQuery(ctx context.Context, kind string, cacheHit bool) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
