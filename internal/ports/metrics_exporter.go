package ports

import "context"

// MetricsExporter exports funnel activity to an external observability system.
type MetricsExporter interface {
	// RecordStepCreated counts a new funnel step.
	RecordStepCreated(ctx context.Context)
	// RecordRegistration counts a registration and its realizations for a step.
	RecordRegistration(ctx context.Context, stepName string, realizations int64)
	// RecordHypothesis counts a new hypothesis.
	RecordHypothesis(ctx context.Context)
	// RecordQuery counts a funnel read, tagged by kind and cache outcome.
	RecordQuery(ctx context.Context, kind string, cacheHit bool)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
