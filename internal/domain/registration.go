package domain

import "time"

// Registration is a dated count of realizations attributed to one funnel step.
type Registration struct {
	ID           string
	FunnelStepID string
	StepName     string
	Description  *string
	Realizations int64
	Date         time.Time
}
