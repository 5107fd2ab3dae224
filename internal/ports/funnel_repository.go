package ports

import (
	"context"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
)

// FunnelRepository runs the aggregate read queries behind the funnel views.
type FunnelRepository interface {
	// GetTotals returns one row per funnel step, ordered by order number,
	// with realizations summed over the range (zero when none match).
	GetTotals(ctx context.Context, r domain.DateRange) ([]domain.FunnelRow, error)
	// GetDailyTotals returns one row per (date, step) pair that has
	// registrations in the range, ordered by date then order number.
	GetDailyTotals(ctx context.Context, r domain.DateRange) ([]domain.DailyStepTotal, error)
}
