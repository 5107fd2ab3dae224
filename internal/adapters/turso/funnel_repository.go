package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	sqlc "github.com/elchristog/marketing-funnels-gestor/sqlc/generated"
)

type FunnelRepository struct {
	queries *sqlc.Queries
}

func NewFunnelRepository(db *sql.DB) *FunnelRepository {
	return &FunnelRepository{queries: sqlc.New(db)}
}

func (r *FunnelRepository) GetTotals(ctx context.Context, dr domain.DateRange) ([]domain.FunnelRow, error) {
	rows, err := WithRetry(ctx, readRetries, func() ([]sqlc.GetFunnelTotalsRow, error) {
		return r.queries.GetFunnelTotals(ctx, sqlc.GetFunnelTotalsParams{
			StartDate: dr.StartString(),
			EndDate:   dr.EndString(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get funnel totals: %w", err)
	}

	result := make([]domain.FunnelRow, len(rows))
	for i, row := range rows {
		result[i] = domain.FunnelRow{
			StepID:       row.ID,
			StepName:     row.Name,
			OrderNumber:  row.OrderNumber,
			Realizations: row.Realizations,
		}
	}
	return result, nil
}

func (r *FunnelRepository) GetDailyTotals(ctx context.Context, dr domain.DateRange) ([]domain.DailyStepTotal, error) {
	rows, err := WithRetry(ctx, readRetries, func() ([]sqlc.GetFunnelByDateRow, error) {
		return r.queries.GetFunnelByDate(ctx, sqlc.GetFunnelByDateParams{
			StartDate: dr.StartString(),
			EndDate:   dr.EndString(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get daily funnel totals: %w", err)
	}

	result := make([]domain.DailyStepTotal, 0, len(rows))
	for _, row := range rows {
		date, err := domain.ParseDate(row.Date)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.DailyStepTotal{
			Date:         date,
			StepID:       row.FunnelStepID,
			StepName:     row.Name,
			OrderNumber:  row.OrderNumber,
			Realizations: row.Realizations,
		})
	}
	return result, nil
}
