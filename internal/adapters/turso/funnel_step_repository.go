package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	sqlc "github.com/elchristog/marketing-funnels-gestor/sqlc/generated"
)

type FunnelStepRepository struct {
	queries *sqlc.Queries
}

func NewFunnelStepRepository(db *sql.DB) *FunnelStepRepository {
	return &FunnelStepRepository{queries: sqlc.New(db)}
}

func (r *FunnelStepRepository) Create(ctx context.Context, step *domain.FunnelStep) error {
	err := r.queries.CreateFunnelStep(ctx, sqlc.CreateFunnelStepParams{
		ID:          step.ID,
		Name:        step.Name,
		OrderNumber: step.OrderNumber,
	})
	if err != nil {
		return fmt.Errorf("failed to create funnel step: %w", err)
	}
	return nil
}

func (r *FunnelStepRepository) GetByID(ctx context.Context, id string) (*domain.FunnelStep, error) {
	row, err := r.queries.GetFunnelStepByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get funnel step: %w", err)
	}
	return funnelStepFromRow(row), nil
}

func (r *FunnelStepRepository) GetByName(ctx context.Context, name string) (*domain.FunnelStep, error) {
	row, err := r.queries.GetFunnelStepByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get funnel step by name: %w", err)
	}
	return funnelStepFromRow(row), nil
}

func (r *FunnelStepRepository) List(ctx context.Context) ([]*domain.FunnelStep, error) {
	rows, err := r.queries.ListFunnelSteps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnel steps: %w", err)
	}

	steps := make([]*domain.FunnelStep, len(rows))
	for i, row := range rows {
		steps[i] = funnelStepFromRow(row)
	}
	return steps, nil
}

func (r *FunnelStepRepository) Delete(ctx context.Context, id string) error {
	if err := r.queries.DeleteFunnelStep(ctx, id); err != nil {
		return fmt.Errorf("failed to delete funnel step: %w", err)
	}
	return nil
}

func funnelStepFromRow(row sqlc.FunnelStep) *domain.FunnelStep {
	return &domain.FunnelStep{
		ID:          row.ID,
		Name:        row.Name,
		OrderNumber: row.OrderNumber,
	}
}
