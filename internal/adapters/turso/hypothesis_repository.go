package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/util"
	sqlc "github.com/elchristog/marketing-funnels-gestor/sqlc/generated"
)

type HypothesisRepository struct {
	queries *sqlc.Queries
}

func NewHypothesisRepository(db *sql.DB) *HypothesisRepository {
	return &HypothesisRepository{queries: sqlc.New(db)}
}

func (r *HypothesisRepository) Create(ctx context.Context, hypothesis *domain.Hypothesis) error {
	err := r.queries.CreateHypothesis(ctx, sqlc.CreateHypothesisParams{
		ID:          hypothesis.ID,
		Name:        hypothesis.Name,
		Description: util.NullStringPtr(hypothesis.Description),
		Date:        domain.FormatDate(hypothesis.Date),
	})
	if err != nil {
		return fmt.Errorf("failed to create hypothesis: %w", err)
	}
	return nil
}

func (r *HypothesisRepository) ListInRange(ctx context.Context, dr domain.DateRange) ([]domain.Hypothesis, error) {
	rows, err := r.queries.ListHypothesesInRange(ctx, sqlc.ListHypothesesInRangeParams{
		StartDate: dr.StartString(),
		EndDate:   dr.EndString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list hypotheses: %w", err)
	}

	hypotheses := make([]domain.Hypothesis, 0, len(rows))
	for _, row := range rows {
		date, err := domain.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("hypothesis %s: %w", row.ID, err)
		}
		hypotheses = append(hypotheses, domain.Hypothesis{
			ID:          row.ID,
			Name:        row.Name,
			Description: util.NullStringToPtr(row.Description),
			Date:        date,
		})
	}
	return hypotheses, nil
}
