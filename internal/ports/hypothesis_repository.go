package ports

import (
	"context"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
)

type HypothesisRepository interface {
	Create(ctx context.Context, hypothesis *domain.Hypothesis) error
	ListInRange(ctx context.Context, r domain.DateRange) ([]domain.Hypothesis, error)
}
