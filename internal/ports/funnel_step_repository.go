package ports

import (
	"context"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
)

type FunnelStepRepository interface {
	Create(ctx context.Context, step *domain.FunnelStep) error
	GetByID(ctx context.Context, id string) (*domain.FunnelStep, error)
	GetByName(ctx context.Context, name string) (*domain.FunnelStep, error)
	List(ctx context.Context) ([]*domain.FunnelStep, error)
	Delete(ctx context.Context, id string) error
}
