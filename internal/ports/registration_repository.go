package ports

import (
	"context"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration *domain.Registration) error
	ListInRange(ctx context.Context, r domain.DateRange) ([]domain.Registration, error)
}
