package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/util"
	sqlc "github.com/elchristog/marketing-funnels-gestor/sqlc/generated"
)

type RegistrationRepository struct {
	queries *sqlc.Queries
}

func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{queries: sqlc.New(db)}
}

func (r *RegistrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	err := r.queries.CreateRegistration(ctx, sqlc.CreateRegistrationParams{
		ID:           registration.ID,
		FunnelStepID: registration.FunnelStepID,
		Description:  util.NullStringPtr(registration.Description),
		Realizations: registration.Realizations,
		Date:         domain.FormatDate(registration.Date),
	})
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) ListInRange(ctx context.Context, dr domain.DateRange) ([]domain.Registration, error) {
	rows, err := r.queries.ListRegistrationsInRange(ctx, sqlc.ListRegistrationsInRangeParams{
		StartDate: dr.StartString(),
		EndDate:   dr.EndString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	registrations := make([]domain.Registration, 0, len(rows))
	for _, row := range rows {
		date, err := domain.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("registration %s: %w", row.ID, err)
		}
		registrations = append(registrations, domain.Registration{
			ID:           row.ID,
			FunnelStepID: row.FunnelStepID,
			StepName:     row.StepName,
			Description:  util.NullStringToPtr(row.Description),
			Realizations: row.Realizations,
			Date:         date,
		})
	}
	return registrations, nil
}
