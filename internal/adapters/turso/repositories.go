package turso

import (
	"github.com/elchristog/marketing-funnels-gestor/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Steps         ports.FunnelStepRepository
	Registrations ports.RegistrationRepository
	Hypotheses    ports.HypothesisRepository
	Funnel        ports.FunnelRepository
	Transfer      ports.StoreTransfer
}

// NewRepositories creates all turso repository implementations from a database session.
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Steps:         NewFunnelStepRepository(db.DB),
		Registrations: NewRegistrationRepository(db.DB),
		Hypotheses:    NewHypothesisRepository(db.DB),
		Funnel:        NewFunnelRepository(db.DB),
		Transfer:      db,
	}
}
