package analytics

import (
	"github.com/elchristog/marketing-funnels-gestor/internal/ports"
)

// Stores groups the repositories the service reads and writes through.
type Stores struct {
	Steps         ports.FunnelStepRepository
	Registrations ports.RegistrationRepository
	Hypotheses    ports.HypothesisRepository
	Funnel        ports.FunnelRepository
	Transfer      ports.StoreTransfer
}
