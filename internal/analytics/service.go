package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/ports"
)

// Options tunes a Service. Zero values pick the defaults.
type Options struct {
	// CacheSize is the number of query results kept in memory; 0 disables
	// caching.
	CacheSize int
	// Now is the clock used to date new registrations and hypotheses.
	Now func() time.Time
	// NewID generates primary keys.
	NewID func() string
	// Logger receives service logs. Defaults to the standard logrus logger.
	Logger log.FieldLogger
}

// Service provides the funnel commands and queries on top of the stores.
type Service struct {
	stores  Stores
	metrics ports.MetricsExporter
	cache   *resultCache
	now     func() time.Time
	newID   func() string
	logger  log.FieldLogger
}

// NewService creates a new funnel analytics service.
func NewService(stores Stores, metrics ports.MetricsExporter, opts Options) (*Service, error) {
	c, err := newResultCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}

	s := &Service{
		stores:  stores,
		metrics: metrics,
		cache:   c,
		now:     opts.Now,
		newID:   opts.NewID,
		logger:  opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	if s.logger == nil {
		s.logger = log.StandardLogger()
	}
	return s, nil
}

// Today returns the current calendar date according to the service clock.
func (s *Service) Today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DefaultRange returns the calendar month containing today.
func (s *Service) DefaultRange() domain.DateRange {
	return domain.CurrentMonth(s.Today())
}

// ParseRange parses from/to values, defaulting empty bounds to the current
// month.
func (s *Service) ParseRange(from, to string) (domain.DateRange, error) {
	r, err := domain.ParseDateRange(from, to, s.Today())
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return r, nil
}

// AddStep creates a funnel step. A duplicate order number is rejected by the
// store.
func (s *Service) AddStep(ctx context.Context, name string, orderNumber int64) (*domain.FunnelStep, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: step name is required", ErrInvalidInput)
	}

	step := &domain.FunnelStep{
		ID:          s.newID(),
		Name:        name,
		OrderNumber: orderNumber,
	}
	if err := s.stores.Steps.Create(ctx, step); err != nil {
		return nil, err
	}
	s.invalidate()
	s.metrics.RecordStepCreated(ctx)

	s.logger.WithFields(log.Fields{
		"step_id": step.ID,
		"name":    step.Name,
		"order":   step.OrderNumber,
	}).Info("funnel step created")
	return step, nil
}

// DeleteStep removes a funnel step. Steps still referenced by registrations
// are rejected by the store.
func (s *Service) DeleteStep(ctx context.Context, id string) error {
	step, err := s.stores.Steps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if step == nil {
		return fmt.Errorf("%w: funnel step %s", ErrNotFound, id)
	}

	if err := s.stores.Steps.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()

	s.logger.WithField("step_id", id).Info("funnel step deleted")
	return nil
}

// ListSteps returns all steps ordered by order number.
func (s *Service) ListSteps(ctx context.Context) ([]*domain.FunnelStep, error) {
	return s.stores.Steps.List(ctx)
}

// ResolveStep looks a step up by ID, falling back to its name.
func (s *Service) ResolveStep(ctx context.Context, ref string) (*domain.FunnelStep, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: funnel step is required", ErrInvalidInput)
	}

	step, err := s.stores.Steps.GetByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if step != nil {
		return step, nil
	}

	step, err = s.stores.Steps.GetByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, fmt.Errorf("%w: funnel step %q", ErrNotFound, ref)
	}
	return step, nil
}

// RegistrationInput is the payload of AddRegistration. A nil Date stamps the
// registration with today's date.
type RegistrationInput struct {
	FunnelStepID string
	Description  *string
	Realizations int64
	Date         *time.Time
}

// AddRegistration records realizations against a funnel step. An unknown
// step is rejected by the store.
func (s *Service) AddRegistration(ctx context.Context, in RegistrationInput) (*domain.Registration, error) {
	if strings.TrimSpace(in.FunnelStepID) == "" {
		return nil, fmt.Errorf("%w: funnel step is required", ErrInvalidInput)
	}
	if in.Realizations < 0 {
		return nil, fmt.Errorf("%w: realizations must not be negative", ErrInvalidInput)
	}

	date := s.Today()
	if in.Date != nil {
		date = *in.Date
	}

	reg := &domain.Registration{
		ID:           s.newID(),
		FunnelStepID: strings.TrimSpace(in.FunnelStepID),
		Description:  in.Description,
		Realizations: in.Realizations,
		Date:         date,
	}
	if err := s.stores.Registrations.Create(ctx, reg); err != nil {
		return nil, err
	}
	s.invalidate()

	stepName := reg.FunnelStepID
	if step, err := s.stores.Steps.GetByID(ctx, reg.FunnelStepID); err == nil && step != nil {
		stepName = step.Name
		reg.StepName = step.Name
	}
	s.metrics.RecordRegistration(ctx, stepName, reg.Realizations)

	s.logger.WithFields(log.Fields{
		"registration_id": reg.ID,
		"step":            stepName,
		"realizations":    reg.Realizations,
		"date":            domain.FormatDate(reg.Date),
	}).Info("registration recorded")
	return reg, nil
}

// ListRegistrations returns the registrations dated within r.
func (s *Service) ListRegistrations(ctx context.Context, r domain.DateRange) ([]domain.Registration, error) {
	return s.stores.Registrations.ListInRange(ctx, r)
}

// HypothesisInput is the payload of AddHypothesis. A nil Date stamps the
// hypothesis with today's date.
type HypothesisInput struct {
	Name        string
	Description *string
	Date        *time.Time
}

// AddHypothesis records a hypothesis.
func (s *Service) AddHypothesis(ctx context.Context, in HypothesisInput) (*domain.Hypothesis, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: hypothesis name is required", ErrInvalidInput)
	}

	date := s.Today()
	if in.Date != nil {
		date = *in.Date
	}

	h := &domain.Hypothesis{
		ID:          s.newID(),
		Name:        name,
		Description: in.Description,
		Date:        date,
	}
	if err := s.stores.Hypotheses.Create(ctx, h); err != nil {
		return nil, err
	}
	s.invalidate()
	s.metrics.RecordHypothesis(ctx)

	s.logger.WithFields(log.Fields{
		"hypothesis_id": h.ID,
		"name":          h.Name,
		"date":          domain.FormatDate(h.Date),
	}).Info("hypothesis recorded")
	return h, nil
}

// ListHypotheses returns the hypotheses dated within r.
func (s *Service) ListHypotheses(ctx context.Context, r domain.DateRange) ([]domain.Hypothesis, error) {
	return s.stores.Hypotheses.ListInRange(ctx, r)
}

// GetFunnel returns every step's realizations over r with the conversion rate
// against the previous step.
func (s *Service) GetFunnel(ctx context.Context, r domain.DateRange) ([]domain.FunnelRow, error) {
	key := cacheKey(KindFunnel, r)
	if v, ok := s.cache.get(key); ok {
		s.metrics.RecordQuery(ctx, KindFunnel, true)
		return cloneFunnel(v.([]domain.FunnelRow)), nil
	}
	gen := s.cache.generation()

	rows, err := s.stores.Funnel.GetTotals(ctx, r)
	if err != nil {
		return nil, err
	}
	rows = domain.ComputeFunnel(rows)

	s.cache.add(key, rows, gen)
	s.metrics.RecordQuery(ctx, KindFunnel, false)
	s.logger.WithFields(log.Fields{
		"range": r.CacheKey(),
		"rows":  len(rows),
	}).Debug("funnel computed")
	return cloneFunnel(rows), nil
}

// GetFunnelByWeek returns per (date, step) totals bucketed by week of month,
// with within-bucket conversion rates and the bucket's hypothesis text.
func (s *Service) GetFunnelByWeek(ctx context.Context, r domain.DateRange) ([]domain.WeeklyFunnelRow, error) {
	key := cacheKey(KindWeekly, r)
	if v, ok := s.cache.get(key); ok {
		s.metrics.RecordQuery(ctx, KindWeekly, true)
		return cloneWeekly(v.([]domain.WeeklyFunnelRow)), nil
	}
	gen := s.cache.generation()

	totals, err := s.stores.Funnel.GetDailyTotals(ctx, r)
	if err != nil {
		return nil, err
	}
	hypotheses, err := s.stores.Hypotheses.ListInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	rows := domain.BuildWeeklyFunnel(totals, hypotheses)

	s.cache.add(key, rows, gen)
	s.metrics.RecordQuery(ctx, KindWeekly, false)
	s.logger.WithFields(log.Fields{
		"range":      r.CacheKey(),
		"rows":       len(rows),
		"hypotheses": len(hypotheses),
	}).Debug("weekly funnel computed")
	return cloneWeekly(rows), nil
}

// GetWeeklyRollup returns step totals per week bucket.
func (s *Service) GetWeeklyRollup(ctx context.Context, r domain.DateRange) ([]domain.WeeklyStepTotal, error) {
	key := cacheKey(KindRollup, r)
	if v, ok := s.cache.get(key); ok {
		s.metrics.RecordQuery(ctx, KindRollup, true)
		return cloneRollup(v.([]domain.WeeklyStepTotal)), nil
	}
	gen := s.cache.generation()

	weekly, err := s.GetFunnelByWeek(ctx, r)
	if err != nil {
		return nil, err
	}
	totals := domain.RollupWeekly(weekly)

	s.cache.add(key, totals, gen)
	s.metrics.RecordQuery(ctx, KindRollup, false)
	return cloneRollup(totals), nil
}

// ExportDatabase writes a snapshot of the store to path.
func (s *Service) ExportDatabase(ctx context.Context, path string) error {
	if err := s.stores.Transfer.ExportTo(ctx, path); err != nil {
		return err
	}
	s.logger.WithField("path", path).Info("database exported")
	return nil
}

// ImportDatabase replaces the store's contents with the SQLite file at path.
func (s *Service) ImportDatabase(ctx context.Context, path string) error {
	if err := s.stores.Transfer.ImportFrom(ctx, path); err != nil {
		return err
	}
	s.invalidate()
	s.logger.WithField("path", path).Info("database imported")
	return nil
}

// invalidate drops every cached query result after a write.
func (s *Service) invalidate() {
	s.cache.purge()
}
