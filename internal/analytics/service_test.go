package analytics

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elchristog/marketing-funnels-gestor/internal/adapters/turso"
	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/migrate"
	"github.com/elchristog/marketing-funnels-gestor/internal/ports"
)

type recordingMetrics struct {
	mu            sync.Mutex
	steps         int
	registrations int
	realizations  int64
	hypotheses    int
	queries       map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{queries: map[string]int{}}
}

func (m *recordingMetrics) RecordStepCreated(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps++
}

func (m *recordingMetrics) RecordRegistration(_ context.Context, _ string, realizations int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations++
	m.realizations += realizations
}

func (m *recordingMetrics) RecordHypothesis(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hypotheses++
}

func (m *recordingMetrics) RecordQuery(_ context.Context, kind string, cacheHit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries[fmt.Sprintf("%s/%t", kind, cacheHit)]++
}

func (m *recordingMetrics) Close(context.Context) error { return nil }

type fixture struct {
	svc     *Service
	db      *turso.DB
	metrics *recordingMetrics
	today   time.Time
}

func newFixture(t *testing.T, cacheSize int) *fixture {
	t.Helper()
	return newFixtureWithFunnel(t, cacheSize, nil)
}

// newFixtureWithFunnel lets a test wrap the funnel store the service reads
// through. A nil wrap uses the store as is.
func newFixtureWithFunnel(t *testing.T, cacheSize int, wrap func(ports.FunnelRepository) ports.FunnelRepository) *fixture {
	t.Helper()

	db, err := turso.NewDB(turso.Options{Path: filepath.Join(t.TempDir(), "funnels.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrate.RunAll(context.Background(), db.DB))

	repos := turso.NewRepositories(db)
	var funnel ports.FunnelRepository = repos.Funnel
	if wrap != nil {
		funnel = wrap(funnel)
	}
	f := &fixture{
		db:      db,
		metrics: newRecordingMetrics(),
		today:   time.Date(2023, 7, 10, 15, 30, 0, 0, time.UTC),
	}

	seq := 0
	svc, err := NewService(Stores{
		Steps:         repos.Steps,
		Registrations: repos.Registrations,
		Hypotheses:    repos.Hypotheses,
		Funnel:        funnel,
		Transfer:      repos.Transfer,
	}, f.metrics, Options{
		CacheSize: cacheSize,
		Now:       func() time.Time { return f.today },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		},
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func dateRange(t *testing.T, from, to string) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange(from, to, time.Now())
	require.NoError(t, err)
	return r
}

func datePtr(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestService_GetFunnel(t *testing.T) {
	f := newFixture(t, 16)
	ctx := context.Background()

	a, err := f.svc.AddStep(ctx, "A", 1)
	require.NoError(t, err)
	b, err := f.svc.AddStep(ctx, "B", 2)
	require.NoError(t, err)

	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: a.ID, Realizations: 10, Date: datePtr(t, "2023-07-01")})
	require.NoError(t, err)
	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: b.ID, Realizations: 5, Date: datePtr(t, "2023-07-02")})
	require.NoError(t, err)

	rows, err := f.svc.GetFunnel(ctx, dateRange(t, "2023-07-01", "2023-07-31"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(10), rows[0].Realizations)
	assert.Nil(t, rows[0].ConversionRate)
	require.NotNil(t, rows[1].ConversionRate)
	assert.InDelta(t, 0.5, *rows[1].ConversionRate, 1e-9)
}

func TestService_GetFunnel_ZeroPreviousOmitsRate(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.svc.AddStep(ctx, "A", 1)
	require.NoError(t, err)
	b, err := f.svc.AddStep(ctx, "B", 2)
	require.NoError(t, err)
	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: b.ID, Realizations: 3})
	require.NoError(t, err)

	rows, err := f.svc.GetFunnel(ctx, f.svc.DefaultRange())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(0), rows[0].Realizations)
	assert.Nil(t, rows[1].ConversionRate)
}

func TestService_AddRegistration_StampsToday(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	step, err := f.svc.AddStep(ctx, "Visit", 1)
	require.NoError(t, err)

	reg, err := f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: step.ID, Realizations: 4})
	require.NoError(t, err)
	assert.Equal(t, "2023-07-10", domain.FormatDate(reg.Date))
	assert.Equal(t, "Visit", reg.StepName)

	regs, err := f.svc.ListRegistrations(ctx, f.svc.DefaultRange())
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "id-002", regs[0].ID)

	assert.Equal(t, 1, f.metrics.registrations)
	assert.Equal(t, int64(4), f.metrics.realizations)
}

func TestService_AddRegistration_Validation(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: "", Realizations: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: "x", Realizations: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Unknown steps are rejected by the store, not the service.
	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: "ghost", Realizations: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestService_AddStep_DuplicateOrder(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.svc.AddStep(ctx, "A", 1)
	require.NoError(t, err)
	_, err = f.svc.AddStep(ctx, "B", 1)
	require.Error(t, err)

	_, err = f.svc.AddStep(ctx, "   ", 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 1, f.metrics.steps)
}

func TestService_DeleteStep(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	a, err := f.svc.AddStep(ctx, "A", 1)
	require.NoError(t, err)
	b, err := f.svc.AddStep(ctx, "B", 2)
	require.NoError(t, err)
	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: a.ID, Realizations: 1})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteStep(ctx, b.ID))
	assert.Error(t, f.svc.DeleteStep(ctx, a.ID), "referenced step must not be deleted")
	assert.ErrorIs(t, f.svc.DeleteStep(ctx, "missing"), ErrNotFound)

	steps, err := f.svc.ListSteps(ctx)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "A", steps[0].Name)
}

func TestService_ResolveStep(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	step, err := f.svc.AddStep(ctx, "Signup", 1)
	require.NoError(t, err)

	byID, err := f.svc.ResolveStep(ctx, step.ID)
	require.NoError(t, err)
	assert.Equal(t, step.ID, byID.ID)

	byName, err := f.svc.ResolveStep(ctx, "Signup")
	require.NoError(t, err)
	assert.Equal(t, step.ID, byName.ID)

	_, err = f.svc.ResolveStep(ctx, "Checkout")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_GetFunnelByWeek_MergesHypotheses(t *testing.T) {
	f := newFixture(t, 16)
	ctx := context.Background()

	visit, err := f.svc.AddStep(ctx, "Visit", 1)
	require.NoError(t, err)
	signup, err := f.svc.AddStep(ctx, "Signup", 2)
	require.NoError(t, err)

	for _, in := range []RegistrationInput{
		{FunnelStepID: visit.ID, Realizations: 100, Date: datePtr(t, "2023-07-01")},
		{FunnelStepID: signup.ID, Realizations: 20, Date: datePtr(t, "2023-07-01")},
		{FunnelStepID: visit.ID, Realizations: 60, Date: datePtr(t, "2023-07-09")},
	} {
		_, err := f.svc.AddRegistration(ctx, in)
		require.NoError(t, err)
	}

	desc := "bigger hero"
	_, err = f.svc.AddHypothesis(ctx, HypothesisInput{Name: "Landing v2", Description: &desc, Date: datePtr(t, "2023-07-02")})
	require.NoError(t, err)
	_, err = f.svc.AddHypothesis(ctx, HypothesisInput{Name: "Ad spend", Date: datePtr(t, "2023-07-06")})
	require.NoError(t, err)

	rows, err := f.svc.GetFunnelByWeek(ctx, dateRange(t, "2023-07-01", "2023-07-31"))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Landing v2, Ad spend", rows[0].HypothesisNames)
	assert.Equal(t, "bigger hero", rows[0].HypothesisDescriptions)
	require.NotNil(t, rows[1].ConversionRate)
	assert.InDelta(t, 0.2, *rows[1].ConversionRate, 1e-9)

	assert.Equal(t, 2, rows[2].Week)
	assert.Nil(t, rows[2].ConversionRate)
	assert.Empty(t, rows[2].HypothesisNames)

	rollup, err := f.svc.GetWeeklyRollup(ctx, dateRange(t, "2023-07-01", "2023-07-31"))
	require.NoError(t, err)
	require.Len(t, rollup, 3)
	assert.Equal(t, int64(100), rollup[0].Realizations)
}

func TestService_CacheHitsAndInvalidation(t *testing.T) {
	f := newFixture(t, 16)
	ctx := context.Background()

	step, err := f.svc.AddStep(ctx, "Visit", 1)
	require.NoError(t, err)
	r := f.svc.DefaultRange()

	first, err := f.svc.GetFunnel(ctx, r)
	require.NoError(t, err)
	_, err = f.svc.GetFunnel(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.queries["funnel/false"])
	assert.Equal(t, 1, f.metrics.queries["funnel/true"])
	assert.Equal(t, 1, f.svc.cache.len())

	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: step.ID, Realizations: 9})
	require.NoError(t, err)
	assert.Equal(t, 0, f.svc.cache.len(), "writes must purge cached results")

	after, err := f.svc.GetFunnel(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first[0].Realizations)
	assert.Equal(t, int64(9), after[0].Realizations)
	assert.Equal(t, 2, f.metrics.queries["funnel/false"])
}

func TestService_CachedResultsAreCopies(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	_, err := f.svc.AddStep(ctx, "Visit", 1)
	require.NoError(t, err)
	r := f.svc.DefaultRange()

	rows, err := f.svc.GetFunnel(ctx, r)
	require.NoError(t, err)
	rows[0].Realizations = 999

	again, err := f.svc.GetFunnel(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again[0].Realizations)
}

func TestService_CachedRatesAreCopies(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	visit, err := f.svc.AddStep(ctx, "Visit", 1)
	require.NoError(t, err)
	signup, err := f.svc.AddStep(ctx, "Signup", 2)
	require.NoError(t, err)
	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: visit.ID, Realizations: 10})
	require.NoError(t, err)
	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: signup.ID, Realizations: 4})
	require.NoError(t, err)
	r := f.svc.DefaultRange()

	rows, err := f.svc.GetFunnel(ctx, r)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[1].ConversionRate)
	*rows[1].ConversionRate = 42

	again, err := f.svc.GetFunnel(ctx, r)
	require.NoError(t, err)
	require.NotNil(t, again[1].ConversionRate)
	assert.InDelta(t, 0.4, *again[1].ConversionRate, 1e-9)

	weekly, err := f.svc.GetFunnelByWeek(ctx, r)
	require.NoError(t, err)
	for _, row := range weekly {
		if row.ConversionRate != nil {
			*row.ConversionRate = -1
		}
	}
	weeklyAgain, err := f.svc.GetFunnelByWeek(ctx, r)
	require.NoError(t, err)
	for _, row := range weeklyAgain {
		if row.ConversionRate != nil {
			assert.NotEqual(t, -1.0, *row.ConversionRate)
		}
	}

	rollup, err := f.svc.GetWeeklyRollup(ctx, r)
	require.NoError(t, err)
	for _, row := range rollup {
		if row.ConversionRate != nil {
			*row.ConversionRate = -1
		}
	}
	rollupAgain, err := f.svc.GetWeeklyRollup(ctx, r)
	require.NoError(t, err)
	for _, row := range rollupAgain {
		if row.ConversionRate != nil {
			assert.NotEqual(t, -1.0, *row.ConversionRate)
		}
	}
}

// pausingFunnel holds the first GetTotals call open after it has read the
// store, until release is closed.
type pausingFunnel struct {
	ports.FunnelRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *pausingFunnel) GetTotals(ctx context.Context, r domain.DateRange) ([]domain.FunnelRow, error) {
	rows, err := p.FunnelRepository.GetTotals(ctx, r)
	p.once.Do(func() {
		close(p.entered)
		<-p.release
	})
	return rows, err
}

func TestService_WriteDuringReadIsNotCachedStale(t *testing.T) {
	pause := &pausingFunnel{entered: make(chan struct{}), release: make(chan struct{})}
	f := newFixtureWithFunnel(t, 16, func(inner ports.FunnelRepository) ports.FunnelRepository {
		pause.FunnelRepository = inner
		return pause
	})
	ctx := context.Background()

	step, err := f.svc.AddStep(ctx, "Visit", 1)
	require.NoError(t, err)
	r := f.svc.DefaultRange()

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.GetFunnel(ctx, r)
		done <- err
	}()

	<-pause.entered
	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: step.ID, Realizations: 9})
	require.NoError(t, err)
	close(pause.release)
	require.NoError(t, <-done)

	rows, err := f.svc.GetFunnel(ctx, r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9), rows[0].Realizations)
}

func TestService_ParseRange(t *testing.T) {
	f := newFixture(t, 0)

	r, err := f.svc.ParseRange("", "")
	require.NoError(t, err)
	assert.Equal(t, "2023-07-01|2023-07-31", r.CacheKey())

	_, err = f.svc.ParseRange("yesterday", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ImportPurgesCache(t *testing.T) {
	f := newFixture(t, 16)
	ctx := context.Background()

	step, err := f.svc.AddStep(ctx, "Visit", 1)
	require.NoError(t, err)
	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: step.ID, Realizations: 3})
	require.NoError(t, err)

	snapshot := filepath.Join(t.TempDir(), "snapshot.db")
	require.NoError(t, f.svc.ExportDatabase(ctx, snapshot))

	_, err = f.svc.AddRegistration(ctx, RegistrationInput{FunnelStepID: step.ID, Realizations: 7})
	require.NoError(t, err)
	rows, err := f.svc.GetFunnel(ctx, f.svc.DefaultRange())
	require.NoError(t, err)
	assert.Equal(t, int64(10), rows[0].Realizations)

	require.NoError(t, f.svc.ImportDatabase(ctx, snapshot))
	rows, err = f.svc.GetFunnel(ctx, f.svc.DefaultRange())
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows[0].Realizations)
}
