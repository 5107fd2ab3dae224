package turso

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/ports"
)

var (
	_ ports.FunnelStepRepository   = (*FunnelStepRepository)(nil)
	_ ports.RegistrationRepository = (*RegistrationRepository)(nil)
	_ ports.HypothesisRepository   = (*HypothesisRepository)(nil)
	_ ports.FunnelRepository       = (*FunnelRepository)(nil)
	_ ports.StoreTransfer          = (*DB)(nil)
)

func TestFunnelStepRepository_CRUD(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	seedStep(t, repos, "s2", "Signup", 2)
	seedStep(t, repos, "s1", "Visit", 1)

	steps, err := repos.Steps.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Name != "Visit" || steps[1].Name != "Signup" {
		t.Errorf("expected steps ordered by order number, got %s, %s", steps[0].Name, steps[1].Name)
	}

	byName, err := repos.Steps.GetByName(ctx, "Signup")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if byName == nil || byName.ID != "s2" {
		t.Errorf("expected step s2, got %+v", byName)
	}

	missing, err := repos.Steps.GetByID(ctx, "nope")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}

	if err := repos.Steps.Delete(ctx, "s2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	steps, _ = repos.Steps.List(ctx)
	if len(steps) != 1 {
		t.Errorf("expected 1 step after delete, got %d", len(steps))
	}
}

func TestFunnelStepRepository_DuplicateOrderNumber(t *testing.T) {
	repos := NewRepositories(testDB(t))

	seedStep(t, repos, "s1", "Visit", 1)
	err := repos.Steps.Create(context.Background(), &domain.FunnelStep{ID: "s2", Name: "Other", OrderNumber: 1})
	if err == nil {
		t.Error("expected unique constraint violation for duplicate order number")
	}
}

func TestRegistrationRepository_RequiresExistingStep(t *testing.T) {
	repos := NewRepositories(testDB(t))

	reg := &domain.Registration{ID: "r1", FunnelStepID: "ghost", Realizations: 3, Date: mustDate(t, "2023-07-01")}
	if err := repos.Registrations.Create(context.Background(), reg); err == nil {
		t.Error("expected foreign key violation for unknown step")
	}
}

func TestFunnelStepRepository_DeleteReferencedStepFails(t *testing.T) {
	repos := NewRepositories(testDB(t))

	seedStep(t, repos, "s1", "Visit", 1)
	seedRegistration(t, repos, "r1", "s1", 10, "2023-07-01")

	if err := repos.Steps.Delete(context.Background(), "s1"); err == nil {
		t.Error("expected delete of a referenced step to fail")
	}
}

func TestRegistrationRepository_ListInRange(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	seedStep(t, repos, "s1", "Visit", 1)
	desc := "campaign"
	reg := &domain.Registration{ID: "r1", FunnelStepID: "s1", Description: &desc, Realizations: 10, Date: mustDate(t, "2023-07-02")}
	if err := repos.Registrations.Create(ctx, reg); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	seedRegistration(t, repos, "r2", "s1", 4, "2023-08-01")

	got, err := repos.Registrations.ListInRange(ctx, mustRange(t, "2023-07-01", "2023-07-31"))
	if err != nil {
		t.Fatalf("ListInRange failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(got))
	}
	if got[0].StepName != "Visit" || got[0].Description == nil || *got[0].Description != "campaign" {
		t.Errorf("unexpected registration %+v", got[0])
	}
}

func TestFunnelRepository_GetTotals(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	seedStep(t, repos, "a", "A", 1)
	seedStep(t, repos, "b", "B", 2)
	seedStep(t, repos, "c", "C", 3)
	seedRegistration(t, repos, "r1", "a", 6, "2023-07-01")
	seedRegistration(t, repos, "r2", "a", 4, "2023-07-20")
	seedRegistration(t, repos, "r3", "b", 5, "2023-07-31")
	seedRegistration(t, repos, "r4", "b", 50, "2023-08-01")

	rows, err := repos.Funnel.GetTotals(ctx, mustRange(t, "2023-07-01", "2023-07-31"))
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected every step to be reported, got %d rows", len(rows))
	}

	expected := []int64{10, 5, 0}
	for i, want := range expected {
		if rows[i].Realizations != want {
			t.Errorf("step %s: expected %d realizations, got %d", rows[i].StepName, want, rows[i].Realizations)
		}
	}
}

func TestFunnelRepository_GetTotals_InvertedRange(t *testing.T) {
	repos := NewRepositories(testDB(t))

	seedStep(t, repos, "a", "A", 1)
	seedRegistration(t, repos, "r1", "a", 6, "2023-07-10")

	rows, err := repos.Funnel.GetTotals(context.Background(), mustRange(t, "2023-07-31", "2023-07-01"))
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Realizations != 0 {
		t.Errorf("expected a single zero row, got %+v", rows)
	}
}

func TestFunnelRepository_GetDailyTotals(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	seedStep(t, repos, "a", "A", 1)
	seedStep(t, repos, "b", "B", 2)
	seedRegistration(t, repos, "r1", "b", 2, "2023-07-01")
	seedRegistration(t, repos, "r2", "a", 6, "2023-07-01")
	seedRegistration(t, repos, "r3", "a", 4, "2023-07-01")
	seedRegistration(t, repos, "r4", "a", 1, "2023-07-03")

	rows, err := repos.Funnel.GetDailyTotals(ctx, mustRange(t, "2023-07-01", "2023-07-31"))
	if err != nil {
		t.Fatalf("GetDailyTotals failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 (date, step) rows, got %d", len(rows))
	}
	if rows[0].StepID != "a" || rows[0].Realizations != 10 {
		t.Errorf("expected A summed to 10 first, got %+v", rows[0])
	}
	if rows[1].StepID != "b" || rows[1].Realizations != 2 {
		t.Errorf("expected B second, got %+v", rows[1])
	}
	if domain.FormatDate(rows[2].Date) != "2023-07-03" {
		t.Errorf("expected last row on 2023-07-03, got %s", domain.FormatDate(rows[2].Date))
	}
}

func TestHypothesisRepository_ListInRange(t *testing.T) {
	repos := NewRepositories(testDB(t))
	ctx := context.Background()

	for i, h := range []domain.Hypothesis{
		{ID: "h2", Name: "Second", Date: mustDate(t, "2023-07-05")},
		{ID: "h1", Name: "First", Date: mustDate(t, "2023-07-01")},
		{ID: "h3", Name: "Outside", Date: mustDate(t, "2023-09-01")},
	} {
		h := h
		if err := repos.Hypotheses.Create(ctx, &h); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	got, err := repos.Hypotheses.ListInRange(ctx, mustRange(t, "2023-07-01", "2023-07-31"))
	if err != nil {
		t.Fatalf("ListInRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hypotheses, got %d", len(got))
	}
	if got[0].Name != "First" || got[1].Name != "Second" {
		t.Errorf("expected hypotheses ordered by date, got %s, %s", got[0].Name, got[1].Name)
	}
	if got[0].Description != nil {
		t.Errorf("expected nil description, got %q", *got[0].Description)
	}
}

func TestDB_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	source := testDB(t)
	sourceRepos := NewRepositories(source)
	seedStep(t, sourceRepos, "a", "A", 1)
	seedRegistration(t, sourceRepos, "r1", "a", 7, "2023-07-01")

	snapshot := filepath.Join(t.TempDir(), "snapshot.db")
	if err := source.ExportTo(ctx, snapshot); err != nil {
		t.Fatalf("ExportTo failed: %v", err)
	}

	target := testDB(t)
	targetRepos := NewRepositories(target)
	seedStep(t, targetRepos, "old", "Old", 1)

	if err := target.ImportFrom(ctx, snapshot); err != nil {
		t.Fatalf("ImportFrom failed: %v", err)
	}

	steps, err := targetRepos.Steps.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(steps) != 1 || steps[0].ID != "a" {
		t.Fatalf("expected imported step a to replace existing data, got %+v", steps)
	}

	rows, err := targetRepos.Funnel.GetTotals(ctx, mustRange(t, "2023-07-01", "2023-07-31"))
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if rows[0].Realizations != 7 {
		t.Errorf("expected 7 imported realizations, got %d", rows[0].Realizations)
	}
}

func TestDB_ImportRejectsForeignFile(t *testing.T) {
	ctx := context.Background()

	other, err := NewDB(Options{Path: filepath.Join(t.TempDir(), "other.db")})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if _, err := other.ExecContext(ctx, `CREATE TABLE unrelated (id INTEGER)`); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	path := other.Path()
	_ = other.Close()

	target := testDB(t)
	seedStep(t, NewRepositories(target), "keep", "Keep", 1)

	if err := target.ImportFrom(ctx, path); err == nil {
		t.Fatal("expected import of a foreign file to fail")
	}

	steps, _ := NewRepositories(target).Steps.List(ctx)
	if len(steps) != 1 {
		t.Errorf("expected existing data to be untouched, got %d steps", len(steps))
	}
}
