package turso

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/migrate"
)

// testDB creates a migrated database in a temporary file. Each test gets its
// own file so tests never observe each other's rows.
func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(Options{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrate.RunAll(context.Background(), db.DB); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func mustRange(t *testing.T, from, to string) domain.DateRange {
	t.Helper()

	return domain.DateRange{Start: mustDate(t, from), End: mustDate(t, to)}
}

func seedStep(t *testing.T, repos *Repositories, id, name string, order int64) {
	t.Helper()

	step := &domain.FunnelStep{ID: id, Name: name, OrderNumber: order}
	if err := repos.Steps.Create(context.Background(), step); err != nil {
		t.Fatalf("Failed to create step %s: %v", name, err)
	}
}

func seedRegistration(t *testing.T, repos *Repositories, id, stepID string, realizations int64, date string) {
	t.Helper()

	reg := &domain.Registration{ID: id, FunnelStepID: stepID, Realizations: realizations, Date: mustDate(t, date)}
	if err := repos.Registrations.Create(context.Background(), reg); err != nil {
		t.Fatalf("Failed to create registration %s: %v", id, err)
	}
}
