package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/elchristog/marketing-funnels-gestor/migrations"
)

// Migration represents a single database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion returns the current migration version and dirty state.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version int
	var dirty int

	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return version, dirty == 1, nil
}

// SetVersion records version as the only row of schema_migrations.
func SetVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version == 0 {
		return nil
	}
	_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
	return err
}

// LoadMigrations reads the embedded migration files sorted by version.
func LoadMigrations() ([]Migration, error) {
	return loadFrom(migrations.FS)
}

func loadFrom(fsys fs.FS) ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return fmt.Errorf("invalid migration version in %s: %w", path, err)
		}
		name := matches[2]

		upSQL, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		// Down migrations are optional.
		downSQL, _ := fs.ReadFile(fsys, fmt.Sprintf("%s_%s.down.sql", matches[1], name))

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})
	return result, nil
}

// SplitSQL splits a SQL script into statements on semicolons. Migration files
// never contain semicolons inside literals.
func SplitSQL(script string) []string {
	var statements []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// RunMigration executes a single migration (up or down), marking the schema
// dirty until every statement has succeeded.
func RunMigration(ctx context.Context, db *sql.DB, m Migration, up bool) error {
	direction := "up"
	script := m.UpSQL
	targetVersion := m.Version
	if !up {
		direction = "down"
		script = m.DownSQL
		targetVersion = m.Version - 1
	}

	log.WithFields(log.Fields{
		"version":   m.Version,
		"name":      m.Name,
		"direction": direction,
	}).Info("applying migration")

	if err := SetVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range SplitSQL(script) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", m.Version, direction, err, stmt)
		}
	}

	if err := SetVersion(ctx, db, targetVersion, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}

// MigrateUpTo applies pending migrations up to and including targetVersion.
// A negative target applies everything.
func MigrateUpTo(ctx context.Context, db *sql.DB, all []Migration, currentVersion, targetVersion int) (int, error) {
	applied := 0
	for _, m := range all {
		if m.Version <= currentVersion {
			continue
		}
		if targetVersion >= 0 && m.Version > targetVersion {
			break
		}
		if err := RunMigration(ctx, db, m, true); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// MigrateDownTo reverts migrations above targetVersion, newest first.
func MigrateDownTo(ctx context.Context, db *sql.DB, all []Migration, currentVersion, targetVersion int) (int, error) {
	reverted := 0
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m.Version > currentVersion {
			continue
		}
		if m.Version <= targetVersion {
			break
		}
		if m.DownSQL == "" {
			return reverted, fmt.Errorf("no down migration for version %d", m.Version)
		}
		if err := RunMigration(ctx, db, m, false); err != nil {
			return reverted, err
		}
		reverted++
	}
	return reverted, nil
}

// prepare ensures the bookkeeping table exists, refuses a dirty schema and
// loads the embedded migrations.
func prepare(ctx context.Context, db *sql.DB) (int, []Migration, error) {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return 0, nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return 0, nil, fmt.Errorf("database is in dirty state at version %d, manual intervention required", currentVersion)
	}

	all, err := LoadMigrations()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return currentVersion, all, nil
}

// RunAll runs all pending migrations on the provided database.
func RunAll(ctx context.Context, db *sql.DB) error {
	currentVersion, all, err := prepare(ctx, db)
	if err != nil {
		return err
	}
	_, err = MigrateUpTo(ctx, db, all, currentVersion, -1)
	return err
}

// To migrates the schema up or down to targetVersion and returns the version
// it started from.
func To(ctx context.Context, db *sql.DB, targetVersion int) (int, error) {
	currentVersion, all, err := prepare(ctx, db)
	if err != nil {
		return 0, err
	}

	switch {
	case targetVersion > currentVersion:
		_, err = MigrateUpTo(ctx, db, all, currentVersion, targetVersion)
	case targetVersion < currentVersion:
		_, err = MigrateDownTo(ctx, db, all, currentVersion, targetVersion)
	}
	return currentVersion, err
}
