package turso

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	_ "github.com/tursodatabase/go-libsql"
)

// Options selects the store backing the dashboard. A non-empty URL connects
// to a remote libsql server; otherwise Path names a local database file.
type Options struct {
	Path      string
	URL       string
	AuthToken string
}

// DB is the store session shared by every repository. It is created once at
// startup and passed explicitly to whoever needs it.
type DB struct {
	*sql.DB
	path   string
	remote bool
}

// NewDB opens the store described by opts and verifies the connection.
func NewDB(opts Options) (*DB, error) {
	if opts.URL != "" {
		return newRemoteDB(opts.URL, opts.AuthToken)
	}
	return newLocalDB(opts.Path)
}

func newLocalDB(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := openDB("file:"+cleanPath, foreignKeysOn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writes and keeps per-connection
	// pragmas in effect for every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.WithField("path", cleanPath).Debug("opened local database")
	return &DB{DB: db, path: cleanPath}, nil
}

func newRemoteDB(url, authToken string) (*DB, error) {
	connStr := url
	if authToken != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}
	db, err := openDB(connStr, foreignKeysOn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Turso aggressively closes idle streams, so never keep idle connections.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithField("url", url).Debug("connected to remote database")
	return &DB{DB: db, remote: true}, nil
}

// Path returns the local database file, or "" for a remote store.
func (d *DB) Path() string {
	return d.path
}

// Remote reports whether the store is a remote libsql server.
func (d *DB) Remote() bool {
	return d.remote
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// ExportTo writes a consistent snapshot of the store to path.
func (d *DB) ExportTo(ctx context.Context, path string) error {
	if d.remote {
		return fmt.Errorf("database export requires a local database")
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to replace %s: %w", path, err)
		}
	}
	if _, err := d.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("failed to export database: %w", err)
	}
	return nil
}

var importTables = []string{"funnel_steps", "registrations", "hypotheses"}

// ImportFrom replaces the funnel tables with the contents of the SQLite file
// at path. The copy runs in one transaction on a pinned connection so a
// failing import leaves the current data untouched.
func (d *DB) ImportFrom(ctx context.Context, path string) error {
	if d.remote {
		return fmt.Errorf("database import requires a local database")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	conn, err := d.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "ATTACH DATABASE ? AS src", path); err != nil {
		return fmt.Errorf("failed to attach import file: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "DETACH DATABASE src"); err != nil {
			log.WithError(err).Warn("failed to detach import file")
		}
	}()

	var found int
	err = conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM src.sqlite_master
		WHERE type = 'table' AND name IN ('funnel_steps', 'registrations', 'hypotheses')
	`).Scan(&found)
	if err != nil {
		return fmt.Errorf("failed to inspect import file: %w", err)
	}
	if found != len(importTables) {
		return fmt.Errorf("import file must contain the tables %s", strings.Join(importTables, ", "))
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`DELETE FROM registrations`,
		`DELETE FROM hypotheses`,
		`DELETE FROM funnel_steps`,
		`INSERT INTO funnel_steps (id, name, order_number)
			SELECT CAST(id AS TEXT), name, order_number FROM src.funnel_steps`,
		`INSERT INTO registrations (id, funnel_step_id, description, realizations, date)
			SELECT CAST(id AS TEXT), CAST(funnel_step_id AS TEXT), description, realizations, date(date)
			FROM src.registrations`,
		`INSERT INTO hypotheses (id, name, description, date)
			SELECT CAST(id AS TEXT), name, description, date(date) FROM src.hypotheses`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to import data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
