package turso

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
)

const driverName = "libsql"

// foreignKeysOn must hold on every connection: SQLite scopes the pragma to
// the connection, and database/sql may replace a connection at any time.
const foreignKeysOn = "PRAGMA foreign_keys = ON"

// sessionConnector opens libsql connections and runs the session pragmas on
// each one before handing it to the pool.
type sessionConnector struct {
	driver  driver.Driver
	base    driver.Connector
	dsn     string
	pragmas []string
}

// openDB opens a pool whose connections all start with pragmas applied.
func openDB(dsn string, pragmas ...string) (*sql.DB, error) {
	probe, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	drv := probe.Driver()
	_ = probe.Close()

	c := &sessionConnector{driver: drv, dsn: dsn, pragmas: pragmas}
	if dc, ok := drv.(driver.DriverContext); ok {
		base, err := dc.OpenConnector(dsn)
		if err != nil {
			return nil, err
		}
		c.base = base
	}
	return sql.OpenDB(c), nil
}

func (c *sessionConnector) Connect(ctx context.Context) (driver.Conn, error) {
	var (
		conn driver.Conn
		err  error
	)
	if c.base != nil {
		conn, err = c.base.Connect(ctx)
	} else {
		conn, err = c.driver.Open(c.dsn)
	}
	if err != nil {
		return nil, err
	}

	for _, pragma := range c.pragmas {
		if err := execOn(ctx, conn, pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return conn, nil
}

func (c *sessionConnector) Driver() driver.Driver {
	return c.driver
}

func execOn(ctx context.Context, conn driver.Conn, query string) error {
	if execer, ok := conn.(driver.ExecerContext); ok {
		_, err := execer.ExecContext(ctx, query, nil)
		if err != driver.ErrSkip {
			return err
		}
	}

	stmt, err := conn.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(nil) //nolint:staticcheck
	return err
}
