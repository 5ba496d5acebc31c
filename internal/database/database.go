package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// backupSchema holds the DDL of the store_backups table per driver.
var backupSchema = map[string]string{
	DriverPostgres: `CREATE TABLE IF NOT EXISTS store_backups (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		payload TEXT NOT NULL,
		size_bytes BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	DriverSQLite: `CREATE TABLE IF NOT EXISTS store_backups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		payload TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

// Open connects to the database and makes sure the backup schema exists.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if _, ok := backupSchema[driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("database dsn required for %s", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// applySchema creates the tables the backup target writes to.
func applySchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, backupSchema[db.DriverName()]); err != nil {
		return fmt.Errorf("could not apply backup schema: %w", err)
	}
	return nil
}
