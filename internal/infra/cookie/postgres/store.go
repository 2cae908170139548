// Package postgres provides a Postgres-backed cookie store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"rnacolumns/internal/cookie/core"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the cookie interface.
var _ core.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/rnacolumns?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store keeps cookies in a single table keyed by (jar, name).
type Store struct {
	db *sql.DB
}

// New opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN) and ensures the cookies table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS cookies (
		jar TEXT NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (jar, name)
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure cookies table: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Driver returns the cookie driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// Get returns the stored value for key.
func (s *Store) Get(ctx context.Context, jar, key string) (string, bool, error) {
	if err := core.ValidateJar(jar); err != nil {
		return "", false, err
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cookies WHERE jar = $1 AND name = $2`, jar, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select cookie: %w", err)
	}
	return value, true, nil
}

// Put creates or replaces key.
func (s *Store) Put(ctx context.Context, jar, key, value string) error {
	if err := core.ValidateJar(jar); err != nil {
		return err
	}
	if err := core.ValidateEntry(key, value); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO cookies(jar,name,value) VALUES($1,$2,$3) ON CONFLICT(jar,name) DO UPDATE SET value=EXCLUDED.value`,
		jar, key, value); err != nil {
		return fmt.Errorf("upsert cookie: %w", err)
	}
	return nil
}

// Delete removes key returning true if it existed.
func (s *Store) Delete(ctx context.Context, jar, key string) (bool, error) {
	if err := core.ValidateJar(jar); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM cookies WHERE jar = $1 AND name = $2`, jar, key)
	if err != nil {
		return false, fmt.Errorf("delete cookie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Keys lists the jar's keys in ascending order.
func (s *Store) Keys(ctx context.Context, jar string) ([]string, error) {
	if err := core.ValidateJar(jar); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM cookies WHERE jar = $1 ORDER BY name`, jar)
	if err != nil {
		return nil, fmt.Errorf("select keys: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
