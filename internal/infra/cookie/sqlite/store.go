// Package sqlite implements a cookie Store on a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rnacolumns/internal/cookie/core"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store keeps every jar in the cookies table keyed by (jar, name).
type Store struct {
	db   *sql.DB
	path string
}

var _ core.Store = (*Store)(nil)

// New opens (and creates if needed) the SQLite database at path.
func New(path string) (*Store, error) {
	if path == "" {
		path = "rnacolumns.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc serializes writers per connection; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cookies (
		jar TEXT NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (jar, name)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cookies table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Driver returns the cookie driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the stored value for key.
func (s *Store) Get(ctx context.Context, jar, key string) (string, bool, error) {
	if err := core.ValidateJar(jar); err != nil {
		return "", false, err
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cookies WHERE jar = ? AND name = ?`, jar, key).Scan(&value)
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
		`INSERT INTO cookies(jar, name, value) VALUES(?, ?, ?) ON CONFLICT(jar, name) DO UPDATE SET value = excluded.value`,
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM cookies WHERE jar = ? AND name = ?`, jar, key)
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
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM cookies WHERE jar = ? ORDER BY name`, jar)
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
