// Package core defines the cookie store abstraction shared by the store
// drivers and the higher-level configuration service.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver identifies a concrete cookie store backend implementation.
type Driver string

const (
	// DriverFilesystem stores each jar as a tab-delimited file (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverMemory keeps jars in process memory (tests).
	DriverMemory Driver = "memory"
	// DriverSQLite stores jars in a single SQLite table.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores jars in a Postgres table.
	DriverPostgres Driver = "postgres"
	// DriverS3 stores each jar as one S3 / MinIO object.
	DriverS3 Driver = "s3"
)

// Store is a small key-value store grouped into named jars. A jar holds the
// cookies for one workspace and purpose; missing keys are not errors.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, jar, key string) (string, bool, error)
	// Put creates or replaces the value for key.
	Put(ctx context.Context, jar, key, value string) error
	// Delete removes key. Returns (false, nil) if it was not present.
	Delete(ctx context.Context, jar, key string) (bool, error)
	// Keys lists the jar's keys in ascending order.
	Keys(ctx context.Context, jar string) ([]string, error)
	// Driver returns the configured backend driver.
	Driver() Driver
}

// ErrInvalidName is returned for jar names or keys a driver cannot store.
var ErrInvalidName = errors.New("cookie: invalid name")

// JarName qualifies a jar with the workspace that owns it.
func JarName(workspace, jar string) string {
	return workspace + "/" + jar
}

// ValidateJar rejects jar names that are empty or could escape a storage root.
func ValidateJar(jar string) error {
	if strings.TrimSpace(jar) == "" {
		return fmt.Errorf("%w: empty jar", ErrInvalidName)
	}
	if strings.HasPrefix(jar, "/") || strings.Contains(jar, "\\") {
		return fmt.Errorf("%w: jar %q", ErrInvalidName, jar)
	}
	for _, seg := range strings.Split(jar, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: jar %q", ErrInvalidName, jar)
		}
	}
	return nil
}

// ValidateEntry rejects keys and values that cannot round-trip through the
// line-oriented jar format.
func ValidateEntry(key, value string) error {
	if key == "" || strings.ContainsAny(key, "\t\r\n") {
		return fmt.Errorf("%w: key %q", ErrInvalidName, key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: value for %q contains a line break", ErrInvalidName, key)
	}
	return nil
}
