// Package cookie re-exports core cookie store abstractions for stable imports
// and selects a driver implementation.
package cookie

import (
	"rnacolumns/internal/cookie/core"
)

type (
	// Driver identifies a cookie backend driver.
	Driver = core.Driver
	// Store is the interface for cookie storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
	// DriverSQLite is the embedded SQLite driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the Postgres driver.
	DriverPostgres = core.DriverPostgres
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
)

// ErrInvalidName indicates a jar or key a driver cannot store.
var ErrInvalidName = core.ErrInvalidName

// JarName qualifies a jar with the workspace that owns it.
func JarName(workspace, jar string) string { return core.JarName(workspace, jar) }

// ValidateJarName rejects jar names no driver can store.
func ValidateJarName(jar string) error { return core.ValidateJar(jar) }
