package cookie

import (
	"context"
	"fmt"
	"io"
	"os"

	"rnacolumns/internal/infra/cookie/fs"
	"rnacolumns/internal/infra/cookie/memory"
	"rnacolumns/internal/infra/cookie/postgres"
	"rnacolumns/internal/infra/cookie/s3"
	"rnacolumns/internal/infra/cookie/sqlite"
)

// S3Config re-exports the infra S3 configuration type.
type S3Config = s3.Config

// Options selects and configures a cookie driver.
type Options struct {
	Driver      Driver
	FSRoot      string
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// OptionsFromEnv reads driver selection from the environment.
//
//	RNACOLUMNS_COOKIE_DRIVER: fs|memory|sqlite|postgres|s3 (default fs)
//	RNACOLUMNS_COOKIE_FS_ROOT: directory root when driver=fs (default ./cookies)
//	RNACOLUMNS_SQLITE_PATH: database file when driver=sqlite (default ./rnacolumns.db)
//	RNACOLUMNS_POSTGRES_DSN: connection string when driver=postgres
//	(S3 specific variables documented in internal/infra/cookie/s3)
func OptionsFromEnv() (Options, error) {
	opts := Options{
		Driver:      Driver(os.Getenv("RNACOLUMNS_COOKIE_DRIVER")),
		FSRoot:      os.Getenv("RNACOLUMNS_COOKIE_FS_ROOT"),
		SQLitePath:  os.Getenv("RNACOLUMNS_SQLITE_PATH"),
		PostgresDSN: os.Getenv("RNACOLUMNS_POSTGRES_DSN"),
	}
	if opts.Driver == "" {
		opts.Driver = DriverFilesystem
	}
	if opts.SQLitePath == "" {
		opts.SQLitePath = "./rnacolumns.db"
	}
	if opts.Driver == DriverS3 {
		cfg, err := s3.ConfigFromEnv()
		if err != nil {
			return Options{}, err
		}
		opts.S3 = cfg
	}
	return opts, nil
}

// Open constructs the Store selected by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFilesystem, "":
		return fs.New(opts.FSRoot)
	case DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		return sqlite.New(opts.SQLitePath)
	case DriverPostgres:
		return postgres.New(ctx, opts.PostgresDSN)
	case DriverS3:
		return s3.New(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown cookie driver %s", opts.Driver)
	}
}

// OpenFromEnv selects a Store implementation using environment variables.
func OpenFromEnv(ctx context.Context) (Store, error) {
	opts, err := OptionsFromEnv()
	if err != nil {
		return nil, err
	}
	return Open(ctx, opts)
}

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memory.New() }

// NewMockS3ForTests exposes the in-memory S3 mock for cross-package tests.
func NewMockS3ForTests() Store { return s3.NewMockForTests() }

// Close releases driver resources when the store holds any.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
