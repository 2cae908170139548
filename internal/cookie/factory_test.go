package cookie

import (
	"context"
	"path/filepath"
	"testing"

	"rnacolumns/internal/cookie/cookietest"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := []struct {
		opts Options
		want Driver
	}{
		{Options{Driver: DriverFilesystem, FSRoot: filepath.Join(dir, "fs")}, DriverFilesystem},
		{Options{FSRoot: filepath.Join(dir, "default")}, DriverFilesystem},
		{Options{Driver: DriverMemory}, DriverMemory},
		{Options{Driver: DriverSQLite, SQLitePath: filepath.Join(dir, "c.db")}, DriverSQLite},
	}
	for _, tc := range cases {
		s, err := Open(ctx, tc.opts)
		if err != nil {
			t.Fatalf("open %+v: %v", tc.opts, err)
		}
		if s.Driver() != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, s.Driver())
		}
		if err := Close(s); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestOpenInvalidDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "nope"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if _, err := Open(context.Background(), Options{Driver: DriverS3}); err == nil {
		t.Fatalf("expected error for s3 without bucket")
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("RNACOLUMNS_COOKIE_DRIVER", "")
	t.Setenv("RNACOLUMNS_COOKIE_FS_ROOT", "/tmp/cookies")
	t.Setenv("RNACOLUMNS_SQLITE_PATH", "")
	t.Setenv("RNACOLUMNS_POSTGRES_DSN", "postgres://db/x")
	opts, err := OptionsFromEnv()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Driver != DriverFilesystem || opts.FSRoot != "/tmp/cookies" || opts.SQLitePath != "./rnacolumns.db" || opts.PostgresDSN != "postgres://db/x" {
		t.Fatalf("unexpected options %+v", opts)
	}

	t.Setenv("RNACOLUMNS_COOKIE_DRIVER", "s3")
	t.Setenv("RNACOLUMNS_COOKIE_S3_BUCKET", "")
	if _, err := OptionsFromEnv(); err == nil {
		t.Fatalf("expected missing bucket error")
	}
	t.Setenv("RNACOLUMNS_COOKIE_S3_BUCKET", "cookies")
	opts, err = OptionsFromEnv()
	if err != nil || opts.S3.Bucket != "cookies" {
		t.Fatalf("expected s3 bucket from env, got %+v %v", opts, err)
	}
}

func TestOpenFromEnvMemory(t *testing.T) {
	t.Setenv("RNACOLUMNS_COOKIE_DRIVER", "memory")
	s, err := OpenFromEnv(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	cookietest.Run(t, s)
}

func TestFacadeHelpers(t *testing.T) {
	if NewMemory().Driver() != DriverMemory {
		t.Fatalf("expected memory driver")
	}
	cookietest.Run(t, NewMockS3ForTests())
	if JarName("ws", "web.rna.columns") != "ws/web.rna.columns" {
		t.Fatalf("unexpected jar name")
	}
}
