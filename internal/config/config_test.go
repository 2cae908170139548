package config

import (
	"os"
	"path/filepath"
	"testing"

	"rnacolumns/internal/columns"
	"rnacolumns/internal/cookie"
	"rnacolumns/internal/logging"
)

var envKeys = []string{
	"RNACOLUMNS_DATA_FILE",
	"RNACOLUMNS_SAMPLES_FILE",
	"RNACOLUMNS_RAW_DATA_FILE",
	"RNACOLUMNS_TIME_FRAGMENT",
	"RNACOLUMNS_ENABLE_ALL_STRATEGY",
	"RNACOLUMNS_HTTP_ADDR",
	"RNACOLUMNS_LOG_LEVEL",
	"RNACOLUMNS_LOG_FORMAT",
	"RNACOLUMNS_METRICS",
	"RNACOLUMNS_COOKIE_DRIVER",
	"RNACOLUMNS_COOKIE_FS_ROOT",
	"RNACOLUMNS_SQLITE_PATH",
	"RNACOLUMNS_POSTGRES_DSN",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("unset %s: %v", k, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Columns != columns.DefaultOptions() {
		t.Fatalf("unexpected column options %+v", cfg.Columns)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Metrics != MetricsPrometheus {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != logging.FormatText {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Cookies.Driver != cookie.DriverFilesystem || cfg.Cookies.SQLitePath != "./rnacolumns.db" {
		t.Fatalf("unexpected cookie options %+v", cfg.Cookies)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("RNACOLUMNS_DATA_FILE", "expr.tsv")
	t.Setenv("RNACOLUMNS_SAMPLES_FILE", "samples.tsv")
	t.Setenv("RNACOLUMNS_RAW_DATA_FILE", "raw.tsv")
	t.Setenv("RNACOLUMNS_TIME_FRAGMENT", "3")
	t.Setenv("RNACOLUMNS_ENABLE_ALL_STRATEGY", "true")
	t.Setenv("RNACOLUMNS_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("RNACOLUMNS_LOG_LEVEL", "debug")
	t.Setenv("RNACOLUMNS_LOG_FORMAT", "terminal")
	t.Setenv("RNACOLUMNS_METRICS", "Expvar")
	t.Setenv("RNACOLUMNS_COOKIE_DRIVER", "memory")

	cfg, err := LoadFiles()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DataConfig{File: "expr.tsv", SamplesFile: "samples.tsv", RawFile: "raw.tsv"}
	if cfg.Data != want {
		t.Fatalf("unexpected data config %+v", cfg.Data)
	}
	if cfg.Columns != (columns.Options{TimeFragment: 3, AllowAll: true}) {
		t.Fatalf("unexpected column options %+v", cfg.Columns)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9000" || cfg.Metrics != MetricsExpvar {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Log.Format != logging.FormatTerminal || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Cookies.Driver != cookie.DriverMemory {
		t.Fatalf("unexpected driver %s", cfg.Cookies.Driver)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	body := "RNACOLUMNS_DATA_FILE=from-file.csv\nRNACOLUMNS_HTTP_ADDR=:7000\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("RNACOLUMNS_HTTP_ADDR", ":6000")

	cfg, err := LoadFiles(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Data.File != "from-file.csv" {
		t.Fatalf("expected data file from .env, got %q", cfg.Data.File)
	}
	if cfg.HTTP.Addr != ":6000" {
		t.Fatalf("environment must win over .env, got %q", cfg.HTTP.Addr)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"RNACOLUMNS_TIME_FRAGMENT":       "eight",
		"RNACOLUMNS_ENABLE_ALL_STRATEGY": "maybe",
		"RNACOLUMNS_LOG_LEVEL":           "loud",
		"RNACOLUMNS_LOG_FORMAT":          "xml",
		"RNACOLUMNS_METRICS":             "statsd",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := LoadFiles(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
	t.Run("negative fragment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RNACOLUMNS_TIME_FRAGMENT", "-1")
		if _, err := LoadFiles(); err == nil {
			t.Fatalf("expected error for negative fragment")
		}
	})
}
