// Package config assembles process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"rnacolumns/internal/columns"
	"rnacolumns/internal/cookie"
	"rnacolumns/internal/logging"
)

// Metrics backends.
const (
	MetricsPrometheus = "prometheus"
	MetricsExpvar     = "expvar"
	MetricsNone       = "none"
)

// Config holds every setting the commands need.
type Config struct {
	Data    DataConfig
	Columns columns.Options
	HTTP    HTTPConfig
	Log     LogConfig
	Metrics string
	Cookies cookie.Options
}

// DataConfig locates the expression catalogs.
type DataConfig struct {
	// File is the normalized expression table (.csv, .tsv or .xlsx).
	File string
	// SamplesFile optionally carries sample metadata for delimited tables.
	SamplesFile string
	// RawFile optionally holds raw (unnormalized) expression values.
	RawFile string
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr string
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string
	Format logging.Format
}

// Load reads a .env file from the working directory when present, then the
// environment:
//
//	RNACOLUMNS_DATA_FILE, RNACOLUMNS_SAMPLES_FILE, RNACOLUMNS_RAW_DATA_FILE
//	RNACOLUMNS_TIME_FRAGMENT (default 8)
//	RNACOLUMNS_ENABLE_ALL_STRATEGY (default false)
//	RNACOLUMNS_HTTP_ADDR (default :8080)
//	RNACOLUMNS_LOG_LEVEL (default info), RNACOLUMNS_LOG_FORMAT (text|terminal)
//	RNACOLUMNS_METRICS (prometheus|expvar|none, default prometheus)
//
// Cookie driver variables are read by cookie.OptionsFromEnv.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are skipped;
// variables already set in the environment win.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	timeFragment, err := getEnvIntOrDefault("RNACOLUMNS_TIME_FRAGMENT", columns.DefaultTimeFragment)
	if err != nil {
		return nil, err
	}
	if timeFragment < 0 {
		return nil, fmt.Errorf("RNACOLUMNS_TIME_FRAGMENT must not be negative, got %d", timeFragment)
	}
	allowAll, err := getEnvBoolOrDefault("RNACOLUMNS_ENABLE_ALL_STRATEGY", false)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(os.Getenv("RNACOLUMNS_LOG_FORMAT"))
	if err != nil {
		return nil, err
	}
	level := getEnvOrDefault("RNACOLUMNS_LOG_LEVEL", "info")
	if _, err := logging.ParseLevel(level); err != nil {
		return nil, err
	}
	metrics := strings.ToLower(getEnvOrDefault("RNACOLUMNS_METRICS", MetricsPrometheus))
	switch metrics {
	case MetricsPrometheus, MetricsExpvar, MetricsNone:
	default:
		return nil, fmt.Errorf("unknown metrics backend %q", metrics)
	}
	cookies, err := cookie.OptionsFromEnv()
	if err != nil {
		return nil, err
	}

	return &Config{
		Data: DataConfig{
			File:        os.Getenv("RNACOLUMNS_DATA_FILE"),
			SamplesFile: os.Getenv("RNACOLUMNS_SAMPLES_FILE"),
			RawFile:     os.Getenv("RNACOLUMNS_RAW_DATA_FILE"),
		},
		Columns: columns.Options{TimeFragment: timeFragment, AllowAll: allowAll},
		HTTP:    HTTPConfig{Addr: getEnvOrDefault("RNACOLUMNS_HTTP_ADDR", ":8080")},
		Log:     LogConfig{Level: level, Format: format},
		Metrics: metrics,
		Cookies: cookies,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
