// Package core runs column requests against a sample catalog and persists
// the resulting configurations in a cookie store.
package core

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"rnacolumns/internal/columns"
	"rnacolumns/internal/cookie"
	"rnacolumns/pkg/domain"
)

// ErrNoCatalog is returned when a request needs expression data the service
// was not built with.
var ErrNoCatalog = errors.New("no expression catalog configured")

// Service applies column requests and manages named configurations.
type Service struct {
	store   cookie.Store
	catalog domain.ExpressionData
	raw     domain.ExpressionData
	opts    columns.Options
	logger  *slog.Logger
	metrics MetricsRecorder
	tracer  Tracer
	now     func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithRawCatalog sets the alternate catalog selected by Request.Raw.
func WithRawCatalog(raw domain.ExpressionData) ServiceOption {
	return func(s *Service) { s.raw = raw }
}

// WithColumnOptions sets the strategy options (time fragment, ALL mode).
func WithColumnOptions(opts columns.Options) ServiceOption {
	return func(s *Service) { s.opts = opts }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock overrides the time source used for durations.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a service over store and catalog. catalog may be nil
// for configuration management only; column requests then fail with
// ErrNoCatalog.
func NewService(store cookie.Store, catalog domain.ExpressionData, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
		opts:    columns.DefaultOptions(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying cookie store.
func (s *Service) Store() cookie.Store { return s.store }

// ColumnOptions returns the strategy options in effect.
func (s *Service) ColumnOptions() columns.Options { return s.opts }

// Strategies lists the strategies requests may select.
func (s *Service) Strategies() []columns.Strategy { return columns.Strategies(s.opts) }

// HasRawCatalog reports whether Request.Raw can be honoured.
func (s *Service) HasRawCatalog() bool { return s.raw != nil }

func (s *Service) catalogFor(raw bool) (domain.ExpressionData, error) {
	data := s.catalog
	if raw && s.raw != nil {
		data = s.raw
	}
	if data == nil {
		return nil, ErrNoCatalog
	}
	return data, nil
}

// Samples returns the catalog's samples in column order.
func (s *Service) Samples(raw bool) ([]domain.Sample, error) {
	data, err := s.catalogFor(raw)
	if err != nil {
		return nil, err
	}
	names := data.SampleNames()
	out := make([]domain.Sample, len(names))
	for i := range names {
		out[i] = data.SampleAt(i)
	}
	return out, nil
}

// Describe resolves a persisted configuration string without touching the store.
func (s *Service) Describe(rawConfig string, raw bool) ([]columns.Column, int, error) {
	data, err := s.catalogFor(raw)
	if err != nil {
		return nil, 0, err
	}
	cfg := columns.Decode(rawConfig)
	cols := cfg.Columns(data)
	return cols, columns.DisplaySortIndex(cfg.SortIndex, len(cols)), nil
}

func jarFor(workspace string) (string, error) {
	if workspace == "" {
		return "", domain.NewConfigError("workspace", "no workspace specified")
	}
	jar := cookie.JarName(workspace, columns.CookieJar)
	if err := cookie.ValidateJarName(jar); err != nil {
		return "", domain.NewConfigError("workspace", "invalid workspace %q", workspace)
	}
	return jar, nil
}

// configName maps a requested configuration name to its stored form; empty
// selects the default configuration.
func configName(name string) (string, error) {
	if name == "" {
		return columns.DefaultConfiguration, nil
	}
	return columns.NormalizeConfigName(name)
}
