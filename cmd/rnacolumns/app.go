package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"rnacolumns/internal/catalog"
	"rnacolumns/internal/config"
	"rnacolumns/internal/cookie"
	"rnacolumns/internal/core"
	"rnacolumns/internal/logging"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	envFile  string
	dataFile string
	samples  string
	rawFile  string
	trace    bool
}

// app is the wired process: configuration, logger, store and service.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   cookie.Store
	svc     *core.Service
	metrics http.Handler
}

// newApp loads configuration and wires the service. Catalog files are only
// read when needCatalog is set.
func newApp(ctx context.Context, cmd *cobra.Command, flags *globalFlags, needCatalog bool) (*app, error) {
	var files []string
	if flags.envFile != "" {
		files = append(files, flags.envFile)
	}
	cfg, err := config.LoadFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.dataFile != "" {
		cfg.Data.File = flags.dataFile
	}
	if flags.samples != "" {
		cfg.Data.SamplesFile = flags.samples
	}
	if flags.rawFile != "" {
		cfg.Data.RawFile = flags.rawFile
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}

	opts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithColumnOptions(cfg.Columns),
	}
	var metricsHandler http.Handler
	switch cfg.Metrics {
	case config.MetricsPrometheus:
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, core.WithMetrics(core.NewPrometheusMetricsRecorder(reg)))
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	case config.MetricsExpvar:
		opts = append(opts, core.WithMetrics(core.NewExpvarMetricsRecorder("")))
		metricsHandler = expvar.Handler()
	}
	if flags.trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(cmd.ErrOrStderr())))
	}

	var data *catalog.Matrix
	if needCatalog {
		if cfg.Data.File == "" {
			return nil, errors.New("no expression data file: set RNACOLUMNS_DATA_FILE or --data")
		}
		if data, err = catalog.LoadFile(cfg.Data.File, cfg.Data.SamplesFile); err != nil {
			return nil, err
		}
		if cfg.Data.RawFile != "" {
			raw, err := catalog.LoadFile(cfg.Data.RawFile, cfg.Data.SamplesFile)
			if err != nil {
				return nil, err
			}
			opts = append(opts, core.WithRawCatalog(raw))
		}
		logger.DebugContext(ctx, "catalog loaded", "file", cfg.Data.File, "features", data.Len(), "samples", len(data.SampleNames()))
	}

	store, err := cookie.Open(ctx, cfg.Cookies)
	if err != nil {
		return nil, fmt.Errorf("open cookie store: %w", err)
	}
	// A nil *Matrix must not reach the service as a non-nil interface.
	var svc *core.Service
	if data != nil {
		svc = core.NewService(store, data, opts...)
	} else {
		svc = core.NewService(store, nil, opts...)
	}
	return &app{cfg: cfg, logger: logger, store: store, svc: svc, metrics: metricsHandler}, nil
}

func (a *app) Close() error {
	return cookie.Close(a.store)
}
