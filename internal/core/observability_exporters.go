package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var expvarSeq uint64

// ExpvarMetricsRecorder publishes operation timings, results and column
// counts as one expvar value.
type ExpvarMetricsRecorder struct {
	name string

	mu           sync.Mutex
	durations    map[string]float64
	results      map[string]map[Result]int64
	columnsAdded map[string]int64
	staleColumns int64
}

// ExpvarMetricsSnapshot is the published view of an ExpvarMetricsRecorder.
type ExpvarMetricsSnapshot struct {
	DurationsMS  map[string]float64          `json:"durations_ms_total"`
	Results      map[string]map[Result]int64 `json:"results_total"`
	ColumnsAdded map[string]int64            `json:"columns_added_total"`
	StaleColumns int64                       `json:"stale_columns_total"`
	RecordedAt   time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder publishes a recorder under name, or under a
// generated rnacolumns_service_metrics_N name when name is empty.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		name = fmt.Sprintf("rnacolumns_service_metrics_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	rec := &ExpvarMetricsRecorder{
		name:         name,
		durations:    make(map[string]float64),
		results:      make(map[string]map[Result]int64),
		columnsAdded: make(map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any { return rec.Snapshot() }))
	return rec
}

// Name returns the expvar key.
func (r *ExpvarMetricsRecorder) Name() string { return r.name }

// Snapshot copies the current totals.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := make(map[string]map[Result]int64, len(r.results))
	for op, counts := range r.results {
		results[op] = maps.Clone(counts)
	}
	return ExpvarMetricsSnapshot{
		DurationsMS:  maps.Clone(r.durations),
		Results:      results,
		ColumnsAdded: maps.Clone(r.columnsAdded),
		StaleColumns: r.staleColumns,
		RecordedAt:   time.Now().UTC(),
	}
}

// Observe implements MetricsRecorder.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, result Result, duration time.Duration) {
	if operation == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[operation] += float64(duration) / float64(time.Millisecond)
	counts, ok := r.results[operation]
	if !ok {
		counts = make(map[Result]int64, 3)
		r.results[operation] = counts
	}
	counts[result]++
}

// ObserveColumns implements ColumnsRecorder.
func (r *ExpvarMetricsRecorder) ObserveColumns(_ context.Context, strategy string, added, dropped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if added > 0 {
		r.columnsAdded[strategy] += int64(added)
	}
	r.staleColumns += int64(dropped)
}

// PrometheusMetricsRecorder exports operation latency and results along with
// column counters.
type PrometheusMetricsRecorder struct {
	durations    *prometheus.HistogramVec
	results      *prometheus.CounterVec
	columnsAdded *prometheus.CounterVec
	staleColumns prometheus.Counter
}

// NewPrometheusMetricsRecorder registers the service collectors with reg.
// A nil reg selects prometheus.DefaultRegisterer.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PrometheusMetricsRecorder{
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rnacolumns_operation_duration_seconds",
			Help:    "Column service operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		}, []string{"operation"}),
		results: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rnacolumns_operations_total",
			Help: "Column service operations by result",
		}, []string{"operation", "result"}),
		columnsAdded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rnacolumns_columns_added_total",
			Help: "Columns added to configurations by strategy",
		}, []string{"strategy"}),
		staleColumns: factory.NewCounter(prometheus.CounterOpts{
			Name: "rnacolumns_stale_columns_total",
			Help: "Stored column tokens that no longer resolve against the catalog",
		}),
	}
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, result Result, duration time.Duration) {
	if operation == "" {
		return
	}
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
	r.results.WithLabelValues(operation, string(result)).Inc()
}

// ObserveColumns implements ColumnsRecorder.
func (r *PrometheusMetricsRecorder) ObserveColumns(_ context.Context, strategy string, added, dropped int) {
	if added > 0 {
		r.columnsAdded.WithLabelValues(strategy).Add(float64(added))
	}
	if dropped > 0 {
		r.staleColumns.Add(float64(dropped))
	}
}

// JSONTraceEntry is one finished span.
type JSONTraceEntry struct {
	Operation  string            `json:"operation"`
	RequestID  string            `json:"request_id,omitempty"`
	Status     Result            `json:"status"`
	Attributes map[string]string `json:"attributes,omitempty"`
	DurationMS float64           `json:"duration_ms"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	EndedAt    time.Time         `json:"ended_at"`
}

// JSONTraceTracer writes finished spans as JSON lines and keeps them for
// Entries.
type JSONTraceTracer struct {
	mu      sync.Mutex
	entries []JSONTraceEntry
	enc     *json.Encoder
}

// NewJSONTracer returns a tracer writing to w. A nil w only retains spans.
func NewJSONTracer(w io.Writer) *JSONTraceTracer {
	t := &JSONTraceTracer{}
	if w != nil {
		t.enc = json.NewEncoder(w)
	}
	return t
}

// Entries returns a copy of the finished spans.
func (t *JSONTraceTracer) Entries() []JSONTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]JSONTraceEntry(nil), t.entries...)
}

// Start implements Tracer.
func (t *JSONTraceTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonTraceSpan{
		tracer: t,
		entry: JSONTraceEntry{
			Operation: operation,
			RequestID: RequestIDFrom(ctx),
			StartedAt: time.Now().UTC(),
		},
	}
}

type jsonTraceSpan struct {
	tracer *JSONTraceTracer
	mu     sync.Mutex
	entry  JSONTraceEntry
}

func (s *jsonTraceSpan) Annotate(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry.Attributes == nil {
		s.entry.Attributes = make(map[string]string)
	}
	s.entry.Attributes[key] = value
}

func (s *jsonTraceSpan) End(err error) {
	s.mu.Lock()
	entry := s.entry
	s.mu.Unlock()
	entry.EndedAt = time.Now().UTC()
	entry.DurationMS = float64(entry.EndedAt.Sub(entry.StartedAt)) / float64(time.Millisecond)
	entry.Status = resultOf(err)
	if err != nil {
		entry.Error = err.Error()
	}

	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	s.tracer.entries = append(s.tracer.entries, entry)
	if s.tracer.enc != nil {
		_ = s.tracer.enc.Encode(entry)
	}
}
