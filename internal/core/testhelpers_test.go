package core

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rnacolumns/internal/catalog"
	"rnacolumns/internal/cookie"
	"rnacolumns/pkg/domain"
)

const (
	ws    = "ws1"
	ref   = "Ref"
	m1t3  = "7_0_0_A_asdO_000_D000_0_3_M1"
	m1t9  = "7_0_0_A_asdO_000_D000_0_9_M1"
	m1t12 = "7_0_0_A_asdO_000_D000_0_12_M1"
	m2t9  = "7_0_0_A_asdO_000_D000_0_9_M2"
	m2t12 = "7_0_0_A_asdO_000_D000_0_12_M2"
)

var absent = math.NaN

var fixtureSamples = []string{ref, m1t3, m1t9, m1t12, m2t9, m2t12}

// newFixtureMatrix builds three features on one contig. Weight order follows
// fixtureSamples.
func newFixtureMatrix(t *testing.T) *catalog.Matrix {
	t.Helper()
	samples := make([]domain.Sample, len(fixtureSamples))
	for i, n := range fixtureSamples {
		samples[i] = domain.NewSample(n)
	}
	m, err := catalog.NewMatrix(samples)
	require.NoError(t, err)
	rows := []struct {
		id       string
		start    int
		baseline float64
		weights  []float64
	}{
		{"fig|1.peg.1", 100, 2, []float64{4, 1, 2, 3, 1, 1}},
		{"fig|1.peg.2", 10, 1, []float64{9, 2, 8, 1, 4, 2}},
		{"fig|1.peg.3", 50, 4, []float64{1, 3, absent(), 6, 2, 3}},
	}
	for _, r := range rows {
		f := domain.Feature{ID: r.id, Location: domain.Location{Contig: "c1", Start: r.start, End: r.start + 99}, Baseline: r.baseline}
		require.NoError(t, m.AddRow(f, r.weights))
	}
	return m
}

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, cookie.Store) {
	t.Helper()
	store := cookie.NewMemory()
	return NewService(store, newFixtureMatrix(t), opts...), store
}

func stored(t *testing.T, store cookie.Store, name string) string {
	t.Helper()
	v, ok, err := store.Get(context.Background(), cookie.JarName(ws, "web.rna.columns"), "Columns."+name)
	require.NoError(t, err)
	require.True(t, ok, "configuration %s not stored", name)
	return v
}

func seed(t *testing.T, store cookie.Store, name, raw string) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), cookie.JarName(ws, "web.rna.columns"), "Columns."+name, raw))
}

func rowIDs(out Outcome) []string {
	ids := make([]string, len(out.Table.Rows))
	for i, r := range out.Table.Rows {
		ids[i] = r.Feature.ID
	}
	return ids
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, result Result, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: result == ResultSuccess})
}

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
