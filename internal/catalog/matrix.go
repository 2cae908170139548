// Package catalog provides the in-memory expression matrix consulted when
// column configurations are resolved, along with loaders for the delimited
// and spreadsheet files it is usually read from.
package catalog

import (
	"fmt"
	"math"

	"rnacolumns/pkg/domain"
)

// Row is one feature's expression weights, indexed by sample column.
type Row struct {
	feature domain.Feature
	weights []float64
}

var _ domain.ExpressionRow = (*Row)(nil)

// Feature returns the feature the row describes.
func (r *Row) Feature() domain.Feature { return r.feature }

// Weight returns the recorded weight for a column. Unrecorded weights are
// stored as NaN and reported as absent.
func (r *Row) Weight(col int) (float64, bool) {
	if col < 0 || col >= len(r.weights) {
		return 0, false
	}
	w := r.weights[col]
	if math.IsNaN(w) {
		return 0, false
	}
	return w, true
}

// Matrix is an immutable-after-load expression table.
type Matrix struct {
	samples []domain.Sample
	index   map[string]int
	rows    []*Row
}

var _ domain.ExpressionData = (*Matrix)(nil)

// NewMatrix creates an empty matrix over the given samples. Sample names
// must be non-empty and unique.
func NewMatrix(samples []domain.Sample) (*Matrix, error) {
	m := &Matrix{
		samples: make([]domain.Sample, len(samples)),
		index:   make(map[string]int, len(samples)),
	}
	for i, s := range samples {
		if s.Name == "" {
			return nil, fmt.Errorf("sample column %d has no name", i)
		}
		if _, dup := m.index[s.Name]; dup {
			return nil, fmt.Errorf("duplicate sample %s", s.Name)
		}
		m.samples[i] = s
		m.index[s.Name] = i
	}
	return m, nil
}

// AddRow appends a feature row. weights must hold one entry per sample; use
// NaN for samples without a measurement.
func (m *Matrix) AddRow(feature domain.Feature, weights []float64) error {
	if len(weights) != len(m.samples) {
		return fmt.Errorf("feature %s has %d weights, expected %d", feature.ID, len(weights), len(m.samples))
	}
	m.rows = append(m.rows, &Row{feature: feature, weights: append([]float64(nil), weights...)})
	return nil
}

// UpdateSample replaces the metadata for a named sample. It reports false
// when the sample is not in the matrix.
func (m *Matrix) UpdateSample(s domain.Sample) bool {
	idx, ok := m.index[s.Name]
	if !ok {
		return false
	}
	m.samples[idx] = s
	return true
}

// ColumnIndex resolves a sample name to its column.
func (m *Matrix) ColumnIndex(name string) (int, bool) {
	idx, ok := m.index[name]
	return idx, ok
}

// SampleAt returns the metadata for a column.
func (m *Matrix) SampleAt(col int) domain.Sample { return m.samples[col] }

// SampleNames lists sample names in column order.
func (m *Matrix) SampleNames() []string {
	out := make([]string, len(m.samples))
	for i, s := range m.samples {
		out[i] = s.Name
	}
	return out
}

// Rows returns the feature rows in load order.
func (m *Matrix) Rows() []domain.ExpressionRow {
	out := make([]domain.ExpressionRow, len(m.rows))
	for i, r := range m.rows {
		out[i] = r
	}
	return out
}

// Len returns the number of feature rows.
func (m *Matrix) Len() int { return len(m.rows) }
