package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rnacolumns/pkg/domain"
)

// Fixed leading columns of an expression table; sample columns follow.
var expressionHeader = []string{"feature_id", "gene", "contig", "start", "end", "baseline"}

// Sample metadata columns.
var sampleHeader = []string{"name", "production", "optical_density", "suspicious"}

// LoadFile reads an expression matrix from a .csv, .tsv or .xlsx file.
// samplesPath optionally names a delimited sample-metadata file; spreadsheets
// carry their metadata on a second sheet instead.
func LoadFile(path, samplesPath string) (*Matrix, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path)
	}
	comma := delimiterFor(path, 0)
	if comma == 0 {
		return nil, fmt.Errorf("unsupported expression file type: %s", path)
	}
	return loadDelimited(path, samplesPath, comma)
}

// delimiterFor picks the field separator from a file extension.
func delimiterFor(path string, fallback rune) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ','
	case ".tsv", ".tab", ".txt":
		return '\t'
	default:
		return fallback
	}
}

func loadDelimited(path, samplesPath string, comma rune) (*Matrix, error) {
	records, err := readRecords(path, comma)
	if err != nil {
		return nil, err
	}
	var sampleRecords [][]string
	if samplesPath != "" {
		sampleRecords, err = readRecords(samplesPath, delimiterFor(samplesPath, comma))
		if err != nil {
			return nil, err
		}
	}
	return FromRecords(records, sampleRecords)
}

func readRecords(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	records, err := ReadDelimited(f, comma)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// ReadDelimited reads every record of a delimited stream. Rows may have
// differing lengths and lines starting with '#' are skipped. Fields are
// trimmed by the record parsers, not here, so empty tab fields survive.
func ReadDelimited(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	if comma == '\t' {
		reader.LazyQuotes = true
	}
	return reader.ReadAll()
}

// FromRecords builds a matrix from parsed expression records and optional
// sample-metadata records. Both include their header rows.
func FromRecords(records, sampleRecords [][]string) (*Matrix, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("expression table is empty")
	}
	header := records[0]
	if len(header) <= len(expressionHeader) {
		return nil, fmt.Errorf("expression table has no sample columns")
	}
	for i, want := range expressionHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("expression header column %d is %q, expected %q", i+1, header[i], want)
		}
	}
	samples := make([]domain.Sample, 0, len(header)-len(expressionHeader))
	for _, name := range header[len(expressionHeader):] {
		samples = append(samples, domain.NewSample(strings.TrimSpace(name)))
	}
	m, err := NewMatrix(samples)
	if err != nil {
		return nil, err
	}
	for lineNo, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		feature, weights, err := parseExpressionRecord(rec, len(samples))
		if err != nil {
			return nil, fmt.Errorf("expression row %d: %w", lineNo+2, err)
		}
		if err := m.AddRow(feature, weights); err != nil {
			return nil, err
		}
	}
	if len(sampleRecords) > 0 {
		if err := applySampleRecords(m, sampleRecords); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func parseExpressionRecord(rec []string, sampleCount int) (domain.Feature, []float64, error) {
	cell := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	var f domain.Feature
	f.ID = cell(0)
	if f.ID == "" {
		return f, nil, fmt.Errorf("missing feature_id")
	}
	f.Gene = cell(1)
	f.Location.Contig = cell(2)
	var err error
	if f.Location.Start, err = parseInt(cell(3)); err != nil {
		return f, nil, fmt.Errorf("start: %w", err)
	}
	if f.Location.End, err = parseInt(cell(4)); err != nil {
		return f, nil, fmt.Errorf("end: %w", err)
	}
	if f.Baseline, err = parseFloat(cell(5)); err != nil {
		return f, nil, fmt.Errorf("baseline: %w", err)
	}
	if math.IsNaN(f.Baseline) {
		f.Baseline = 0
	}
	weights := make([]float64, sampleCount)
	for i := range weights {
		if weights[i], err = parseFloat(cell(len(expressionHeader) + i)); err != nil {
			return f, nil, fmt.Errorf("sample column %d: %w", i+1, err)
		}
	}
	return f, weights, nil
}

func applySampleRecords(m *Matrix, records [][]string) error {
	header := records[0]
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols[sampleHeader[0]]; !ok {
		return fmt.Errorf("sample metadata has no %q column", sampleHeader[0])
	}
	cell := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	for lineNo, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		s := domain.NewSample(cell(rec, "name"))
		var err error
		if s.Production, err = parseFloat(cell(rec, "production")); err != nil {
			return fmt.Errorf("sample row %d production: %w", lineNo+2, err)
		}
		if s.OpticalDensity, err = parseFloat(cell(rec, "optical_density")); err != nil {
			return fmt.Errorf("sample row %d optical_density: %w", lineNo+2, err)
		}
		s.Suspicious = parseFlag(cell(rec, "suspicious"))
		// metadata for samples outside the matrix is ignored
		m.UpdateSample(s)
	}
	return nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseFloat maps an empty cell to NaN.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "t", "true", "y", "yes":
		return true
	}
	return false
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
