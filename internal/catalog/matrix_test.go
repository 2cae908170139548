package catalog

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"rnacolumns/pkg/domain"
)

const expressionCSV = `feature_id,gene,contig,start,end,baseline,S_3_M1,S_9_M1,T_9_M1
# comment line
fig|1.peg.1,thrA,c1,100,400,2.5,10,20,
fig|1.peg.2,,c1,900,600,0,1.5,,4
`

const samplesCSV = `name,production,optical_density,suspicious
S_3_M1,1.25,3.5,
T_9_M1,,,Y
unknown,1,1,1
`

func TestFromRecords(t *testing.T) {
	records, err := ReadDelimited(strings.NewReader(expressionCSV), ',')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sampleRecords, err := ReadDelimited(strings.NewReader(samplesCSV), ',')
	if err != nil {
		t.Fatalf("read samples: %v", err)
	}
	m, err := FromRecords(records, sampleRecords)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	assertMatrix(t, m)
}

func assertMatrix(t *testing.T, m *Matrix) {
	t.Helper()
	if got := strings.Join(m.SampleNames(), ","); got != "S_3_M1,S_9_M1,T_9_M1" {
		t.Fatalf("unexpected samples %s", got)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", m.Len())
	}
	col, ok := m.ColumnIndex("T_9_M1")
	if !ok || col != 2 {
		t.Fatalf("expected T_9_M1 at column 2, got %d %v", col, ok)
	}
	if _, ok := m.ColumnIndex("missing"); ok {
		t.Fatalf("expected unknown sample to be absent")
	}
	s := m.SampleAt(0)
	if s.Production != 1.25 || s.OpticalDensity != 3.5 || s.Suspicious {
		t.Fatalf("unexpected sample metadata %+v", s)
	}
	if !m.SampleAt(2).Suspicious || !math.IsNaN(m.SampleAt(2).Production) {
		t.Fatalf("expected T_9_M1 suspicious without production: %+v", m.SampleAt(2))
	}
	if !math.IsNaN(m.SampleAt(1).Production) {
		t.Fatalf("expected S_9_M1 without metadata")
	}

	rows := m.Rows()
	first := rows[0].Feature()
	if first.ID != "fig|1.peg.1" || first.Gene != "thrA" || first.Baseline != 2.5 || first.Location.End != 400 {
		t.Fatalf("unexpected feature %+v", first)
	}
	if w, ok := rows[0].Weight(1); !ok || w != 20 {
		t.Fatalf("expected weight 20, got %v %v", w, ok)
	}
	if _, ok := rows[0].Weight(2); ok {
		t.Fatalf("expected empty cell to be absent")
	}
	if _, ok := rows[1].Weight(1); ok {
		t.Fatalf("expected empty cell to be absent")
	}
	if _, ok := rows[1].Weight(7); ok {
		t.Fatalf("expected out-of-range column to be absent")
	}
}

func TestFromRecordsErrors(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"no samples":   "feature_id,gene,contig,start,end,baseline\n",
		"bad header":   "id,gene,contig,start,end,baseline,A\n",
		"bad weight":   "feature_id,gene,contig,start,end,baseline,A\nf1,,c,1,2,0,abc\n",
		"bad start":    "feature_id,gene,contig,start,end,baseline,A\nf1,,c,x,2,0,1\n",
		"missing id":   "feature_id,gene,contig,start,end,baseline,A\n,,c,1,2,0,1\n",
		"dup samples":  "feature_id,gene,contig,start,end,baseline,A,A\n",
		"empty sample": "feature_id,gene,contig,start,end,baseline,A,\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			records, err := ReadDelimited(strings.NewReader(body), ',')
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if _, err := FromRecords(records, nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFileDelimited(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "expr.tsv")
	samples := filepath.Join(dir, "samples.csv")
	writeFile(t, data, strings.ReplaceAll(expressionCSV, ",", "\t"))
	writeFile(t, samples, samplesCSV)

	m, err := LoadFile(data, samples)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertMatrix(t, m)

	if _, err := LoadFile(filepath.Join(dir, "expr.json"), ""); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.csv"), ""); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expr.xlsx")
	f := excelize.NewFile()
	if _, err := f.NewSheet(ExpressionSheet); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if _, err := f.NewSheet(SamplesSheet); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	writeSheet(t, f, ExpressionSheet, expressionCSV)
	writeSheet(t, f, SamplesSheet, samplesCSV)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("delete sheet: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = f.Close()

	m, err := LoadFile(path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertMatrix(t, m)
}

func TestNewMatrixRejectsShortRows(t *testing.T) {
	m, err := NewMatrix([]domain.Sample{domain.NewSample("A")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := m.AddRow(domain.Feature{ID: "f"}, []float64{1, 2}); err == nil {
		t.Fatalf("expected weight count error")
	}
	if m.UpdateSample(domain.NewSample("B")) {
		t.Fatalf("expected unknown sample update to report false")
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeSheet(t *testing.T, f *excelize.File, sheet, body string) {
	t.Helper()
	records, err := ReadDelimited(strings.NewReader(body), ',')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
}
