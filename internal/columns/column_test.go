package columns

import (
	"math"
	"testing"

	"rnacolumns/pkg/domain"
)

func TestResolveDropsStaleTokens(t *testing.T) {
	cat := newFakeCatalog("A", "B")
	cols := Parse("A,;Gone,;A,Gone;B,A;B,baseline;,|2", cat)
	if len(cols) != 3 {
		t.Fatalf("expected 3 resolved columns, got %d", len(cols))
	}
	want := []Kind{KindSimple, KindDifferential, KindBaseline}
	for i, k := range want {
		if cols[i].Kind() != k {
			t.Fatalf("column %d: expected %v, got %v", i, k, cols[i].Kind())
		}
	}
	if den, ok := cols[1].Secondary(); !ok || den.Name != "A" {
		t.Fatalf("expected differential denominator A, got %+v", den)
	}
}

func TestColumnValues(t *testing.T) {
	cat := newFakeCatalog("A", "B", "Z")
	row := fakeRow{
		feature: domain.Feature{ID: "fig|1.peg.1", Baseline: 4},
		weights: map[int]float64{0: 8, 1: 2, 2: 0},
	}
	cases := []struct {
		tok      Token
		value    float64
		key      Ratio
		isInf    bool
		isNaN    bool
		ratioCol bool
	}{
		{tok: "A,", value: 8, key: Ratio{8, 1}},
		{tok: "A,B", value: 4, key: Ratio{8, 2}, ratioCol: true},
		{tok: "A,baseline", value: 2, key: Ratio{8, 4}, ratioCol: true},
		{tok: "A,Z", key: Ratio{8, 0}, isInf: true, ratioCol: true},
		{tok: "Z,Z", key: Ratio{0, 0}, isNaN: true, ratioCol: true},
	}
	for _, tc := range cases {
		t.Run(string(tc.tok), func(t *testing.T) {
			col, ok := Resolve(tc.tok, cat)
			if !ok {
				t.Fatalf("expected %q to resolve", tc.tok)
			}
			got := col.Value(row)
			switch {
			case tc.isInf:
				if !math.IsInf(got, 1) {
					t.Fatalf("expected +Inf, got %v", got)
				}
			case tc.isNaN:
				if !math.IsNaN(got) {
					t.Fatalf("expected NaN, got %v", got)
				}
			case got != tc.value:
				t.Fatalf("expected %v, got %v", tc.value, got)
			}
			if key := col.SortKey(row); key != tc.key {
				t.Fatalf("expected key %+v, got %+v", tc.key, key)
			}
			if col.IsRatio() != tc.ratioCol {
				t.Fatalf("expected ratio=%v", tc.ratioCol)
			}
		})
	}
}

func TestMissingWeightEvaluatesAsZero(t *testing.T) {
	col, _ := Resolve("A,", newFakeCatalog("A"))
	if got := col.Value(fakeRow{}); got != 0 {
		t.Fatalf("expected 0 for missing weight, got %v", got)
	}
}

func TestColumnTitleAndTooltip(t *testing.T) {
	cat := newFakeCatalog("7_0_0_A_9_M1", "7_0_0_I_9_M1")
	cat.samples[0].Production = 1.25
	cat.samples[0].OpticalDensity = 3.5
	cat.samples[1].Suspicious = true

	simple, _ := Resolve("7_0_0_A_9_M1,", cat)
	if got := simple.Title().String(); got != "7 0 0 A 9 M1" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := simple.Tooltip(); got != "1.2500 g/l, 3.50 OD." {
		t.Fatalf("unexpected tooltip %q", got)
	}

	diff, _ := Resolve("7_0_0_A_9_M1,7_0_0_I_9_M1", cat)
	title := diff.Title()
	if title.String() != "7 0 0 A 9 M1 / 7 0 0 I 9 M1" {
		t.Fatalf("unexpected title %q", title.String())
	}
	if title[0].Suspicious || !title[2].Suspicious {
		t.Fatalf("expected only the denominator flagged suspicious: %+v", title)
	}
	if got := diff.Tooltip(); got != "Numerator: 1.2500 g/l, 3.50 OD.  Denominator: No production." {
		t.Fatalf("unexpected tooltip %q", got)
	}

	base, _ := Resolve("7_0_0_I_9_M1,baseline", cat)
	if got := base.Title().String(); got != "7 0 0 I 9 M1 / baseline" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestDivideZeroDenominator(t *testing.T) {
	if got := divide(3, 0); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf, got %v", got)
	}
	if got := divide(-3, 0); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf, got %v", got)
	}
	if got := divide(0, 0); !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
	if got := divide(6, 4); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
}
