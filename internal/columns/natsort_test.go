package columns

import (
	"slices"
	"testing"
)

func TestCompareNatural(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"9", "12", -1},
		{"12", "9", 1},
		{"4p5", "5p5", -1},
		{"4p5", "4", 1},
		{"4", "4p5", -1},
		{"3", "4p5", -1},
		{"abc", "abd", -1},
		{"a2", "a10", -1},
		{"007", "7", 1},
		{"7", "7", 0},
		{"", "a", -1},
		{"1a", "a1", -1},
	}
	for _, tc := range cases {
		if got := CompareNatural(tc.a, tc.b); sign(got) != tc.want {
			t.Fatalf("CompareNatural(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCompareNaturalSortsTimes(t *testing.T) {
	times := []string{"24", "9", "4p5", "12", "3", "5p5", "ML"}
	slices.SortFunc(times, CompareNatural)
	if want := []string{"3", "4p5", "5p5", "9", "12", "24", "ML"}; !slices.Equal(times, want) {
		t.Fatalf("expected %v, got %v", want, times)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
