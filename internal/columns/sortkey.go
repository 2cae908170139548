package columns

import (
	"cmp"
	"math"
	"strings"

	"rnacolumns/pkg/domain"
)

// Ratio is an unreduced numerator/denominator pair. Finite ratios are
// compared by cross-multiplication.
type Ratio struct {
	Num float64
	Den float64
}

// LocationOnly is the key used when no sort column applies. Every pair of
// LocationOnly ratios compares equal, so rows fall back to location order.
var LocationOnly = Ratio{Num: 1, Den: 0}

// Value returns the ratio as a float, using the same zero-denominator
// policy as Column.Value.
func (r Ratio) Value() float64 { return divide(r.Num, r.Den) }

// Undefined reports whether the ratio has no value: 0/0 or a NaN term.
func (r Ratio) Undefined() bool {
	return math.IsNaN(r.Num) || math.IsNaN(r.Den) || (r.Num == 0 && r.Den == 0)
}

// CompareRatios orders ratios highest first. It returns a negative number
// when a is the larger ratio. Undefined ratios rank below every other ratio
// and tie with each other. Denominators are non-negative.
func CompareRatios(a, b Ratio) int {
	au, bu := a.Undefined(), b.Undefined()
	switch {
	case au && bu:
		return 0
	case au:
		return 1
	case bu:
		return -1
	}
	if a.Den == 0 || b.Den == 0 {
		return cmp.Compare(b.Value(), a.Value())
	}
	return cmp.Compare(b.Num*a.Den, a.Num*b.Den)
}

// SortKey orders table rows by a column's ratio, breaking ties with
// CompareFeatureKeys under Order so ordering is total.
type SortKey struct {
	Ratio   Ratio
	Feature domain.Feature
	// Changes counts the row's colored cells above the lowest range.
	Changes int
	Order   FeatureOrder
}

// NewSortKey builds the key for a row. A nil column yields a location-only key.
func NewSortKey(row domain.ExpressionRow, col *Column) SortKey {
	key := SortKey{Ratio: LocationOnly, Feature: row.Feature()}
	if col != nil {
		key.Ratio = col.SortKey(row)
	}
	return key
}

// Compare orders two keys.
func (k SortKey) Compare(o SortKey) int {
	if c := CompareRatios(k.Ratio, o.Ratio); c != 0 {
		return c
	}
	return CompareFeatureKeys(k.Order, k.featureKey(), o.featureKey())
}

func (k SortKey) featureKey() FeatureKey {
	return FeatureKey{Feature: k.Feature, Changes: k.Changes}
}

// FeatureOrder selects how FeatureKeys are ordered. It is passed to every
// comparison rather than held in package state.
type FeatureOrder int

const (
	// OrderLocation orders by feature location, then feature ID.
	OrderLocation FeatureOrder = iota
	// OrderChanges orders by change count (highest first), then feature ID.
	OrderChanges
)

// ParseFeatureOrder resolves "LOCATION" or "CHANGES", ignoring case. An empty
// string selects OrderLocation.
func ParseFeatureOrder(s string) (FeatureOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "LOCATION":
		return OrderLocation, nil
	case "CHANGES":
		return OrderChanges, nil
	default:
		return 0, domain.NewConfigError("feature order", "unknown feature order %q", s)
	}
}

func (o FeatureOrder) String() string {
	if o == OrderChanges {
		return "CHANGES"
	}
	return "LOCATION"
}

// FeatureKey is a feature with a count of marked changes, used to rank
// features either by position or by activity.
type FeatureKey struct {
	Feature domain.Feature
	Changes int
}

// CompareFeatureKeys orders two keys under the given order.
func CompareFeatureKeys(order FeatureOrder, a, b FeatureKey) int {
	if order == OrderChanges {
		if c := cmp.Compare(b.Changes, a.Changes); c != 0 {
			return c
		}
		return strings.Compare(a.Feature.ID, b.Feature.ID)
	}
	return a.Feature.Compare(b.Feature)
}
