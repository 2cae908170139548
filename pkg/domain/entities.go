// Package domain defines the public entity types shared by the column engine,
// the expression catalog and the transport adapters.
package domain

import (
	"math"
	"strings"
)

// Sample describes one RNA-seq sample (a data column of the expression matrix).
// Production and OpticalDensity are NaN when not measured, so they are kept
// out of JSON; transports render them explicitly.
type Sample struct {
	Name           string  `json:"name"`
	Suspicious     bool    `json:"suspicious,omitempty"`
	Production     float64 `json:"-"`
	OpticalDensity float64 `json:"-"`
}

// NewSample returns a sample with no production or optical density recorded.
func NewSample(name string) Sample {
	return Sample{Name: name, Production: math.NaN(), OpticalDensity: math.NaN()}
}

// DisplayName renders the sample name with fragment separators turned into
// spaces so long names can wrap in table headings.
func (s Sample) DisplayName() string {
	return strings.ReplaceAll(s.Name, "_", " ")
}

// Location is the genomic position of a feature.
type Location struct {
	Contig string `json:"contig"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Left returns the leftmost position covered by the location.
func (l Location) Left() int {
	if l.End < l.Start {
		return l.End
	}
	return l.Start
}

// Length returns the number of base pairs covered.
func (l Location) Length() int {
	if l.End < l.Start {
		return l.Start - l.End + 1
	}
	return l.End - l.Start + 1
}

// Compare orders locations by contig, then left edge, then length.
func (l Location) Compare(o Location) int {
	if c := strings.Compare(l.Contig, o.Contig); c != 0 {
		return c
	}
	if a, b := l.Left(), o.Left(); a != b {
		if a < b {
			return -1
		}
		return 1
	}
	if a, b := l.Length(), o.Length(); a != b {
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}

// Feature is one row of the expression matrix.
type Feature struct {
	ID       string   `json:"id"`
	Gene     string   `json:"gene,omitempty"`
	Location Location `json:"location"`
	// Baseline is the fixed per-feature reference expression level.
	Baseline float64 `json:"baseline"`
}

// Compare orders features by location and then by identifier, giving every
// feature a stable position.
func (f Feature) Compare(o Feature) int {
	if c := f.Location.Compare(o.Location); c != 0 {
		return c
	}
	return strings.Compare(f.ID, o.ID)
}
