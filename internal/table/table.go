// Package table turns resolved columns and expression rows into the ordered,
// filtered and range-coded table model that renderers consume.
package table

import (
	"slices"

	"rnacolumns/internal/columns"
	"rnacolumns/pkg/domain"
)

// Options controls table construction.
type Options struct {
	// SortIndex is the display sort column, or -1 for location order.
	SortIndex int
	Qualifier columns.Qualifier
	Filter    columns.RowFilter
	// Limits are the range-coloring thresholds. Nil means no coloring
	// thresholds (every value lands in range 0).
	Limits columns.RangeLimits
	// Order breaks sort ties and orders rows when no sort column is selected.
	Order columns.FeatureOrder
}

// Heading describes one value column.
type Heading struct {
	Index   int               `json:"index"`
	Token   string            `json:"token"`
	Kind    string            `json:"kind"`
	Title   columns.Title     `json:"title"`
	Tooltip string            `json:"tooltip"`
	Colored bool              `json:"colored"`
	Sorted  bool              `json:"sorted"`
	// DeleteSort is the sort index to submit alongside a deletion of this
	// column so the current sort choice survives renumbering.
	DeleteSort int `json:"delete_sort"`
}

// Row is one displayed feature.
type Row struct {
	Feature domain.Feature `json:"feature"`
	Cells   []columns.Cell `json:"cells"`
	key     columns.SortKey
}

// Table is the rendered model.
type Table struct {
	Headings  []Heading `json:"headings"`
	Rows      []Row     `json:"rows"`
	SortIndex int       `json:"sort_index"`
	// Hidden counts rows removed by the row filter.
	Hidden int `json:"hidden"`
}

// Build evaluates every column against every row. Rows are ordered by the
// sort column's ratio (highest first) and then by opts.Order. Under
// OrderChanges a row's change count is its colored cells above range 0.
func Build(cols []columns.Column, rows []domain.ExpressionRow, opts Options) Table {
	sortIndex := columns.DisplaySortIndex(opts.SortIndex, len(cols))
	limits := opts.Limits
	if len(limits) == 0 {
		limits, _ = columns.ParseRangeLimits("")
	}

	t := Table{SortIndex: sortIndex, Headings: make([]Heading, len(cols))}
	colored := make([]bool, len(cols))
	for i, col := range cols {
		colored[i] = opts.Qualifier.Qualifies(col)
		t.Headings[i] = Heading{
			Index:      i,
			Token:      string(col.Token()),
			Kind:       col.Kind().String(),
			Title:      col.Title(),
			Tooltip:    col.Tooltip(),
			Colored:    colored[i],
			Sorted:     i == sortIndex,
			DeleteSort: columns.RenumberSort(sortIndex, i),
		}
	}
	if len(cols) == 0 {
		return t
	}

	var sortCol *columns.Column
	if sortIndex >= 0 {
		sortCol = &cols[sortIndex]
	}
	coloredCells := make([]columns.Cell, 0, len(cols))
	for _, r := range rows {
		cells := make([]columns.Cell, len(cols))
		coloredCells = coloredCells[:0]
		changes := 0
		for i, col := range cols {
			v := col.Value(r)
			cells[i] = columns.Cell{Value: v}
			if colored[i] {
				cells[i].Range = limits.Code(v)
				coloredCells = append(coloredCells, cells[i])
				if cells[i].Range > 0 {
					changes++
				}
			}
		}
		if !opts.Filter.Displayable(coloredCells) {
			t.Hidden++
			continue
		}
		key := columns.NewSortKey(r, sortCol)
		key.Changes = changes
		key.Order = opts.Order
		t.Rows = append(t.Rows, Row{Feature: r.Feature(), Cells: cells, key: key})
	}
	slices.SortStableFunc(t.Rows, func(a, b Row) int { return a.key.Compare(b.key) })
	return t
}
