package columns

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"rnacolumns/pkg/domain"
)

// Qualifier decides which columns participate in range coloring.
type Qualifier int

const (
	// QualifyRatio colors differential and baseline columns.
	QualifyRatio Qualifier = iota
	// QualifyValue colors simple columns.
	QualifyValue
	// QualifyNone colors nothing.
	QualifyNone
)

// ParseQualifier resolves RATIO, VALUE or NONE, ignoring case.
// DIFFERENTIAL is accepted as an older name for RATIO.
func ParseQualifier(s string) (Qualifier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "RATIO", "DIFFERENTIAL":
		return QualifyRatio, nil
	case "VALUE":
		return QualifyValue, nil
	case "NONE":
		return QualifyNone, nil
	default:
		return 0, domain.NewConfigError("qualifier", "unknown column qualifier %q", s)
	}
}

func (q Qualifier) String() string {
	switch q {
	case QualifyValue:
		return "VALUE"
	case QualifyNone:
		return "NONE"
	default:
		return "RATIO"
	}
}

// Description is the form label for the qualifier.
func (q Qualifier) Description() string {
	switch q {
	case QualifyValue:
		return "Only color value columns."
	case QualifyNone:
		return "Do not color any columns."
	default:
		return "Only color ratio columns."
	}
}

// Qualifies reports whether col is range colored under q.
func (q Qualifier) Qualifies(col Column) bool {
	switch q {
	case QualifyRatio:
		return col.IsRatio()
	case QualifyValue:
		return col.Kind() == KindSimple
	default:
		return false
	}
}

// RowFilter decides whether a row is displayed given its colored cells.
type RowFilter int

const (
	// ShowAll displays every row.
	ShowAll RowFilter = iota
	// ShowVariant displays rows whose colored cells span more than one range.
	ShowVariant
)

// ParseRowFilter resolves ALL or VARIANT, ignoring case. NONE and DIFFERENT
// are accepted as aliases.
func ParseRowFilter(s string) (RowFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL", "NONE":
		return ShowAll, nil
	case "VARIANT", "DIFFERENT":
		return ShowVariant, nil
	default:
		return 0, domain.NewConfigError("row filter", "unknown row filter %q", s)
	}
}

func (f RowFilter) String() string {
	if f == ShowVariant {
		return "VARIANT"
	}
	return "ALL"
}

// Description is the form label for the filter.
func (f RowFilter) Description() string {
	if f == ShowVariant {
		return "Only show rows with more than one range category."
	}
	return "Show all rows."
}

// Cell is a computed value with its range code.
type Cell struct {
	Value float64 `json:"value"`
	Range int     `json:"range"`
}

// Displayable reports whether a row with the given colored cells is shown.
// Under ShowVariant a row with no colored cells is hidden.
func (f RowFilter) Displayable(cells []Cell) bool {
	if f != ShowVariant {
		return true
	}
	for i := 1; i < len(cells); i++ {
		if cells[i].Range != cells[0].Range {
			return true
		}
	}
	return false
}

// MaxRangeLimits is the most limits a range specification may hold.
const MaxRangeLimits = 3

// RangeLimits are ascending thresholds that bucket cell values.
type RangeLimits []float64

// ParseRangeLimits reads a comma-separated list of limits. An empty string
// yields a single +Inf limit so every finite value lands in range 0.
func ParseRangeLimits(s string) (RangeLimits, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RangeLimits{math.Inf(1)}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > MaxRangeLimits {
		return nil, domain.NewConfigError("range", "no more than %d range limits are allowed", MaxRangeLimits)
	}
	out := make(RangeLimits, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &domain.ConfigError{Op: "range", Message: "invalid range limit " + strconv.Quote(p), Err: err}
		}
		out = append(out, v)
	}
	slices.Sort(out)
	return out, nil
}

// Code returns the number of limits v strictly exceeds.
func (r RangeLimits) Code(v float64) int {
	code := 0
	for _, limit := range r {
		if v > limit {
			code++
		}
	}
	return code
}

func (r RangeLimits) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
