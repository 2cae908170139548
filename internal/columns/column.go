package columns

import (
	"fmt"
	"math"
	"strings"

	"rnacolumns/pkg/domain"
)

// Kind identifies a column variant.
type Kind int

const (
	// KindSimple displays one sample's expression value.
	KindSimple Kind = iota
	// KindDifferential displays numerator sample / denominator sample.
	KindDifferential
	// KindBaseline displays a sample's value over the feature baseline.
	KindBaseline
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindDifferential:
		return "differential"
	case KindBaseline:
		return "baseline"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a resolved column token. It is immutable and evaluates feature
// rows without side effects.
type Column struct {
	kind   Kind
	token  Token
	numCol int
	denCol int
	num    domain.Sample
	den    domain.Sample
}

// Resolve binds a token to catalog columns. It reports false when the token is
// empty or names a sample the catalog no longer has.
func Resolve(t Token, catalog domain.SampleCatalog) (Column, bool) {
	if t.IsNone() {
		return Column{}, false
	}
	numCol, ok := catalog.ColumnIndex(t.Primary())
	if !ok {
		return Column{}, false
	}
	col := Column{kind: t.Kind(), token: t, numCol: numCol, denCol: -1, num: catalog.SampleAt(numCol)}
	if col.kind == KindDifferential {
		denCol, ok := catalog.ColumnIndex(t.Secondary())
		if !ok {
			return Column{}, false
		}
		col.denCol = denCol
		col.den = catalog.SampleAt(denCol)
	}
	return col, true
}

// Columns resolves every token of the configuration, silently dropping the
// ones that no longer resolve.
func (c Configuration) Columns(catalog domain.SampleCatalog) []Column {
	out := make([]Column, 0, len(c.Tokens))
	for _, t := range c.Tokens {
		if col, ok := Resolve(t, catalog); ok {
			out = append(out, col)
		}
	}
	return out
}

// Parse decodes a persisted string and resolves its columns.
func Parse(raw string, catalog domain.SampleCatalog) []Column {
	return Decode(raw).Columns(catalog)
}

// Kind returns the column variant.
func (c Column) Kind() Kind { return c.kind }

// Token returns the token the column was resolved from.
func (c Column) Token() Token { return c.token }

// Primary returns the numerator sample.
func (c Column) Primary() domain.Sample { return c.num }

// Secondary returns the denominator sample of a differential column.
func (c Column) Secondary() (domain.Sample, bool) {
	return c.den, c.kind == KindDifferential
}

// IsRatio reports whether the displayed value is a ratio.
func (c Column) IsRatio() bool { return c.kind != KindSimple }

// Value computes the displayed value for a feature row. A zero denominator
// yields an infinity signed like the numerator, or NaN when both are zero.
func (c Column) Value(row domain.ExpressionRow) float64 {
	switch c.kind {
	case KindDifferential:
		return divide(weight(row, c.numCol), weight(row, c.denCol))
	case KindBaseline:
		return divide(weight(row, c.numCol), row.Feature().Baseline)
	default:
		return weight(row, c.numCol)
	}
}

// SortKey returns the unreduced ratio used to order rows by this column.
func (c Column) SortKey(row domain.ExpressionRow) Ratio {
	switch c.kind {
	case KindDifferential:
		return Ratio{Num: weight(row, c.numCol), Den: weight(row, c.denCol)}
	case KindBaseline:
		return Ratio{Num: weight(row, c.numCol), Den: row.Feature().Baseline}
	default:
		return Ratio{Num: weight(row, c.numCol), Den: 1}
	}
}

// TitleSegment is one run of heading text. Sample segments carry the
// catalog's suspicious flag so renderers can emphasize them.
type TitleSegment struct {
	Text       string `json:"text"`
	Sample     bool   `json:"sample,omitempty"`
	Suspicious bool   `json:"suspicious,omitempty"`
}

// Title is a column heading.
type Title []TitleSegment

func (t Title) String() string {
	var b strings.Builder
	for _, seg := range t {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Title builds the column heading from sample metadata.
func (c Column) Title() Title {
	switch c.kind {
	case KindDifferential:
		return Title{sampleSegment(c.num), {Text: " / "}, sampleSegment(c.den)}
	case KindBaseline:
		return Title{sampleSegment(c.num), {Text: " / baseline"}}
	default:
		return Title{sampleSegment(c.num)}
	}
}

// Tooltip describes the production and optical density of the samples.
func (c Column) Tooltip() string {
	if c.kind == KindDifferential {
		return "Numerator: " + sampleTip(c.num) + "  Denominator: " + sampleTip(c.den)
	}
	return sampleTip(c.num)
}

func sampleSegment(s domain.Sample) TitleSegment {
	return TitleSegment{Text: s.DisplayName(), Sample: true, Suspicious: s.Suspicious}
}

func sampleTip(s domain.Sample) string {
	var parts []string
	if !math.IsNaN(s.Production) {
		parts = append(parts, fmt.Sprintf("%2.4f g/l", s.Production))
	}
	if !math.IsNaN(s.OpticalDensity) {
		parts = append(parts, fmt.Sprintf("%4.2f OD.", s.OpticalDensity))
	}
	if len(parts) == 0 {
		return "No production."
	}
	return strings.Join(parts, ", ")
}

func weight(row domain.ExpressionRow, col int) float64 {
	w, ok := row.Weight(col)
	if !ok {
		return 0
	}
	return w
}

func divide(num, den float64) float64 {
	if den == 0 {
		if num == 0 {
			return math.NaN()
		}
		if num < 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return num / den
}
