package columns

import (
	"math"
	"strconv"

	"rnacolumns/internal/core"
	"rnacolumns/internal/table"
	"rnacolumns/pkg/domain"
)

// JSON cannot carry NaN or infinities, so numeric fields that may hold them
// are pointers (null when not finite) with a text rendering alongside.

type strategyDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type sampleDTO struct {
	Name           string   `json:"name"`
	Display        string   `json:"display"`
	Suspicious     bool     `json:"suspicious,omitempty"`
	Production     *float64 `json:"production"`
	OpticalDensity *float64 `json:"optical_density"`
}

func newSampleDTO(s domain.Sample) sampleDTO {
	return sampleDTO{
		Name:           s.Name,
		Display:        s.DisplayName(),
		Suspicious:     s.Suspicious,
		Production:     finite(s.Production),
		OpticalDensity: finite(s.OpticalDensity),
	}
}

type featureDTO struct {
	ID       string          `json:"id"`
	Gene     string          `json:"gene,omitempty"`
	Location domain.Location `json:"location"`
	Baseline *float64        `json:"baseline"`
}

type cellDTO struct {
	Value *float64 `json:"value"`
	Text  string   `json:"text"`
	Range int      `json:"range"`
}

type rowDTO struct {
	Feature featureDTO `json:"feature"`
	Cells   []cellDTO  `json:"cells"`
}

type columnsResponse struct {
	Configuration string          `json:"configuration"`
	Stored        string          `json:"stored"`
	Added         int             `json:"added"`
	Dropped       int             `json:"dropped"`
	SortIndex     int             `json:"sort_index"`
	Hidden        int             `json:"hidden"`
	Headings      []table.Heading `json:"headings"`
	Rows          []rowDTO        `json:"rows"`
}

func newColumnsResponse(out core.Outcome) columnsResponse {
	resp := columnsResponse{
		Configuration: out.Configuration,
		Stored:        out.Stored,
		Added:         out.Added,
		Dropped:       out.Dropped,
		SortIndex:     out.Table.SortIndex,
		Hidden:        out.Table.Hidden,
		Headings:      out.Table.Headings,
		Rows:          make([]rowDTO, len(out.Table.Rows)),
	}
	if resp.Headings == nil {
		resp.Headings = []table.Heading{}
	}
	for i, r := range out.Table.Rows {
		cells := make([]cellDTO, len(r.Cells))
		for j, c := range r.Cells {
			cells[j] = cellDTO{Value: finite(c.Value), Text: formatValue(c.Value), Range: c.Range}
		}
		resp.Rows[i] = rowDTO{
			Feature: featureDTO{
				ID:       r.Feature.ID,
				Gene:     r.Feature.Gene,
				Location: r.Feature.Location,
				Baseline: finite(r.Feature.Baseline),
			},
			Cells: cells,
		}
	}
	return resp
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	default:
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
}
