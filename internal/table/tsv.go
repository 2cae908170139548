package table

import (
	"encoding/csv"
	"io"
	"strconv"
)

var featureHeader = []string{"feature_id", "gene", "contig", "start", "end"}

// WriteTSV writes the table as tab-separated text: one header line of
// feature fields and column titles, then one line per displayed row.
// Non-finite values are written as NaN, +Inf or -Inf.
func WriteTSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := make([]string, 0, len(featureHeader)+len(t.Headings))
	header = append(header, featureHeader...)
	for _, h := range t.Headings {
		header = append(header, h.Title.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range t.Rows {
		rec := make([]string, 0, len(header))
		loc := r.Feature.Location
		rec = append(rec, r.Feature.ID, r.Feature.Gene, loc.Contig, strconv.Itoa(loc.Start), strconv.Itoa(loc.End))
		for _, c := range r.Cells {
			rec = append(rec, strconv.FormatFloat(c.Value, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
