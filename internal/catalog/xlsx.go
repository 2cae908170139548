package catalog

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	// ExpressionSheet holds the expression table in a workbook.
	ExpressionSheet = "expression"
	// SamplesSheet optionally holds sample metadata in a workbook.
	SamplesSheet = "samples"
)

// LoadXLSX reads an expression workbook. The "expression" sheet uses the
// same layout as the delimited format; an optional "samples" sheet carries
// sample metadata.
func LoadXLSX(path string) (*Matrix, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	records, err := f.GetRows(ExpressionSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", ExpressionSheet, err)
	}
	var sampleRecords [][]string
	if idx, err := f.GetSheetIndex(SamplesSheet); err == nil && idx >= 0 {
		if sampleRecords, err = f.GetRows(SamplesSheet); err != nil {
			return nil, fmt.Errorf("read %s sheet: %w", SamplesSheet, err)
		}
	}
	return FromRecords(records, sampleRecords)
}
