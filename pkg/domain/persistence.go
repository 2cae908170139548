package domain

// ExpressionRow exposes the expression weights recorded for one feature.
type ExpressionRow interface {
	Feature() Feature
	// Weight returns the expression value in the given sample column and
	// whether one was recorded.
	Weight(col int) (float64, bool)
}

// SampleCatalog is the sample universe consulted when column tokens are
// resolved. Column indexes are stable for the lifetime of the catalog.
type SampleCatalog interface {
	// ColumnIndex resolves a sample name to its column index.
	ColumnIndex(name string) (int, bool)
	// SampleAt returns the metadata for a column index.
	SampleAt(col int) Sample
	// SampleNames lists every sample name in column order.
	SampleNames() []string
}

// ExpressionData is a catalog that can also enumerate its feature rows.
type ExpressionData interface {
	SampleCatalog
	Rows() []ExpressionRow
}
