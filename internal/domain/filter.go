package domain

// Predicates are the data-view filters. All supplied predicates are ANDed.
//
// Locations and Categories treat an empty set as "no constraint".
// StockBands differs: nil means the band filter was not supplied, while a
// non-nil empty set matches no rows at all.
type Predicates struct {
	Locations  []string    `json:"locations,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	StockBands []StockBand `json:"stock_bands,omitempty"`
	SearchTerm string      `json:"search_term,omitempty"`
}

// Names of optional filters that may be reported as skipped.
const (
	FilterCategory = "category"
)

// FilteredView is the result of applying Predicates to a table.
type FilteredView struct {
	Table *Table
	// Skipped names filters that were requested but could not be applied
	// because the table lacks the column.
	Skipped []string
	// Source is the row count of the unfiltered table.
	Source int
}
