package inventory

import (
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// Validate checks that raw has every required column and coerces the numeric
// columns. Cells that cannot be parsed become NaN and are reported as
// DataQualityWarnings; only missing columns are fatal. raw is not modified.
func Validate(raw *domain.RawTable) (*domain.Table, []domain.DataQualityWarning, error) {
	if raw == nil {
		return nil, nil, &domain.MissingColumnsError{Columns: append([]string(nil), domain.RequiredColumns...)}
	}

	columns := make([]string, len(raw.Header))
	index := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		name := strings.TrimSpace(h)
		columns[i] = name
		// First occurrence wins for duplicated headers.
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &domain.MissingColumnsError{Columns: missing}
	}

	idxCategory, hasCategory := index[domain.ColCategory]
	if !hasCategory {
		idxCategory = -1
	}

	var (
		badQuantity int
		badPrice    int
		badMinStock int
	)

	records := make([]domain.Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		cells := make([]string, len(columns))
		copy(cells, row)

		get := func(idx int) string {
			if idx < 0 || idx >= len(cells) {
				return ""
			}
			return cells[idx]
		}

		rec := domain.Record{
			ItemID:   get(index[domain.ColItemID]),
			ItemName: get(index[domain.ColItemName]),
			Category: get(idxCategory),
			Location: get(index[domain.ColLocation]),
			Quantity: parseNumeric(get(index[domain.ColQuantity])),
			Price:    parseNumeric(get(index[domain.ColPrice])),
			MinStock: parseNumeric(get(index[domain.ColMinStock])),
			Cells:    cells,
		}

		if math.IsNaN(rec.Quantity) {
			badQuantity++
		}
		if math.IsNaN(rec.Price) {
			badPrice++
		}
		if math.IsNaN(rec.MinStock) {
			badMinStock++
		}

		records = append(records, rec)
	}

	var warnings []domain.DataQualityWarning
	for _, w := range []domain.DataQualityWarning{
		{Column: domain.ColQuantity, Count: badQuantity},
		{Column: domain.ColPrice, Count: badPrice},
		{Column: domain.ColMinStock, Count: badMinStock},
	} {
		if w.Count > 0 {
			warnings = append(warnings, w)
		}
	}

	return &domain.Table{
		Columns:     columns,
		HasCategory: hasCategory,
		Records:     records,
	}, warnings, nil
}

// parseNumeric converts a cell to float64, returning NaN for empty,
// non-numeric or non-finite input such as "inf".
func parseNumeric(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}
