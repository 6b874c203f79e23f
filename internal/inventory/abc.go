package inventory

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// ClassifyABC ranks records by quantity*price and assigns Pareto classes.
//
// Rows are stable-sorted by value descending, so ties keep input order. Rows
// with a missing value sort last, carry NaN cumulative fields and are class C.
// A cumulative share of exactly 80% is A and exactly 95% is B.
// A table whose value total is zero (including an empty table) or overflows
// float64 yields a DegenerateInputError.
func ClassifyABC(table *domain.Table) (*domain.AbcTable, error) {
	if table == nil || len(table.Records) == 0 {
		return nil, &domain.DegenerateInputError{}
	}

	rows := make([]domain.AbcRow, len(table.Records))
	var grandTotal float64
	for i, rec := range table.Records {
		rows[i] = domain.AbcRow{Record: rec.Clone(), TotalValue: rec.Value()}
		if !math.IsNaN(rows[i].TotalValue) {
			grandTotal += rows[i].TotalValue
		}
	}

	if grandTotal == 0 {
		return nil, &domain.DegenerateInputError{Rows: len(rows)}
	}
	if math.IsInf(grandTotal, 0) {
		return nil, &domain.DegenerateInputError{Rows: len(rows), Overflow: true}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := rows[i].TotalValue, rows[j].TotalValue
		if math.IsNaN(vj) {
			return !math.IsNaN(vi)
		}
		if math.IsNaN(vi) {
			return false
		}
		return vi > vj
	})

	var cumulative float64
	for i := range rows {
		if math.IsNaN(rows[i].TotalValue) {
			rows[i].CumulativeValue = math.NaN()
			rows[i].CumulativePercentage = math.NaN()
			rows[i].Class = domain.ClassC
			continue
		}
		cumulative += rows[i].TotalValue
		rows[i].CumulativeValue = cumulative
		rows[i].CumulativePercentage = 100 * cumulative / grandTotal
		rows[i].Class = classFor(rows[i].CumulativePercentage)
	}

	return &domain.AbcTable{
		Columns:    append([]string(nil), table.Columns...),
		Rows:       rows,
		GrandTotal: grandTotal,
	}, nil
}

func classFor(cumulativePct float64) domain.ABCClass {
	switch {
	case cumulativePct <= domain.ClassAUpperPct:
		return domain.ClassA
	case cumulativePct <= domain.ClassBUpperPct:
		return domain.ClassB
	default:
		return domain.ClassC
	}
}

// Summarize aggregates an ABC table per class. Classes with no rows are
// omitted. ValueShare keeps full precision; ValueShareDisplay is rounded to
// two decimals.
func Summarize(abc *domain.AbcTable) []domain.AbcClassSummary {
	if abc == nil {
		return nil
	}

	byClass := make(map[domain.ABCClass]*domain.AbcClassSummary, len(domain.AllClasses))
	for _, row := range abc.Rows {
		s, ok := byClass[row.Class]
		if !ok {
			s = &domain.AbcClassSummary{Class: row.Class}
			byClass[row.Class] = s
		}
		s.ItemCount++
		if !math.IsNaN(row.TotalValue) {
			s.TotalValue += row.TotalValue
		}
	}

	var classTotal float64
	for _, s := range byClass {
		classTotal += s.TotalValue
	}

	result := make([]domain.AbcClassSummary, 0, len(byClass))
	for _, class := range domain.AllClasses {
		s, ok := byClass[class]
		if !ok {
			continue
		}
		if classTotal != 0 {
			s.ValueShare = s.TotalValue / classTotal * 100
		}
		if math.IsNaN(s.ValueShare) || math.IsInf(s.ValueShare, 0) {
			s.ValueShare = 0
			s.ValueShareDisplay = "n/a"
		} else {
			s.ValueShareDisplay = decimal.NewFromFloat(s.ValueShare).StringFixed(2) + "%"
		}
		result = append(result, *s)
	}
	return result
}
