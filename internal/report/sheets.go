package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/inventory"
)

// Section is a toggleable part of an inventory report.
type Section string

const (
	SectionBasic       Section = "basic"
	SectionLowStock    Section = "low_stock"
	SectionExcessStock Section = "excess_stock"
	SectionABC         Section = "abc"
	SectionABCSummary  Section = "abc_summary"
)

// DefaultSections mirrors the dashboard's preselected report options.
var DefaultSections = []Section{SectionBasic, SectionLowStock}

var sectionSheetNames = map[Section]string{
	SectionBasic:       "Basic Inventory",
	SectionLowStock:    "Low Stock Items",
	SectionExcessStock: "Excess Stock Items",
	SectionABC:         "ABC Analysis",
	SectionABCSummary:  "ABC Summary",
}

// SheetName returns the workbook sheet label for a section.
func (s Section) SheetName() string {
	return sectionSheetNames[s]
}

// ParseSections parses section codes, accepting comma-separated values.
// Duplicates are dropped; order of first appearance is kept.
func ParseSections(values []string) ([]Section, error) {
	var (
		result []Section
		seen   = make(map[Section]struct{})
	)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			s := Section(part)
			if _, ok := sectionSheetNames[s]; !ok {
				return nil, fmt.Errorf("unknown report section %q", part)
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			result = append(result, s)
		}
	}
	return result, nil
}

// Sheet is one labeled table of a report.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Assemble turns the selected sections of a dataset into labeled sheets.
// Like the dashboard, empty low/excess tables and a failed ABC
// classification are left out. ErrEmptyReport is returned when nothing
// remains.
func Assemble(ds *domain.Dataset, sections []Section) ([]Sheet, error) {
	if ds == nil || ds.Table == nil {
		return nil, domain.ErrEmptyReport
	}

	var sheets []Sheet
	for _, s := range sections {
		name := s.SheetName()
		switch s {
		case SectionBasic:
			sheets = append(sheets, TableSheet(name, ds.Table))
		case SectionLowStock:
			if ds.Metrics.LowStockCount > 0 {
				sheets = append(sheets, TableSheet(name, ds.Metrics.LowStockItems))
			}
		case SectionExcessStock:
			if ds.Metrics.ExcessStockCount > 0 {
				sheets = append(sheets, TableSheet(name, ds.Metrics.ExcessStockItems))
			}
		case SectionABC:
			if ds.ABC != nil {
				sheets = append(sheets, AbcSheet(name, ds.ABC))
			}
		case SectionABCSummary:
			if ds.ABC != nil {
				sheets = append(sheets, AbcSummarySheet(name, inventory.Summarize(ds.ABC)))
			}
		}
	}

	if len(sheets) == 0 {
		return nil, domain.ErrEmptyReport
	}
	return sheets, nil
}

// TableSheet renders a table with its original columns. Coerced numeric
// columns are written as numbers; missing values are left blank.
func TableSheet(name string, table *domain.Table) Sheet {
	sheet := Sheet{Name: name}
	if table == nil {
		return sheet
	}
	sheet.Header = append([]string(nil), table.Columns...)
	sheet.Rows = make([][]interface{}, 0, len(table.Records))
	for _, rec := range table.Records {
		sheet.Rows = append(sheet.Rows, recordCells(table.Columns, rec))
	}
	return sheet
}

// AbcSheet renders ABC rows in ranked order with the derived columns appended.
func AbcSheet(name string, abc *domain.AbcTable) Sheet {
	sheet := Sheet{Name: name}
	sheet.Header = append(append([]string(nil), abc.Columns...),
		"total_value", "cumulative_value", "cumulative_percentage", "abc_class")
	sheet.Rows = make([][]interface{}, 0, len(abc.Rows))
	for _, row := range abc.Rows {
		cells := recordCells(abc.Columns, row.Record)
		cells = append(cells,
			numberCell(row.TotalValue),
			numberCell(row.CumulativeValue),
			numberCell(row.CumulativePercentage),
			string(row.Class),
		)
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet
}

// AbcSummarySheet renders the per-class aggregate.
func AbcSummarySheet(name string, summary []domain.AbcClassSummary) Sheet {
	sheet := Sheet{
		Name:   name,
		Header: []string{"abc_class", "item_count", "total_value", "value_share"},
	}
	for _, s := range summary {
		sheet.Rows = append(sheet.Rows, []interface{}{string(s.Class), s.ItemCount, s.TotalValue, s.ValueShareDisplay})
	}
	return sheet
}

func recordCells(columns []string, rec domain.Record) []interface{} {
	cells := make([]interface{}, len(columns))
	for i, col := range columns {
		switch col {
		case domain.ColQuantity:
			cells[i] = numberCell(rec.Quantity)
		case domain.ColPrice:
			cells[i] = numberCell(rec.Price)
		case domain.ColMinStock:
			cells[i] = numberCell(rec.MinStock)
		default:
			if i < len(rec.Cells) {
				cells[i] = rec.Cells[i]
			} else {
				cells[i] = ""
			}
		}
	}
	return cells
}

func numberCell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}
