// internal/domain/models.go
package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Column names expected in an inventory upload.
const (
	ColItemID   = "item_id"
	ColItemName = "item_name"
	ColCategory = "category"
	ColQuantity = "quantity"
	ColPrice    = "price"
	ColMinStock = "min_stock"
	ColLocation = "location"
)

// RequiredColumns lists the columns that must be present before any derived
// computation runs. Order is used when reporting missing columns.
var RequiredColumns = []string{ColItemID, ColItemName, ColQuantity, ColLocation, ColPrice, ColMinStock}

// RawTable is a header row plus string cells, as read from CSV or xlsx.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Record is one validated inventory line.
// Quantity, Price and MinStock are NaN when the source cell was missing or
// could not be parsed.
type Record struct {
	ItemID   string
	ItemName string
	Category string
	Location string
	Quantity float64
	Price    float64
	MinStock float64

	// Cells holds the original cell values aligned to Table.Columns.
	Cells []string
}

// Clone returns a copy of r that shares no memory with it.
func (r Record) Clone() Record {
	r.Cells = append([]string(nil), r.Cells...)
	return r
}

// Value returns quantity * price. The result is NaN if either operand is
// missing or the product overflows float64.
func (r Record) Value() float64 {
	v := r.Quantity * r.Price
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// HasValue reports whether the record has a finite value.
func (r Record) HasValue() bool {
	return !math.IsNaN(r.Value())
}

// Band returns the stock band for the record, or false when quantity or
// min_stock is missing.
func (r Record) Band() (StockBand, bool) {
	if math.IsNaN(r.Quantity) || math.IsNaN(r.MinStock) {
		return "", false
	}
	switch {
	case r.Quantity < r.MinStock:
		return BandLow, true
	case r.Quantity > r.MinStock*2:
		return BandExcess, true
	default:
		return BandHealthy, true
	}
}

// Table is a validated inventory table. Derived tables share the column
// layout of the table they came from.
type Table struct {
	Columns     []string
	HasCategory bool
	Records     []Record
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Subset returns a new table with the same columns holding copies of the
// given records.
func (t *Table) Subset(records []Record) *Table {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return &Table{
		Columns:     append([]string(nil), t.Columns...),
		HasCategory: t.HasCategory,
		Records:     out,
	}
}

// recordJSON is the wire form of a Record. Missing numbers encode as null.
type recordJSON struct {
	ItemID   string   `json:"item_id"`
	ItemName string   `json:"item_name"`
	Category string   `json:"category,omitempty"`
	Location string   `json:"location"`
	Quantity *float64 `json:"quantity"`
	Price    *float64 `json:"price"`
	MinStock *float64 `json:"min_stock"`
	Band     string   `json:"stock_band,omitempty"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		ItemID:   r.ItemID,
		ItemName: r.ItemName,
		Category: r.Category,
		Location: r.Location,
		Quantity: NullableFloat(r.Quantity),
		Price:    NullableFloat(r.Price),
		MinStock: NullableFloat(r.MinStock),
	}
	if band, ok := r.Band(); ok {
		out.Band = string(band)
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Record{
		ItemID:   in.ItemID,
		ItemName: in.ItemName,
		Category: in.Category,
		Location: in.Location,
		Quantity: floatOrNaN(in.Quantity),
		Price:    floatOrNaN(in.Price),
		MinStock: floatOrNaN(in.MinStock),
	}
	return nil
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// NullableFloat maps NaN and infinities to nil so they can be JSON encoded.
func NullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// DataQualityWarning reports cells that could not be coerced to a number.
// It is non-fatal: the load proceeds with missing values.
type DataQualityWarning struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

func (w DataQualityWarning) String() string {
	return w.Column + ": " + strconv.Itoa(w.Count) + " missing or non-numeric value(s)"
}

// Dataset is everything derived from one successful load. Callers hold on to
// it explicitly; a failed load never replaces a previous Dataset.
type Dataset struct {
	Name     string
	Hash     string
	LoadedAt time.Time

	Table    *Table
	Warnings []DataQualityWarning
	Metrics  InventoryMetrics

	// ABC is nil when classification failed; ABCErr then holds the reason.
	ABC    *AbcTable
	ABCErr error

	Locations []LocationCount
}
