package domain

import "encoding/json"

// InventoryMetrics is the health summary of one loaded table.
type InventoryMetrics struct {
	TotalItems int `json:"total_items"`
	// TotalValue sums quantity*price over rows with a finite value.
	TotalValue  float64 `json:"total_value"`
	ValuedItems int     `json:"valued_items"`

	LowStockCount     int `json:"low_stock_count"`
	HealthyStockCount int `json:"healthy_stock_count"`
	ExcessStockCount  int `json:"excess_stock_count"`
	UnclassifiedCount int `json:"unclassified_count"`

	LowStockItems    *Table `json:"-"`
	ExcessStockItems *Table `json:"-"`
}

// AbcRow is a record decorated with its value ranking.
// Cumulative fields are NaN for rows without a value.
type AbcRow struct {
	Record
	TotalValue           float64
	CumulativeValue      float64
	CumulativePercentage float64
	Class                ABCClass
}

type abcRowJSON struct {
	ItemID               string   `json:"item_id"`
	ItemName             string   `json:"item_name"`
	Location             string   `json:"location"`
	Quantity             *float64 `json:"quantity"`
	Price                *float64 `json:"price"`
	TotalValue           *float64 `json:"total_value"`
	CumulativeValue      *float64 `json:"cumulative_value"`
	CumulativePercentage *float64 `json:"cumulative_percentage"`
	Class                ABCClass `json:"abc_class"`
}

func (r AbcRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(abcRowJSON{
		ItemID:               r.ItemID,
		ItemName:             r.ItemName,
		Location:             r.Location,
		Quantity:             NullableFloat(r.Quantity),
		Price:                NullableFloat(r.Price),
		TotalValue:           NullableFloat(r.TotalValue),
		CumulativeValue:      NullableFloat(r.CumulativeValue),
		CumulativePercentage: NullableFloat(r.CumulativePercentage),
		Class:                r.Class,
	})
}

// AbcTable holds rows sorted by descending value. It is never merged back
// into input order.
type AbcTable struct {
	Columns    []string `json:"-"`
	Rows       []AbcRow `json:"rows"`
	GrandTotal float64  `json:"grand_total"`
}

// AbcClassSummary aggregates one ABC class.
type AbcClassSummary struct {
	Class      ABCClass `json:"abc_class"`
	ItemCount  int      `json:"item_count"`
	TotalValue float64  `json:"total_value"`
	// ValueShare is the full-precision percentage of the grand total.
	ValueShare float64 `json:"value_share"`
	// ValueShareDisplay is ValueShare rounded to two decimals, e.g. "72.51%".
	ValueShareDisplay string `json:"value_share_display"`
}

// LocationCount is the number of items stored at one location.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// BandShare is a band's share of all items, in percent.
type BandShare struct {
	Band    StockBand `json:"band"`
	Label   string    `json:"label"`
	Count   int       `json:"count"`
	Percent float64   `json:"percent"`
}

// Dashboard is the JSON-ready summary of a Dataset.
type Dashboard struct {
	Name       string               `json:"name"`
	Hash       string               `json:"hash"`
	Warnings   []DataQualityWarning `json:"warnings"`
	Metrics    InventoryMetrics     `json:"metrics"`
	BandShares []BandShare          `json:"band_shares"`
	Locations  []LocationCount      `json:"locations"`
	LowStock   []Record             `json:"low_stock_items"`
	ABCSummary []AbcClassSummary    `json:"abc_summary"`
	ABCError   string               `json:"abc_error,omitempty"`
}
