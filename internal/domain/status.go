package domain

import "strings"

// StockBand is the stock-health band of a record: quantity compared with its
// min_stock threshold.
type StockBand string

const (
	BandLow     StockBand = "LOW"
	BandHealthy StockBand = "HEALTHY"
	BandExcess  StockBand = "EXCESS"
)

// AllBands lists the bands in display order.
var AllBands = []StockBand{BandLow, BandHealthy, BandExcess}

var stockBandLabels = map[StockBand]string{
	BandLow:     "Low Stock",
	BandHealthy: "Healthy Stock",
	BandExcess:  "Excess Stock",
}

var stockBandCodes = map[string]StockBand{
	"low":           BandLow,
	"low_stock":     BandLow,
	"low stock":     BandLow,
	"healthy":       BandHealthy,
	"healthy stock": BandHealthy,
	"normal":        BandHealthy,
	"excess":        BandExcess,
	"excess stock":  BandExcess,
	"overstock":     BandExcess,
}

// Label returns a human-readable label for the band.
func (b StockBand) Label() string {
	if label, ok := stockBandLabels[b]; ok {
		return label
	}

	return "Unclassified"
}

// ParseStockBand returns the band for a given code or label (case-insensitive).
func ParseStockBand(s string) (StockBand, bool) {
	band, ok := stockBandCodes[strings.ToLower(strings.TrimSpace(s))]

	return band, ok
}

// ABCClass is a Pareto class assigned by cumulative value share.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// AllClasses lists the ABC classes in rank order.
var AllClasses = []ABCClass{ClassA, ClassB, ClassC}

// Class cut-offs on cumulative percentage; upper bounds are inclusive.
const (
	ClassAUpperPct = 80.0
	ClassBUpperPct = 95.0
)
