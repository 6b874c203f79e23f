package inventory

import (
	"fmt"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

var sampleHeader = []string{"item_id", "item_name", "category", "quantity", "location", "price", "min_stock"}

// sampleRaw is five items that are all EXCESS, worth 8,275,000 in total.
func sampleRaw() *domain.RawTable {
	return &domain.RawTable{
		Header: append([]string(nil), sampleHeader...),
		Rows: [][]string{
			{"KP001", "Kopi Arabica", "Beverage", "45", "Gudang A", "55000", "15"},
			{"KP002", "Kopi Robusta", "Beverage", "30", "Gudang A", "35000", "10"},
			{"KP003", "Mesin Espresso", "Equipment", "12", "Gudang B", "250000", "5"},
			{"KP004", "Gula Aren", "Ingredient", "22", "Gudang B", "25000", "8"},
			{"KP005", "Susu Oat", "Ingredient", "60", "Gudang C", "20000", "20"},
		},
	}
}

func mustValidate(t *testing.T, raw *domain.RawTable) *domain.Table {
	t.Helper()

	table, _, err := Validate(raw)
	require.NoError(t, err)
	return table
}

// randomRaw builds n rows with random numeric values; roughly one cell in
// ten is blank so missing values get exercised.
func randomRaw(f *gofakeit.Faker, n int) *domain.RawTable {
	raw := &domain.RawTable{Header: append([]string(nil), sampleHeader...)}
	locations := []string{"Gudang A", "Gudang B", "Gudang C"}
	number := func(min, max int) string {
		if f.IntRange(0, 9) == 0 {
			return ""
		}
		return fmt.Sprint(f.IntRange(min, max))
	}
	for i := 0; i < n; i++ {
		raw.Rows = append(raw.Rows, []string{
			fmt.Sprintf("SKU%04d", i),
			f.ProductName(),
			f.RandomString([]string{"Beverage", "Equipment", "Ingredient"}),
			number(0, 200),
			f.RandomString(locations),
			number(1000, 500000),
			number(0, 60),
		})
	}
	return raw
}

func itemIDs(table *domain.Table) []string {
	ids := make([]string, 0, table.Len())
	for _, rec := range table.Records {
		ids = append(ids, rec.ItemID)
	}
	return ids
}

func nanValue() float64 {
	return math.NaN()
}
