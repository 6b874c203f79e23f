package inventory

import (
	"math"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

func valued(id string, value float64) domain.Record {
	return domain.Record{ItemID: id, Quantity: 1, Price: value, MinStock: 1}
}

func TestClassifyABC_Sample(t *testing.T) {
	t.Parallel()

	abc, err := ClassifyABC(mustValidate(t, sampleRaw()))
	require.NoError(t, err)

	assert.Equal(t, 8275000.0, abc.GrandTotal)
	assert.Equal(t, sampleHeader, abc.Columns)

	var (
		ids     []string
		classes []domain.ABCClass
	)
	for _, row := range abc.Rows {
		ids = append(ids, row.ItemID)
		classes = append(classes, row.Class)
	}
	assert.Equal(t, []string{"KP003", "KP001", "KP005", "KP002", "KP004"}, ids)
	assert.Equal(t, []domain.ABCClass{domain.ClassA, domain.ClassA, domain.ClassB, domain.ClassB, domain.ClassC}, classes)
	assert.InDelta(t, 100, abc.Rows[4].CumulativePercentage, 1e-9)
	assert.Equal(t, 3000000.0, abc.Rows[0].CumulativeValue)
}

func TestClassifyABC_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []domain.Record
		want    []domain.ABCClass
	}{
		{
			name:    "exactly 80 and 95 belong to the lower class",
			records: []domain.Record{valued("a", 80), valued("b", 15), valued("c", 5)},
			want:    []domain.ABCClass{domain.ClassA, domain.ClassB, domain.ClassC},
		},
		{
			name:    "single item is class C",
			records: []domain.Record{valued("a", 10)},
			want:    []domain.ABCClass{domain.ClassC},
		},
		{
			name:    "dominant item crosses 80 on its own",
			records: []domain.Record{valued("a", 90), valued("b", 6), valued("c", 4)},
			want:    []domain.ABCClass{domain.ClassB, domain.ClassC, domain.ClassC},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			abc, err := ClassifyABC(&domain.Table{Records: tt.records})
			require.NoError(t, err)

			for i, row := range abc.Rows {
				assert.Equal(t, tt.want[i], row.Class, "row %d (%s)", i, row.ItemID)
			}
		})
	}
}

func TestClassifyABC_Degenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table *domain.Table
		rows  int
	}{
		{name: "nil table", table: nil},
		{name: "empty table", table: &domain.Table{}},
		{name: "all zero values", table: &domain.Table{Records: []domain.Record{valued("a", 0), valued("b", 0)}}, rows: 2},
		{name: "only missing values", table: &domain.Table{Records: []domain.Record{valued("a", math.NaN())}}, rows: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			abc, err := ClassifyABC(tt.table)
			var degenerate *domain.DegenerateInputError
			require.ErrorAs(t, err, &degenerate)
			assert.Equal(t, tt.rows, degenerate.Rows)
			assert.Nil(t, abc)
		})
	}
}

func TestClassifyABC_MissingValuesSortLast(t *testing.T) {
	t.Parallel()

	table := &domain.Table{Records: []domain.Record{
		valued("nan-1", math.NaN()),
		valued("small", 10),
		valued("nan-2", math.NaN()),
		valued("big", 90),
	}}

	abc, err := ClassifyABC(table)
	require.NoError(t, err)

	require.Len(t, abc.Rows, 4)
	assert.Equal(t, "big", abc.Rows[0].ItemID)
	assert.Equal(t, "small", abc.Rows[1].ItemID)
	assert.Equal(t, "nan-1", abc.Rows[2].ItemID)
	assert.Equal(t, "nan-2", abc.Rows[3].ItemID)
	assert.InDelta(t, 100, abc.Rows[1].CumulativePercentage, 1e-9)
	for _, row := range abc.Rows[2:] {
		assert.True(t, math.IsNaN(row.CumulativeValue))
		assert.True(t, math.IsNaN(row.CumulativePercentage))
		assert.Equal(t, domain.ClassC, row.Class)
	}
}

func TestClassifyABC_TiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	abc, err := ClassifyABC(&domain.Table{Records: []domain.Record{
		valued("first", 5), valued("second", 5), valued("third", 5),
	}})
	require.NoError(t, err)
	assert.Equal(t, "first", abc.Rows[0].ItemID)
	assert.Equal(t, "second", abc.Rows[1].ItemID)
	assert.Equal(t, "third", abc.Rows[2].ItemID)
}

func TestClassifyABC_Properties(t *testing.T) {
	t.Parallel()

	f := gofakeit.New(7)
	for i := 0; i < 25; i++ {
		table := mustValidate(t, randomRaw(f, f.IntRange(1, 80)))
		abc, err := ClassifyABC(table)
		if err != nil {
			var degenerate *domain.DegenerateInputError
			require.ErrorAs(t, err, &degenerate)
			continue
		}

		// The output is a permutation of the input.
		require.Len(t, abc.Rows, table.Len())
		got := make([]string, 0, len(abc.Rows))
		for _, row := range abc.Rows {
			got = append(got, row.ItemID)
		}
		want := itemIDs(table)
		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(t, want, got)

		// Cumulative share never decreases and ends at 100.
		last := math.Inf(-1)
		for _, row := range abc.Rows {
			if math.IsNaN(row.CumulativePercentage) {
				continue
			}
			assert.GreaterOrEqual(t, row.CumulativePercentage, last)
			last = row.CumulativePercentage
		}
		assert.InDelta(t, 100, last, 1e-6)
	}
}

func TestClassifyABC_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	table := mustValidate(t, sampleRaw())
	abc, err := ClassifyABC(table)
	require.NoError(t, err)

	abc.Rows[0].Cells[1] = "changed"
	assert.Equal(t, "KP001", table.Records[0].ItemID)
	assert.Equal(t, "Mesin Espresso", table.Records[2].Cells[1])
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	abc, err := ClassifyABC(mustValidate(t, sampleRaw()))
	require.NoError(t, err)

	summary := Summarize(abc)
	require.Len(t, summary, 3)

	assert.Equal(t, domain.ClassA, summary[0].Class)
	assert.Equal(t, 2, summary[0].ItemCount)
	assert.Equal(t, 5475000.0, summary[0].TotalValue)
	assert.Equal(t, "66.16%", summary[0].ValueShareDisplay)

	assert.Equal(t, domain.ClassB, summary[1].Class)
	assert.Equal(t, 2250000.0, summary[1].TotalValue)
	assert.Equal(t, "27.19%", summary[1].ValueShareDisplay)

	assert.Equal(t, domain.ClassC, summary[2].Class)
	assert.Equal(t, 1, summary[2].ItemCount)
	assert.Equal(t, "6.65%", summary[2].ValueShareDisplay)

	var total float64
	for _, s := range summary {
		total += s.ValueShare
	}
	assert.InDelta(t, 100, total, 1e-9)

	assert.Nil(t, Summarize(nil))
}

func TestClassifyABC_NonFiniteValues(t *testing.T) {
	t.Parallel()

	t.Run("overflowing product is a missing value", func(t *testing.T) {
		t.Parallel()

		abc, err := ClassifyABC(&domain.Table{Records: []domain.Record{
			{ItemID: "a", Quantity: 1e308, Price: 10, MinStock: 1},
			valued("b", 6),
		}})
		require.NoError(t, err)

		assert.Equal(t, 6.0, abc.GrandTotal)
		assert.Equal(t, "b", abc.Rows[0].ItemID)
		assert.True(t, math.IsNaN(abc.Rows[1].TotalValue))
		assert.Equal(t, domain.ClassC, abc.Rows[1].Class)
	})

	t.Run("overflowing total is degenerate", func(t *testing.T) {
		t.Parallel()

		_, err := ClassifyABC(&domain.Table{Records: []domain.Record{
			valued("a", 1e308),
			valued("b", 1e308),
		}})

		var degenerate *domain.DegenerateInputError
		require.ErrorAs(t, err, &degenerate)
		assert.True(t, degenerate.Overflow)
		assert.Contains(t, err.Error(), "overflows")
	})
}

func TestSummarize_NonFiniteShare(t *testing.T) {
	t.Parallel()

	abc := &domain.AbcTable{Rows: []domain.AbcRow{
		{Record: valued("a", 1), TotalValue: math.Inf(1), Class: domain.ClassA},
		{Record: valued("b", 5), TotalValue: 5, Class: domain.ClassB},
	}}

	var summary []domain.AbcClassSummary
	require.NotPanics(t, func() { summary = Summarize(abc) })
	require.Len(t, summary, 2)

	assert.Equal(t, "n/a", summary[0].ValueShareDisplay)
	assert.Equal(t, 0.0, summary[0].ValueShare)
	assert.Equal(t, "0.00%", summary[1].ValueShareDisplay)
}
