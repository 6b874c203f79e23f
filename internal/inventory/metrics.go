package inventory

import (
	"math"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// ComputeMetrics derives the health summary of a validated table.
//
// TotalValue excludes rows whose value is missing, and rows that would push
// the sum past float64 range; ValuedItems counts the rows that contributed.
// Rows with a missing quantity or min_stock fall in no band and are counted
// as unclassified. A min_stock of zero makes any positive quantity EXCESS.
func ComputeMetrics(table *domain.Table) domain.InventoryMetrics {
	metrics := domain.InventoryMetrics{}
	if table == nil {
		table = &domain.Table{}
	}

	metrics.TotalItems = len(table.Records)

	var low, excess []domain.Record
	for _, rec := range table.Records {
		if rec.HasValue() {
			if total := metrics.TotalValue + rec.Value(); !math.IsInf(total, 0) {
				metrics.TotalValue = total
				metrics.ValuedItems++
			}
		}

		band, ok := rec.Band()
		if !ok {
			metrics.UnclassifiedCount++
			continue
		}

		switch band {
		case domain.BandLow:
			metrics.LowStockCount++
			low = append(low, rec)
		case domain.BandExcess:
			metrics.ExcessStockCount++
			excess = append(excess, rec)
		default:
			metrics.HealthyStockCount++
		}
	}

	metrics.LowStockItems = table.Subset(low)
	metrics.ExcessStockItems = table.Subset(excess)

	return metrics
}

// BandShares returns each band's share of TotalItems in percent, rounded to
// one decimal. Shares are zero for an empty table. Unclassified rows belong
// to no band, so the shares sum to less than 100 when any are present.
func BandShares(m domain.InventoryMetrics) []domain.BandShare {
	counts := map[domain.StockBand]int{
		domain.BandLow:     m.LowStockCount,
		domain.BandHealthy: m.HealthyStockCount,
		domain.BandExcess:  m.ExcessStockCount,
	}

	shares := make([]domain.BandShare, 0, len(domain.AllBands))
	for _, band := range domain.AllBands {
		share := domain.BandShare{
			Band:  band,
			Label: band.Label(),
			Count: counts[band],
		}
		if m.TotalItems > 0 {
			share.Percent = roundFloat(float64(share.Count)/float64(m.TotalItems)*100, 1)
		}
		shares = append(shares, share)
	}
	return shares
}
