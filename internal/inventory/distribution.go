package inventory

import (
	"sort"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// LocationDistribution counts items per location, largest first. Equal
// counts are ordered by location name.
func LocationDistribution(table *domain.Table) []domain.LocationCount {
	if table == nil {
		return nil
	}

	counts := make(map[string]int)
	for _, rec := range table.Records {
		counts[rec.Location]++
	}

	result := make([]domain.LocationCount, 0, len(counts))
	for loc, n := range counts {
		result = append(result, domain.LocationCount{Location: loc, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Location < result[j].Location
	})
	return result
}
