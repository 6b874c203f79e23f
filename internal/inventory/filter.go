package inventory

import (
	"strings"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// Filter applies p to table and returns the surviving records in their
// original order. It never fails: a category filter on a table without a
// category column is skipped and named in FilteredView.Skipped.
//
// A nil p.StockBands leaves bands unconstrained, but a non-nil empty set
// matches nothing. Locations and Categories have no such distinction.
func Filter(table *domain.Table, p domain.Predicates) domain.FilteredView {
	if table == nil {
		table = &domain.Table{}
	}

	view := domain.FilteredView{Source: len(table.Records)}

	locations := toSet(p.Locations)
	categories := toSet(p.Categories)
	if len(categories) > 0 && !table.HasCategory {
		view.Skipped = append(view.Skipped, domain.FilterCategory)
		categories = nil
	}

	var bands map[domain.StockBand]struct{}
	if p.StockBands != nil {
		bands = make(map[domain.StockBand]struct{}, len(p.StockBands))
		for _, b := range p.StockBands {
			bands[b] = struct{}{}
		}
	}

	term := strings.ToLower(p.SearchTerm)

	kept := make([]domain.Record, 0, len(table.Records))
	for _, rec := range table.Records {
		if locations != nil {
			if _, ok := locations[rec.Location]; !ok {
				continue
			}
		}
		if categories != nil {
			if _, ok := categories[rec.Category]; !ok {
				continue
			}
		}
		if bands != nil {
			band, ok := rec.Band()
			if !ok {
				continue
			}
			if _, ok := bands[band]; !ok {
				continue
			}
		}
		if term != "" && !matchesSearch(rec, term) {
			continue
		}
		kept = append(kept, rec)
	}

	view.Table = table.Subset(kept)
	return view
}

// matchesSearch does a case-insensitive substring match of a lowercased term
// against item_id or item_name. Empty cells never match.
func matchesSearch(rec domain.Record, term string) bool {
	if rec.ItemID != "" && strings.Contains(strings.ToLower(rec.ItemID), term) {
		return true
	}
	return rec.ItemName != "" && strings.Contains(strings.ToLower(rec.ItemName), term)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
