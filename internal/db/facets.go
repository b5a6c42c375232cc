package db

import (
	"context"
	"fmt"
)

// CategoryCounts returns per-category totals for the sidebar. The category
// filter itself is excluded so every category shows what selecting it would
// yield; the location filter still applies.
func (s *Store) CategoryCounts(ctx context.Context, params ListParams) (map[int]int, error) {
	where, args := buildListWhereExcluding(params, facetCategory)
	sql := "SELECT category_id, COUNT(*) FROM opportunities " + where + " GROUP BY category_id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var id, count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// CityCount is a single city entry in the location menu.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// RegionCount is one region of the location menu with its city breakdown.
// Every catalog region and city is present, zero counts included.
type RegionCount struct {
	Region string      `json:"region"`
	Count  int         `json:"count"`
	Cities []CityCount `json:"cities"`
}

// LocationCounts builds the region/city menu. The location filter is
// excluded while the category filter still applies. Counting parses the
// stored location text against the catalog; values that do not resolve to
// a catalog region (and, when a city part is present, to one of its
// cities) are skipped.
func (s *Store) LocationCounts(ctx context.Context, params ListParams) ([]RegionCount, error) {
	where, args := buildListWhereExcluding(params, facetLocation)
	sql := "SELECT location FROM opportunities " + where + " AND location IS NOT NULL AND location <> ''"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("location counts: %w", err)
	}
	defer rows.Close()

	regionTotals := make(map[string]int)
	cityTotals := make(map[string]map[string]int)

	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		region, city, ok := s.catalog.ParseLocation(loc)
		if !ok {
			continue
		}
		regionTotals[region]++
		if city != "" {
			if cityTotals[region] == nil {
				cityTotals[region] = make(map[string]int)
			}
			cityTotals[region][city]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("location rows: %w", err)
	}

	menu := make([]RegionCount, 0, len(s.catalog.Regions))
	for _, r := range s.catalog.Regions {
		rc := RegionCount{Region: r.Name, Count: regionTotals[r.Name]}
		rc.Cities = make([]CityCount, 0, len(r.Cities))
		for _, city := range r.Cities {
			rc.Cities = append(rc.Cities, CityCount{City: city, Count: cityTotals[r.Name][city]})
		}
		menu = append(menu, rc)
	}
	return menu, nil
}
