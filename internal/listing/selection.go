// Package listing implements the catalog browse logic: canonicalizing the
// filter selection from request parameters, building the filter-preserving
// navigation URLs, and windowed pagination. Everything here is pure; the
// store applies the selection to SQL.
package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/salem/coop-finder/internal/catalog"
)

// Selection is the canonical filter state parsed from a request: category
// IDs deduplicated and sorted ascending, region/city validated against the
// catalog. A zero Selection means no filters.
type Selection struct {
	Categories []int
	Region     string
	City       string
}

// ParseSelection canonicalizes raw query parameters. Non-integer category
// values are skipped. An unknown region drops both region and city; a city
// that does not belong to the selected region drops only the city. Bad
// input never errors, it degrades to "not selected".
func ParseSelection(params url.Values, cat *catalog.Catalog) Selection {
	var sel Selection

	seen := make(map[int]bool)
	for _, raw := range params["category"] {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		sel.Categories = append(sel.Categories, id)
	}
	sort.Ints(sel.Categories)

	region := strings.TrimSpace(params.Get("region"))
	city := strings.TrimSpace(params.Get("city"))
	if region != "" {
		if canonical, ok := cat.CanonicalRegion(region); ok {
			sel.Region = canonical
		} else {
			city = ""
		}
	}
	if sel.Region != "" && city != "" {
		if canonical, ok := cat.CanonicalCity(sel.Region, city); ok {
			sel.City = canonical
		}
	}

	return sel
}

// HasCategory reports whether id is part of the selection.
func (s Selection) HasCategory(id int) bool {
	for _, c := range s.Categories {
		if c == id {
			return true
		}
	}
	return false
}

// ToggleCategory returns a copy of the selection with id added when absent
// or removed when present. Toggling twice restores the original set.
func (s Selection) ToggleCategory(id int) Selection {
	out := Selection{Region: s.Region, City: s.City}
	removed := false
	for _, c := range s.Categories {
		if c == id {
			removed = true
			continue
		}
		out.Categories = append(out.Categories, c)
	}
	if !removed {
		out.Categories = append(out.Categories, id)
		sort.Ints(out.Categories)
	}
	return out
}
