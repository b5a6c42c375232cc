package db

import (
	"strings"
	"testing"
)

func TestBuildListWhere_CategoryAndLocation(t *testing.T) {
	params := ListParams{
		Categories: []int{2, 5},
		Region:     "Riyadh",
		City:       "Riyadh",
	}

	where, args := buildListWhereExcluding(params, "")

	mustContain := []string{
		"WHERE 1=1",
		"category_id = ANY($1)",
		"LOWER(location) = LOWER($2)",
		"LOWER(location) = LOWER($3)",
	}
	for _, token := range mustContain {
		if !strings.Contains(where, token) {
			t.Fatalf("where clause missing token %q: %s", token, where)
		}
	}

	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d: %v", len(args), args)
	}
	if args[1] != "Riyadh,Riyadh" || args[2] != "Riyadh, Riyadh" {
		t.Errorf("location args must cover both comma spellings, got %v", args[1:])
	}
}

func TestBuildListWhere_RegionOnlyUsesPrefixMatch(t *testing.T) {
	params := ListParams{Region: "Eastern Province"}

	where, args := buildListWhereExcluding(params, "")

	if !strings.Contains(where, "location LIKE $1") {
		t.Fatalf("region-only filter should prefix-match, got: %s", where)
	}
	if len(args) != 1 || args[0] != "Eastern Province,%" {
		t.Errorf("prefix arg = %v, want [Eastern Province,%%]", args)
	}
}

func TestBuildListWhere_EmptySelectionHasNoFilters(t *testing.T) {
	where, args := buildListWhereExcluding(ListParams{}, "")

	if where != "WHERE 1=1" {
		t.Errorf("empty selection should produce the bare clause, got: %s", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildListWhere_ExcludesOwnFacet(t *testing.T) {
	params := ListParams{
		Categories: []int{3},
		Region:     "Makkah",
		City:       "Jeddah",
	}

	t.Run("category counts ignore category filter", func(t *testing.T) {
		where, _ := buildListWhereExcluding(params, facetCategory)
		if strings.Contains(where, "category_id") {
			t.Errorf("category facet must not filter by category: %s", where)
		}
		if !strings.Contains(where, "location") {
			t.Errorf("category facet must keep the location filter: %s", where)
		}
	})

	t.Run("location counts ignore location filter", func(t *testing.T) {
		where, _ := buildListWhereExcluding(params, facetLocation)
		if strings.Contains(where, "location") {
			t.Errorf("location facet must not filter by location: %s", where)
		}
		if !strings.Contains(where, "category_id") {
			t.Errorf("location facet must keep the category filter: %s", where)
		}
	})
}

func TestBuildListWhere_CategoryCountsInvariantToSelection(t *testing.T) {
	// With the location fixed, the category-facet clause must be identical
	// whatever categories are selected.
	base := ListParams{Region: "Riyadh", City: "Riyadh"}

	variants := [][]int{nil, {1}, {1, 2, 3}, {9, 14}}
	var first string
	for i, cats := range variants {
		params := base
		params.Categories = cats
		where, _ := buildListWhereExcluding(params, facetCategory)
		if i == 0 {
			first = where
			continue
		}
		if where != first {
			t.Errorf("category facet clause varies with selection %v:\n  %s\nvs\n  %s", cats, where, first)
		}
	}
}

func TestBuildListWhere_StatusAlwaysApplies(t *testing.T) {
	params := ListParams{Status: "open", Categories: []int{1}, Region: "Hail"}

	for _, exclude := range []string{"", facetCategory, facetLocation} {
		where, args := buildListWhereExcluding(params, exclude)
		if !strings.Contains(where, "status = $1") {
			t.Errorf("exclude=%q: status filter missing: %s", exclude, where)
		}
		if args[0] != "open" {
			t.Errorf("exclude=%q: first arg = %v, want open", exclude, args[0])
		}
	}
}

func TestBuildListWhere_PlaceholdersAreSequential(t *testing.T) {
	params := ListParams{
		Status:     "open",
		Categories: []int{4, 7},
		Region:     "Qassim",
		City:       "Unaizah",
	}

	where, args := buildListWhereExcluding(params, "")

	for _, ph := range []string{"$1", "$2", "$3", "$4"} {
		if !strings.Contains(where, ph) {
			t.Fatalf("missing placeholder %s in: %s", ph, where)
		}
	}
	if strings.Contains(where, "$5") {
		t.Fatalf("unexpected placeholder $5 in: %s", where)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
}
