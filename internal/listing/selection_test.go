package listing

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/salem/coop-finder/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load("")
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return c
}

func TestParseSelectionCategories(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name string
		raw  []string
		want []int
	}{
		{"sorted and deduped", []string{"7", "3", "7", "1"}, []int{1, 3, 7}},
		{"non-integers skipped", []string{"2", "abc", "", "4"}, []int{2, 4}},
		{"whitespace tolerated", []string{" 5 "}, []int{5}},
		{"empty means no filter", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{"category": tt.raw}
			sel := ParseSelection(params, cat)
			if !reflect.DeepEqual(sel.Categories, tt.want) {
				t.Errorf("Categories = %v, want %v", sel.Categories, tt.want)
			}
		})
	}
}

func TestParseSelectionLocation(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name   string
		region string
		city   string
		wantR  string
		wantC  string
	}{
		{"valid pair", "Riyadh", "Riyadh", "Riyadh", "Riyadh"},
		{"region only", "Tabuk", "", "Tabuk", ""},
		{"unknown region drops both", "Atlantis", "Riyadh", "", ""},
		{"city of another region dropped", "Riyadh", "Jeddah", "Riyadh", ""},
		{"case folded to catalog spelling", "eastern province", "dammam", "Eastern Province", "Dammam"},
		{"city without region dropped", "", "Jeddah", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{}
			if tt.region != "" {
				params.Set("region", tt.region)
			}
			if tt.city != "" {
				params.Set("city", tt.city)
			}
			sel := ParseSelection(params, cat)
			if sel.Region != tt.wantR || sel.City != tt.wantC {
				t.Errorf("got (%q, %q), want (%q, %q)", sel.Region, sel.City, tt.wantR, tt.wantC)
			}
		})
	}
}

func TestToggleCategoryTwiceRestoresSelection(t *testing.T) {
	sel := Selection{Categories: []int{2, 5, 9}, Region: "Riyadh", City: "Riyadh"}

	for _, id := range []int{5, 14} {
		once := sel.ToggleCategory(id)
		twice := once.ToggleCategory(id)
		if !reflect.DeepEqual(twice.Categories, sel.Categories) {
			t.Errorf("toggle %d twice: got %v, want %v", id, twice.Categories, sel.Categories)
		}
	}
}

func TestToggleCategoryKeepsOrder(t *testing.T) {
	sel := Selection{Categories: []int{3, 8}}
	got := sel.ToggleCategory(5)
	want := []int{3, 5, 8}
	if !reflect.DeepEqual(got.Categories, want) {
		t.Errorf("Categories = %v, want %v", got.Categories, want)
	}
}
