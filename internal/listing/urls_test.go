package listing

import "testing"

func TestURLBuilderToggle(t *testing.T) {
	b := URLBuilder{
		Path: "/opportunities",
		Sel:  Selection{Categories: []int{2, 7}, Region: "Riyadh", City: "Riyadh"},
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			"add keeps other filters, sorted",
			b.ToggleCategory(4),
			"/opportunities?category=2&category=4&category=7&region=Riyadh&city=Riyadh",
		},
		{
			"remove keeps other filters",
			b.ToggleCategory(7),
			"/opportunities?category=2&region=Riyadh&city=Riyadh",
		},
		{
			"clear categories keeps location",
			b.ClearCategories(),
			"/opportunities?region=Riyadh&city=Riyadh",
		},
		{
			"clear location keeps categories",
			b.ClearLocation(),
			"/opportunities?category=2&category=7",
		},
		{
			"clear all is the bare path",
			b.ClearAll(),
			"/opportunities",
		},
		{
			"categories-only query string",
			b.CategoriesQuery(),
			"category=2&category=7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestURLBuilderEscapesValues(t *testing.T) {
	b := URLBuilder{Path: "/opportunities", Sel: Selection{Region: "Eastern Province", City: "Dammam"}}
	want := "/opportunities?region=Eastern+Province&city=Dammam"
	if got := b.Current(); got != want {
		t.Errorf("Current() = %q, want %q", got, want)
	}
}

func TestURLBuilderPageParam(t *testing.T) {
	b := URLBuilder{Path: "/opportunities", Sel: Selection{Categories: []int{1}}}
	if got, want := b.Page(3), "/opportunities?category=1&page=3"; got != want {
		t.Errorf("Page(3) = %q, want %q", got, want)
	}
	// Page one never carries an explicit page parameter.
	if got, want := b.Page(1), "/opportunities?category=1"; got != want {
		t.Errorf("Page(1) = %q, want %q", got, want)
	}
}

func TestURLBuilderEmptySelection(t *testing.T) {
	b := URLBuilder{Path: "/opportunities"}
	if got := b.Current(); got != "/opportunities" {
		t.Errorf("Current() = %q, want bare path", got)
	}
	if got, want := b.ToggleCategory(9), "/opportunities?category=9"; got != want {
		t.Errorf("ToggleCategory(9) = %q, want %q", got, want)
	}
}
