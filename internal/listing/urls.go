package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// URLBuilder renders filter-preserving navigation links for a selection.
// Encoding is deterministic: sorted category IDs, then region, then city,
// with page always dropped so a changed filter lands on page one.
type URLBuilder struct {
	Path string
	Sel  Selection
}

func encodeParams(sel Selection, page int) string {
	var b strings.Builder
	appendParam := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	for _, id := range sel.Categories {
		appendParam("category", strconv.Itoa(id))
	}
	if sel.Region != "" {
		appendParam("region", sel.Region)
	}
	if sel.City != "" {
		appendParam("city", sel.City)
	}
	if page > 1 {
		appendParam("page", strconv.Itoa(page))
	}
	return b.String()
}

func (u URLBuilder) render(sel Selection, page int) string {
	qs := encodeParams(sel, page)
	if qs == "" {
		return u.Path
	}
	return u.Path + "?" + qs
}

// Current returns the URL for the selection as-is, without a page number.
func (u URLBuilder) Current() string {
	return u.render(u.Sel, 0)
}

// Page returns the URL for the selection at the given page number.
func (u URLBuilder) Page(page int) string {
	return u.render(u.Sel, page)
}

// ToggleCategory returns the URL with the category added or removed and
// every other filter preserved.
func (u URLBuilder) ToggleCategory(id int) string {
	return u.render(u.Sel.ToggleCategory(id), 0)
}

// ClearCategories drops all selected categories, keeping the location.
func (u URLBuilder) ClearCategories() string {
	return u.render(Selection{Region: u.Sel.Region, City: u.Sel.City}, 0)
}

// ClearLocation drops region and city, keeping the categories.
func (u URLBuilder) ClearLocation() string {
	return u.render(Selection{Categories: u.Sel.Categories}, 0)
}

// ClearAll returns the bare listing path.
func (u URLBuilder) ClearAll() string {
	return u.Path
}

// CategoriesQuery returns the query string holding only the selected
// categories, for clients composing their own location links.
func (u URLBuilder) CategoriesQuery() string {
	return encodeParams(Selection{Categories: u.Sel.Categories}, 0)
}
