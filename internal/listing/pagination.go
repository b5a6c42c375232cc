package listing

import (
	"strconv"
	"strings"
)

// DefaultPageSize matches the original listing page.
const DefaultPageSize = 5

// pageWindow is the radius of pages kept around the current page in the
// compressed index.
const pageWindow = 2

// Page describes one resolved page of a result set.
type Page struct {
	Number   int `json:"page"`
	Size     int `json:"page_size"`
	Total    int `json:"total"`
	NumPages int `json:"num_pages"`
}

// Resolve clamps a raw page parameter against the total item count.
// Non-numeric input and values below one resolve to the first page; values
// past the end resolve to the last page. An empty result set still has one
// (empty) page, so Number is always valid.
func Resolve(total, pageSize int, rawPage string) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	numPages := (total + pageSize - 1) / pageSize
	if numPages < 1 {
		numPages = 1
	}

	number := 1
	if raw := strings.TrimSpace(rawPage); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			number = n
		}
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Page{Number: number, Size: pageSize, Total: total, NumPages: numPages}
}

// Offset returns the zero-based offset of the page's first item.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.NumPages }

func (p Page) Prev() int {
	if p.HasPrev() {
		return p.Number - 1
	}
	return p.Number
}

func (p Page) Next() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

// Index returns the compressed page-number list: always page one and the
// last page, every page within pageWindow of the current page, and a nil
// marker for each collapsed gap.
func (p Page) Index() []*int {
	var kept []int
	for n := 1; n <= p.NumPages; n++ {
		if n == 1 || n == p.NumPages || (p.Number-pageWindow <= n && n <= p.Number+pageWindow) {
			kept = append(kept, n)
		}
	}

	var out []*int
	prev := 0
	for _, n := range kept {
		if prev != 0 && n-prev > 1 {
			out = append(out, nil)
		}
		n := n
		out = append(out, &n)
		prev = n
	}
	return out
}
