package listing

import (
	"fmt"
	"testing"
)

func TestResolveClamping(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		rawPage  string
		wantPage int
		wantNum  int
	}{
		{"empty defaults to first", 23, "", 1, 5},
		{"non-numeric defaults to first", 23, "abc", 1, 5},
		{"zero clamps to first", 23, "0", 1, 5},
		{"negative clamps to first", 23, "-4", 1, 5},
		{"in range", 23, "3", 3, 5},
		{"beyond last clamps to last", 23, "99", 5, 5},
		{"exact multiple", 20, "4", 4, 4},
		{"no items still one page", 0, "7", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.total, 5, tt.rawPage)
			if p.Number != tt.wantPage || p.NumPages != tt.wantNum {
				t.Errorf("Resolve(%d, 5, %q) = page %d of %d, want page %d of %d",
					tt.total, tt.rawPage, p.Number, p.NumPages, tt.wantPage, tt.wantNum)
			}
		})
	}
}

func TestLastPageItemCount(t *testing.T) {
	tests := []struct {
		total int
		size  int
		want  int
	}{
		{23, 5, 3},
		{20, 5, 5},
		{4, 5, 4},
		{5, 5, 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items size %d", tt.total, tt.size), func(t *testing.T) {
			p := Resolve(tt.total, tt.size, "9999")
			remaining := tt.total - p.Offset()
			if remaining != tt.want {
				t.Errorf("last page holds %d items, want %d", remaining, tt.want)
			}
		})
	}
}

func TestPageIndexWindow(t *testing.T) {
	fmtIndex := func(idx []*int) string {
		out := ""
		for _, p := range idx {
			if p == nil {
				out += " ..."
			} else {
				out += fmt.Sprintf(" %d", *p)
			}
		}
		return out
	}

	tests := []struct {
		name    string
		total   int
		page    string
		want    string
		hasPrev bool
		hasNext bool
	}{
		{"middle with two gaps", 50, "5", " 1 ... 3 4 5 6 7 ... 10", true, true},
		{"near start merges left run", 50, "2", " 1 2 3 4 ... 10", true, true},
		{"near end merges right run", 50, "9", " 1 ... 7 8 9 10", true, false},
		{"first page", 50, "1", " 1 2 3 ... 10", false, true},
		{"single page", 3, "1", " 1", false, false},
		{"empty set", 0, "1", " 1", false, false},
		{"adjacent window no gap", 30, "3", " 1 2 3 4 5 6", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.total, 5, tt.page)
			if got := fmtIndex(p.Index()); got != tt.want {
				t.Errorf("Index() =%s, want%s", got, tt.want)
			}
			if p.HasPrev() != tt.hasPrev || p.HasNext() != tt.hasNext {
				t.Errorf("HasPrev/HasNext = %v/%v, want %v/%v",
					p.HasPrev(), p.HasNext(), tt.hasPrev, tt.hasNext)
			}
		})
	}
}

func TestPageIndexBoundsAppearOnce(t *testing.T) {
	for _, rawPage := range []string{"1", "4", "8", "15"} {
		p := Resolve(73, 5, rawPage)
		first, last := 0, 0
		for _, n := range p.Index() {
			if n == nil {
				continue
			}
			switch *n {
			case 1:
				first++
			case p.NumPages:
				last++
			}
		}
		if first != 1 || last != 1 {
			t.Errorf("page %s: first appears %d times, last %d times", rawPage, first, last)
		}
	}
}

func TestPageIndexNoAdjacentEllipses(t *testing.T) {
	for total := 0; total <= 120; total += 7 {
		for page := 1; page <= 25; page += 3 {
			p := Resolve(total, 5, fmt.Sprintf("%d", page))
			prevNil := false
			for _, n := range p.Index() {
				if n == nil {
					if prevNil {
						t.Fatalf("total %d page %d: adjacent ellipsis markers", total, page)
					}
					prevNil = true
				} else {
					prevNil = false
				}
			}
		}
	}
}
