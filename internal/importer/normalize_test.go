package importer

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"line\nbreaks\tand\ttabs", "line breaks and tabs"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHTMLToText(t *testing.T) {
	got := htmlToText("<div>\n<h1>IT Co-op</h1>\n<p>Apply   now.</p>\n</div>")
	if got != "IT Co-op Apply now." {
		t.Errorf("htmlToText = %q", got)
	}
}

func TestSanitizeHTMLStripsScripts(t *testing.T) {
	in := `<p>Safe</p><script>alert("x")</script><a href="https://example.com" onclick="evil()">link</a>`
	got := sanitizeHTML(in)
	if strings.Contains(got, "<script") || strings.Contains(got, "onclick") {
		t.Errorf("sanitizeHTML left unsafe content: %q", got)
	}
	if !strings.Contains(got, "<p>Safe</p>") {
		t.Errorf("sanitizeHTML dropped safe content: %q", got)
	}
}

func TestContentHash(t *testing.T) {
	if contentHash("") != "" {
		t.Error("empty text should hash to empty string")
	}
	if contentHash("   \n\t  ") != "" {
		t.Error("whitespace-only text should hash to empty string")
	}

	a := contentHash("same   text")
	b := contentHash("same text")
	if a == "" || a != b {
		t.Errorf("hash should ignore whitespace runs: %q vs %q", a, b)
	}
	if contentHash("other text") == a {
		t.Error("different text should hash differently")
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Errorf("truncateText short = %q", got)
	}
	got := truncateText("a very long description", 10)
	if len(got) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncateText = %q", got)
	}
}
