package importer

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestRecordFileShape(t *testing.T) {
	src := `
- company: "AON"
  title: "IT Co-op Trainee"
  major: "Computer Science, IT"
  category: "Computer Science & IT"
  location: "Riyadh,Riyadh"
  status: "open"
  deadline: "2026-12-31"
  source_link: "https://example.com/jobs/123"
  description: "<p>Apply now</p>"
- title: "Finance Co-op"
  company: "SAB"
`
	var records []Record
	if err := yaml.Unmarshal([]byte(src), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0]
	if first.Company != "AON" || first.Title != "IT Co-op Trainee" {
		t.Errorf("first record mismatch: %+v", first)
	}
	if first.SourceLink != "https://example.com/jobs/123" {
		t.Errorf("source_link not mapped: %q", first.SourceLink)
	}
	second := records[1]
	if second.Status != "" || second.Deadline != "" {
		t.Errorf("omitted fields should stay empty: %+v", second)
	}
}

func TestSameDate(t *testing.T) {
	d1 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	d1Noon := time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b *time.Time
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", &d1, nil, false},
		{"same day different time", &d1, &d1Noon, true},
		{"different days", &d1, &d2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameDate(tt.a, tt.b); got != tt.want {
				t.Errorf("sameDate = %v, want %v", got, tt.want)
			}
		})
	}
}
