package importer

import (
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "ISO date", in: "2026-03-15", want: "2026-03-15"},
		{name: "Day month year", in: "15 March 2026", want: "2026-03-15"},
		{name: "Month day year", in: "March 15, 2026", want: "2026-03-15"},
		{name: "Short month", in: "15 Mar 2026", want: "2026-03-15"},
		{name: "Slash date", in: "15/03/2026", want: "2026-03-15"},
		{name: "Label prefix stripped", in: "Deadline: 2026-03-15", want: "2026-03-15"},
		{name: "Date embedded in text", in: "Apply before March 15, 2026 at noon", want: "2026-03-15"},
		{name: "Whitespace", in: "  2026-03-15  ", want: "2026-03-15"},
		{name: "Empty", in: "", wantErr: true},
		{name: "Garbage", in: "sometime next spring", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDeadline(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDeadline(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDeadline(%q): %v", tt.in, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("parseDeadline(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
			if got.Hour() != 0 || got.Location() != time.UTC {
				t.Errorf("parseDeadline(%q) should be midnight UTC, got %v", tt.in, got)
			}
		})
	}
}
