package importer

import (
	"testing"

	"github.com/salem/coop-finder/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func TestClassify(t *testing.T) {
	cl := NewClassifier(testCatalog(t))

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "Cybersecurity before general IT",
			text: "SOC Analyst Co-op in our cybersecurity operations center",
			want: "Cybersecurity",
		},
		{
			name: "Healthcare before data keywords",
			text: "Health informatics and medical data trainee",
			want: "Healthcare",
		},
		{
			name: "Software developer",
			text: "Backend developer internship, Go and Postgres",
			want: "Software Engineering",
		},
		{
			name: "Finance",
			text: "Corporate finance co-op trainee",
			want: "Finance",
		},
		{
			name: "Short token needs a whole word",
			text: "Operations trainee rotation",
			want: "Other",
		},
		{
			name: "IT as a standalone word",
			text: "IT Co-op Trainee",
			want: "Computer Science & IT",
		},
		{
			name: "AI as a standalone word",
			text: "AI research co-op",
			want: "Data & AI",
		},
		{
			name: "Arabic sharia keyword",
			text: "تدريب تعاوني في الشريعة",
			want: "Shariah & Islamic Studies",
		},
		{
			name: "Engineering disciplines",
			text: "Mechanical engineering summer program",
			want: "Engineering",
		},
		{
			name: "No keywords falls back",
			text: "General summer program",
			want: "Other",
		},
		{
			name: "Empty text falls back",
			text: "",
			want: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cl.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	cl := NewClassifier(testCatalog(t))

	tests := []struct {
		name     string
		explicit string
		majors   string
		desc     string
		want     string
	}{
		{
			name:     "Explicit catalog name wins over keywords",
			explicit: "Law",
			majors:   "Computer Science",
			want:     "Law",
		},
		{
			name:     "Unknown explicit name falls through to classification",
			explicit: "Robotics",
			majors:   "Mechanical Engineering",
			want:     "Engineering",
		},
		{
			name:     "Explicit name must match exactly",
			explicit: "law",
			majors:   "Accounting",
			want:     "Accounting",
		},
		{
			name: "Nothing resolvable falls back",
			want: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cl.Coerce(tt.explicit, tt.majors, tt.desc); got != tt.want {
				t.Errorf("Coerce(%q, %q, %q) = %q, want %q", tt.explicit, tt.majors, tt.desc, got, tt.want)
			}
		})
	}
}
