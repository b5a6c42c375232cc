package api

import (
	"strings"
	"testing"
	"time"

	"github.com/salem/coop-finder/internal/catalog"
)

func intPtr(v int) *int { return &v }

func TestRatingOverall(t *testing.T) {
	tests := []struct {
		name     string
		scores   []*int
		overall  float64
		provided int
	}{
		{"all four", []*int{intPtr(5), intPtr(5), intPtr(5), intPtr(5)}, 5, 4},
		{"two provided", []*int{intPtr(4), intPtr(5), nil, nil}, 4.5, 2},
		{"rounded to cents", []*int{intPtr(3), intPtr(4), intPtr(4), nil}, 3.67, 3},
		{"single", []*int{nil, intPtr(3), nil, nil}, 3, 1},
		{"none", []*int{nil, nil, nil, nil}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overall, provided := ratingOverall(tt.scores...)
			if overall != tt.overall || provided != tt.provided {
				t.Errorf("ratingOverall() = (%v, %d), want (%v, %d)", overall, provided, tt.overall, tt.provided)
			}
		})
	}
}

func TestValidateScores(t *testing.T) {
	if errs := validateScores(ratingRequest{LearningValue: intPtr(3), Outcome: intPtr(5)}); errs != nil {
		t.Errorf("valid scores flagged: %v", errs)
	}

	errs := validateScores(ratingRequest{LearningValue: intPtr(0), WorkEnv: intPtr(6), Mentorship: intPtr(2)})
	if errs == nil {
		t.Fatal("out-of-range scores not flagged")
	}
	if _, ok := errs["learning_value"]; !ok {
		t.Error("learning_value=0 not flagged")
	}
	if _, ok := errs["work_env"]; !ok {
		t.Error("work_env=6 not flagged")
	}
	if _, ok := errs["mentorship"]; ok {
		t.Error("mentorship=2 flagged but is valid")
	}
}

func TestToSubmission(t *testing.T) {
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	s := &Server{Catalog: cat}

	t.Run("required fields", func(t *testing.T) {
		_, errs := s.toSubmission(submissionRequest{})
		for _, field := range []string{"title", "company", "category_id"} {
			if _, ok := errs[field]; !ok {
				t.Errorf("missing %s not flagged: %v", field, errs)
			}
		}
	})

	t.Run("unknown location", func(t *testing.T) {
		_, errs := s.toSubmission(submissionRequest{
			Title: "Co-op", Company: "ACME", CategoryID: 1, Location: "Atlantis",
		})
		if _, ok := errs["location"]; !ok {
			t.Errorf("unknown location not flagged: %v", errs)
		}
	})

	t.Run("bad deadline", func(t *testing.T) {
		_, errs := s.toSubmission(submissionRequest{
			Title: "Co-op", Company: "ACME", CategoryID: 1, Deadline: "soon",
		})
		if _, ok := errs["deadline"]; !ok {
			t.Errorf("unparseable deadline not flagged: %v", errs)
		}
	})

	t.Run("valid", func(t *testing.T) {
		sub, errs := s.toSubmission(submissionRequest{
			Title:       "  IT Co-op Trainee ",
			Company:     "SAB",
			Description: `<p>Great role</p><script>alert(1)</script>`,
			Location:    " riyadh , riyadh ",
			Deadline:    "2026-10-01",
			CategoryID:  3,
			CVLink:      "https://example.com/cv.pdf",
		})
		if errs != nil {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if sub.Title != "IT Co-op Trainee" {
			t.Errorf("Title = %q", sub.Title)
		}
		if sub.Location != "Riyadh,Riyadh" {
			t.Errorf("Location = %q, want canonical form", sub.Location)
		}
		if strings.Contains(sub.Description, "script") {
			t.Errorf("Description not sanitized: %q", sub.Description)
		}
		if !strings.Contains(sub.Description, "Great role") {
			t.Errorf("Description content lost: %q", sub.Description)
		}
		want := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		if sub.Deadline == nil || !sub.Deadline.Equal(want) {
			t.Errorf("Deadline = %v, want %v", sub.Deadline, want)
		}
	})
}

func TestLoadPages(t *testing.T) {
	pages, err := loadPages()
	if err != nil {
		t.Fatalf("loadPages: %v", err)
	}
	for _, slug := range []string{"home", "about-us", "contact-us", "terms-of-service", "privacy-policy"} {
		p, ok := pages[slug]
		if !ok {
			t.Errorf("page %q missing", slug)
			continue
		}
		if p.Title == "" || p.Body == "" {
			t.Errorf("page %q has empty title or body", slug)
		}
	}
	if _, ok := pages["careers"]; ok {
		t.Error("unexpected page slug present")
	}
}
