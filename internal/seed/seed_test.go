package seed

import (
	"math/rand"
	"strings"
	"testing"
)

func TestUsernameFor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sara Alzahrani", "sara"},
		{"Mohammed Alqahtani", "mohammed"},
		{"  Reem   Alshehri ", "reem"},
		{"", "student"},
	}
	for _, c := range cases {
		if got := usernameFor(c.in); got != c.want {
			t.Errorf("usernameFor(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSaudiMobileShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		got := saudiMobile(rng)
		if !strings.HasPrefix(got, "+9665") {
			t.Fatalf("mobile %q missing +9665 prefix", got)
		}
		if len(got) != len("+9665")+8 {
			t.Fatalf("mobile %q has wrong length", got)
		}
		for _, r := range got[5:] {
			if r < '0' || r > '9' {
				t.Fatalf("mobile %q has non-digit suffix", got)
			}
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.applyDefaults()
	if o.Opportunities == 0 || o.Students == 0 || o.Seed == 0 {
		t.Fatalf("defaults not applied: %+v", o)
	}
	if o.AdminPassword == "" {
		t.Fatal("defaults left admin password empty")
	}

	fixed := Options{Opportunities: 3, Seed: 42}
	fixed.applyDefaults()
	if fixed.Opportunities != 3 || fixed.Seed != 42 {
		t.Fatalf("defaults overwrote explicit values: %+v", fixed)
	}
}

func TestStatusPoolSkewsOpen(t *testing.T) {
	open := 0
	for _, s := range statuses {
		if s == "open" {
			open++
		}
	}
	if open != 3 || len(statuses) != 4 {
		t.Fatalf("expected 3 of 4 statuses open, got %d of %d", open, len(statuses))
	}
}
