package catalog

import "testing"

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c := mustLoad(t)

	if len(c.Categories) != 20 {
		t.Errorf("expected 20 categories, got %d", len(c.Categories))
	}
	if c.FallbackCategory != "Other" {
		t.Errorf("fallback category = %q, want Other", c.FallbackCategory)
	}
	if len(c.Regions) != 13 {
		t.Errorf("expected 13 regions, got %d", len(c.Regions))
	}
	if len(c.Majors) != 20 {
		t.Errorf("expected 20 majors, got %d", len(c.Majors))
	}
}

func TestParseLocation(t *testing.T) {
	c := mustLoad(t)

	tests := []struct {
		name   string
		loc    string
		region string
		city   string
		ok     bool
	}{
		{"pair no space", "Riyadh,Riyadh", "Riyadh", "Riyadh", true},
		{"pair with space", "Riyadh, Riyadh", "Riyadh", "Riyadh", true},
		{"pair extra whitespace", " riyadh ,  riyadh ", "Riyadh", "Riyadh", true},
		{"bare region", "Eastern Province", "Eastern Province", "", true},
		{"bare region trailing comma", "Eastern Province,", "Eastern Province", "", true},
		{"case folded", "eastern province, dammam", "Eastern Province", "Dammam", true},
		{"unknown region", "Atlantis,Riyadh", "", "", false},
		{"city of another region", "Riyadh,Jeddah", "", "", false},
		{"empty", "", "", "", false},
		{"whitespace only", "   ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, city, ok := c.ParseLocation(tt.loc)
			if ok != tt.ok || region != tt.region || city != tt.city {
				t.Errorf("ParseLocation(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.loc, region, city, ok, tt.region, tt.city, tt.ok)
			}
		})
	}
}

func TestNormalizeLocation(t *testing.T) {
	c := mustLoad(t)

	tests := []struct {
		in   string
		want string
	}{
		{"Riyadh, Riyadh", "Riyadh,Riyadh"},
		{" riyadh , riyadh ", "Riyadh,Riyadh"},
		{"Eastern Province", "Eastern Province,"},
		{"Eastern Province,", "Eastern Province,"},
		{"Atlantis", ""},
		{"Riyadh,Nowhere", ""},
	}

	for _, tt := range tests {
		if got := c.NormalizeLocation(tt.in); got != tt.want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalRegionAndCity(t *testing.T) {
	c := mustLoad(t)

	if _, ok := c.CanonicalRegion("atlantis"); ok {
		t.Error("unknown region should not resolve")
	}
	if region, ok := c.CanonicalRegion("HAIL"); !ok || region != "Hail" {
		t.Errorf("CanonicalRegion(HAIL) = (%q, %v), want (Hail, true)", region, ok)
	}
	if city, ok := c.CanonicalCity("Makkah", "jeddah"); !ok || city != "Jeddah" {
		t.Errorf("CanonicalCity(Makkah, jeddah) = (%q, %v), want (Jeddah, true)", city, ok)
	}
	if _, ok := c.CanonicalCity("Makkah", "Dammam"); ok {
		t.Error("city from another region should not resolve")
	}
}
