package catalog

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/catalog.yaml
var catalogYAML embed.FS

// Catalog holds the fixed enumerations the application is configured with:
// opportunity categories, the region/city hierarchy used by the location
// filter, and the majors offered on student profiles. It is loaded once at
// startup and passed to the components that need it.
type Catalog struct {
	FallbackCategory string   `yaml:"fallback_category"`
	Categories       []string `yaml:"categories"`
	Regions          []Region `yaml:"regions"`
	Majors           []string `yaml:"majors"`
}

type Region struct {
	Name   string   `yaml:"name"`
	Cities []string `yaml:"cities"`
}

// Load reads the embedded catalog.yaml. The path parameter is a filesystem
// override for local development; it is tried only when the embedded copy
// cannot be read.
func Load(path string) (*Catalog, error) {
	data, err := catalogYAML.ReadFile("config/catalog.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	expanded := os.ExpandEnv(string(data))

	var c Catalog
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog: no categories configured")
	}
	if c.FallbackCategory == "" {
		return fmt.Errorf("catalog: fallback_category is required")
	}
	found := false
	for _, name := range c.Categories {
		if name == c.FallbackCategory {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("catalog: fallback_category %q is not in categories", c.FallbackCategory)
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("catalog: no regions configured")
	}
	return nil
}

// CanonicalRegion returns the catalog spelling of a region name, matching
// case-insensitively. ok is false for regions not in the catalog.
func (c *Catalog) CanonicalRegion(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, r := range c.Regions {
		if strings.EqualFold(r.Name, name) {
			return r.Name, true
		}
	}
	return "", false
}

// CanonicalCity returns the catalog spelling of a city within the given
// region. ok is false when the region is unknown or the city does not
// belong to it.
func (c *Catalog) CanonicalCity(region, city string) (string, bool) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", false
	}
	for _, r := range c.Regions {
		if !strings.EqualFold(r.Name, region) {
			continue
		}
		for _, cc := range r.Cities {
			if strings.EqualFold(cc, city) {
				return cc, true
			}
		}
	}
	return "", false
}

// CitiesFor returns the city list for a region, nil for unknown regions.
func (c *Catalog) CitiesFor(region string) []string {
	for _, r := range c.Regions {
		if strings.EqualFold(r.Name, region) {
			return r.Cities
		}
	}
	return nil
}

// HasCategory reports whether name is a configured category.
func (c *Catalog) HasCategory(name string) bool {
	for _, n := range c.Categories {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// ParseLocation splits a stored location value into its region and optional
// city, validated against the catalog. The stored encoding is "Region,City"
// with an optional space after the comma, or a bare "Region". ok is false
// for empty, unparseable, or unrecognized values; such rows are skipped by
// facet counting rather than surfaced as errors.
func (c *Catalog) ParseLocation(loc string) (region, city string, ok bool) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return "", "", false
	}
	part := loc
	rest := ""
	if i := strings.Index(loc, ","); i >= 0 {
		part = loc[:i]
		rest = loc[i+1:]
	}
	region, ok = c.CanonicalRegion(part)
	if !ok {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return region, "", true
	}
	city, ok = c.CanonicalCity(region, rest)
	if !ok {
		// Region recognized but the city is not in its list. Treat the
		// whole value as unrecognized so counts stay catalog-consistent.
		return "", "", false
	}
	return region, city, true
}

// NormalizeLocation canonicalizes a raw location string to the stored
// encoding: "Region,City", or "Region," when only the region is known, or
// "" when nothing matches the catalog. The comma is always present so that
// region-prefix matching works uniformly.
func (c *Catalog) NormalizeLocation(raw string) string {
	region, city, ok := c.ParseLocation(raw)
	if !ok {
		return ""
	}
	return region + "," + city
}
