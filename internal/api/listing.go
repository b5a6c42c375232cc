package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/listing"
	"github.com/salem/coop-finder/internal/models"
)

type categoryFacet struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Selected  bool   `json:"selected"`
	ToggleURL string `json:"toggle_url"`
}

type cityFacet struct {
	City     string `json:"city"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
	URL      string `json:"url"`
}

type regionFacet struct {
	Region   string      `json:"region"`
	Count    int         `json:"count"`
	Selected bool        `json:"selected"`
	URL      string      `json:"url"`
	Cities   []cityFacet `json:"cities"`
}

type facetBlock struct {
	Categories []categoryFacet `json:"categories"`
	Regions    []regionFacet   `json:"regions"`
}

type paginationBlock struct {
	listing.Page
	PageIndex []*int `json:"page_index"`
	HasPrev   bool   `json:"has_prev"`
	HasNext   bool   `json:"has_next"`
	PrevURL   string `json:"prev_url,omitempty"`
	NextURL   string `json:"next_url,omitempty"`
}

type selectionBlock struct {
	Categories []int  `json:"categories"`
	Region     string `json:"region"`
	City       string `json:"city"`
}

type urlBlock struct {
	Current         string `json:"current"`
	ClearCategories string `json:"clear_categories"`
	ClearLocation   string `json:"clear_location"`
	ClearAll        string `json:"clear_all"`
}

type listResponse struct {
	Items      []models.Opportunity `json:"items"`
	Pagination paginationBlock      `json:"pagination"`
	Facets     facetBlock           `json:"facets"`
	Selection  selectionBlock       `json:"selection"`
	URLs       urlBlock             `json:"urls"`
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	ctx := c.Request().Context()

	sel := listing.ParseSelection(c.QueryParams(), s.Catalog)
	base := db.ListParams{Categories: sel.Categories, Region: sel.Region, City: sel.City}

	// First fetch trusts the raw page number; the count that rides back
	// tells us whether it pointed past the end of the result set.
	rawPage := c.QueryParam("page")
	offset := 0
	if n, err := strconv.Atoi(strings.TrimSpace(rawPage)); err == nil && n > 1 {
		offset = (n - 1) * s.PageSize
	}

	params := base
	params.Limit = s.PageSize
	params.Offset = offset
	result, err := s.Store.ListOpportunities(ctx, params)
	if err != nil {
		c.Logger().Errorf("Failed to list opportunities: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	page := listing.Resolve(result.Total, s.PageSize, rawPage)
	if page.Offset() != offset {
		// Out-of-range page clamped to the last one; refetch at the
		// corrected offset.
		params.Offset = page.Offset()
		result, err = s.Store.ListOpportunities(ctx, params)
		if err != nil {
			c.Logger().Errorf("Failed to list opportunities: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}
	}

	categories, err := s.Store.Categories(ctx)
	if err != nil {
		c.Logger().Errorf("Failed to load categories: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	catCounts, err := s.Store.CategoryCounts(ctx, base)
	if err != nil {
		c.Logger().Errorf("Failed to count categories: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	regionCounts, err := s.Store.LocationCounts(ctx, base)
	if err != nil {
		c.Logger().Errorf("Failed to count locations: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	builder := listing.URLBuilder{Path: c.Path(), Sel: sel}

	catFacets := make([]categoryFacet, 0, len(categories))
	for _, cat := range categories {
		catFacets = append(catFacets, categoryFacet{
			ID:        cat.ID,
			Name:      cat.Name,
			Count:     catCounts[cat.ID],
			Selected:  sel.HasCategory(cat.ID),
			ToggleURL: builder.ToggleCategory(cat.ID),
		})
	}

	regionFacets := make([]regionFacet, 0, len(regionCounts))
	for _, rc := range regionCounts {
		rf := regionFacet{
			Region:   rc.Region,
			Count:    rc.Count,
			Selected: rc.Region == sel.Region,
			URL: listing.URLBuilder{Path: c.Path(), Sel: listing.Selection{
				Categories: sel.Categories, Region: rc.Region,
			}}.Current(),
		}
		for _, cc := range rc.Cities {
			rf.Cities = append(rf.Cities, cityFacet{
				City:     cc.City,
				Count:    cc.Count,
				Selected: rc.Region == sel.Region && cc.City == sel.City,
				URL: listing.URLBuilder{Path: c.Path(), Sel: listing.Selection{
					Categories: sel.Categories, Region: rc.Region, City: cc.City,
				}}.Current(),
			})
		}
		regionFacets = append(regionFacets, rf)
	}

	pagination := paginationBlock{
		Page:      page,
		PageIndex: page.Index(),
		HasPrev:   page.HasPrev(),
		HasNext:   page.HasNext(),
	}
	if page.HasPrev() {
		pagination.PrevURL = builder.Page(page.Prev())
	}
	if page.HasNext() {
		pagination.NextURL = builder.Page(page.Next())
	}

	selCategories := sel.Categories
	if selCategories == nil {
		selCategories = []int{}
	}

	return c.JSON(http.StatusOK, listResponse{
		Items:      result.Opportunities,
		Pagination: pagination,
		Facets:     facetBlock{Categories: catFacets, Regions: regionFacets},
		Selection:  selectionBlock{Categories: selCategories, Region: sel.Region, City: sel.City},
		URLs: urlBlock{
			Current:         builder.Current(),
			ClearCategories: builder.ClearCategories(),
			ClearLocation:   builder.ClearLocation(),
			ClearAll:        builder.ClearAll(),
		},
	})
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	opp, err := s.Store.GetOpportunity(c.Request().Context(), id.String())
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		c.Logger().Errorf("Failed to get opportunity: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, opp)
}

func (s *Server) handleLeaderboard(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	rows, err := s.Store.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		c.Logger().Errorf("Failed to build leaderboard: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	if rows == nil {
		rows = []db.CompanyRank{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"companies": rows})
}

func (s *Server) handleMeta(c echo.Context) error {
	categories, err := s.Store.Categories(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to load categories: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	regions := make([]map[string]interface{}, 0, len(s.Catalog.Regions))
	for _, r := range s.Catalog.Regions {
		regions = append(regions, map[string]interface{}{
			"name":   r.Name,
			"cities": r.Cities,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"service":    serviceName,
		"version":    serviceVersion,
		"page_size":  s.PageSize,
		"categories": categories,
		"regions":    regions,
		"majors":     s.Catalog.Majors,
	})
}
