package api

import (
	"embed"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

//go:embed config/pages.yaml
var pagesYAML embed.FS

type staticPage struct {
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

var (
	pagesOnce   sync.Once
	pagesBySlug map[string]staticPage
	pagesErr    error
)

func loadPages() (map[string]staticPage, error) {
	pagesOnce.Do(func() {
		data, err := pagesYAML.ReadFile("config/pages.yaml")
		if err != nil {
			pagesErr = err
			return
		}
		var pages []staticPage
		if err := yaml.Unmarshal(data, &pages); err != nil {
			pagesErr = err
			return
		}
		m := make(map[string]staticPage, len(pages))
		for _, p := range pages {
			m[p.Slug] = p
		}
		pagesBySlug = m
	})
	return pagesBySlug, pagesErr
}

func (s *Server) handleGetPage(c echo.Context) error {
	pages, err := loadPages()
	if err != nil {
		c.Logger().Errorf("Failed to load pages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	page, ok := pages[c.Param("slug")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, page)
}
