// Package importer loads curated opportunity records into the store and
// keeps them fresh: a file-based import with dedupe and diff-updates, and a
// link checker that revisits source pages for content drift and dead links.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/salem/coop-finder/internal/catalog"
	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/models"
)

// Record is one curated listing as it appears in the import file. Major is
// the free-text "intended majors" line some sources publish; it is used as
// classifier input only and is not stored.
type Record struct {
	Company     string `yaml:"company"`
	Title       string `yaml:"title"`
	Major       string `yaml:"major"`
	Category    string `yaml:"category"`
	Location    string `yaml:"location"`
	Status      string `yaml:"status"`
	Deadline    string `yaml:"deadline"`
	SourceLink  string `yaml:"source_link"`
	Description string `yaml:"description"`
}

// Result tallies one import run.
type Result struct {
	Created  int
	Updated  int
	Skipped  int
	Failed   int
	Versions int
}

type Importer struct {
	store      *db.Store
	cat        *catalog.Catalog
	classifier *Classifier

	// UpdateExisting controls whether records matching an existing row
	// diff-update it or are counted as skips.
	UpdateExisting bool
}

func New(store *db.Store) *Importer {
	cat := store.Catalog()
	return &Importer{
		store:      store,
		cat:        cat,
		classifier: NewClassifier(cat),
	}
}

// ImportFile reads a YAML list of records and imports them.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curated file: %w", err)
	}
	var records []Record
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse curated file: %w", err)
	}
	return im.ImportRecords(ctx, records)
}

// ImportRecords imports records one at a time. A record that fails is
// logged and counted; it never aborts the rest of the batch.
func (im *Importer) ImportRecords(ctx context.Context, records []Record) (*Result, error) {
	if err := im.store.EnsureCategories(ctx, im.cat.Categories); err != nil {
		return nil, fmt.Errorf("ensure categories: %w", err)
	}

	res := &Result{}
	for _, rec := range records {
		switch outcome, err := im.importOne(ctx, rec); {
		case err != nil:
			log.Printf("[import] %q at %q: %v", rec.Title, rec.Company, err)
			res.Failed++
		case outcome == outcomeCreated:
			res.Created++
			res.Versions++
		case outcome == outcomeUpdated:
			res.Updated++
			res.Versions++
		default:
			res.Skipped++
		}
	}
	return res, nil
}

type importOutcome int

const (
	outcomeSkipped importOutcome = iota
	outcomeCreated
	outcomeUpdated
)

func (im *Importer) importOne(ctx context.Context, rec Record) (importOutcome, error) {
	title := cleanText(rec.Title)
	if title == "" {
		return outcomeSkipped, nil
	}
	company := cleanText(rec.Company)

	catName := im.classifier.Coerce(rec.Category, rec.Major, rec.Description)
	categoryID, err := im.store.CategoryIDByName(ctx, catName)
	if err != nil {
		return outcomeSkipped, fmt.Errorf("resolve category %q: %w", catName, err)
	}

	location := im.cat.NormalizeLocation(rec.Location)
	if location == "" && strings.TrimSpace(rec.Location) != "" {
		log.Printf("[import] %q: dropping unrecognized location %q", title, rec.Location)
	}

	status := strings.ToLower(strings.TrimSpace(rec.Status))
	if status != models.StatusOpen && status != models.StatusClosed {
		status = models.StatusOpen
	}

	var deadline *time.Time
	if strings.TrimSpace(rec.Deadline) != "" {
		if dt, err := parseDeadline(rec.Deadline); err == nil {
			deadline = &dt
		} else {
			log.Printf("[import] %q: %v", title, err)
		}
	}

	description := sanitizeHTML(sanitizeUTF8(rec.Description))
	descText := htmlToText(description)
	hash := contentHash(descText)
	sourceLink := strings.TrimSpace(rec.SourceLink)

	existing, err := im.findExisting(ctx, sourceLink, company, title)
	if err != nil {
		return outcomeSkipped, err
	}

	now := time.Now().UTC()
	if existing == nil {
		o := models.Opportunity{
			Title:         title,
			Company:       company,
			Description:   description,
			Location:      location,
			Deadline:      deadline,
			Status:        status,
			CategoryID:    categoryID,
			SourceLink:    sourceLink,
			LastCheckedAt: &now,
		}
		if err := im.store.CreateOpportunity(ctx, &o); err != nil {
			return outcomeSkipped, err
		}
		im.recordVersion(ctx, o.ID, sourceLink, descText, hash, true)
		return outcomeCreated, nil
	}

	if !im.UpdateExisting {
		return outcomeSkipped, nil
	}

	prevHash, err := im.store.LatestVersionHash(ctx, existing.ID)
	if err != nil {
		return outcomeSkipped, err
	}

	changed := false
	if existing.Location != location {
		existing.Location = location
		changed = true
	}
	if !sameDate(existing.Deadline, deadline) {
		existing.Deadline = deadline
		changed = true
	}
	if existing.Status != status {
		existing.Status = status
		changed = true
	}
	if existing.CategoryID != categoryID {
		existing.CategoryID = categoryID
		changed = true
	}
	if sourceLink != "" && existing.SourceLink != sourceLink {
		existing.SourceLink = sourceLink
		changed = true
	}
	if description != "" && existing.Description != description {
		existing.Description = description
		changed = true
	}
	if !changed {
		return outcomeSkipped, nil
	}

	existing.LastCheckedAt = &now
	if err := im.store.UpdateOpportunity(ctx, existing); err != nil {
		return outcomeSkipped, err
	}
	im.recordVersion(ctx, existing.ID, sourceLink, descText, hash, prevHash != hash)
	return outcomeUpdated, nil
}

func (im *Importer) findExisting(ctx context.Context, sourceLink, company, title string) (*models.Opportunity, error) {
	if sourceLink != "" {
		o, err := im.store.GetOpportunityBySourceLink(ctx, sourceLink)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
	}
	o, err := im.store.FindOpportunityByCompanyTitle(ctx, company, title)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// recordVersion snapshots are best-effort; a failed insert must not fail
// the import of the row itself.
func (im *Importer) recordVersion(ctx context.Context, oppID uuid.UUID, sourceLink, descText, hash string, changed bool) {
	v := models.OpportunityVersion{
		OpportunityID:   oppID,
		SourceLink:      sourceLink,
		DescriptionText: truncateText(descText, 4000),
		ContentHash:     hash,
		Changed:         changed,
	}
	if err := im.store.InsertVersion(ctx, &v); err != nil {
		log.Printf("[import] version snapshot: %v", err)
	}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
