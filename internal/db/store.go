package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salem/coop-finder/internal/catalog"
	"github.com/salem/coop-finder/internal/models"
)

// Store wraps the connection pool together with the fixed catalog the
// application was started with. The catalog drives location parsing for
// facet counts and the category bootstrap.
type Store struct {
	pool    *pgxpool.Pool
	catalog *catalog.Catalog
}

func NewStore(pool *pgxpool.Pool, cat *catalog.Catalog) *Store {
	return &Store{pool: pool, catalog: cat}
}

// Catalog returns the catalog the store was initialized with.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Ping reports database liveness.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ListParams selects a filtered window of the opportunity catalog.
// Categories must be deduplicated and sorted by the caller (the canonical
// selection); Region/City must already be validated catalog values.
type ListParams struct {
	Categories []int
	Region     string
	City       string
	Status     string // "open", "closed", or "" for all
	Limit      int
	Offset     int
}

type ListResult struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
	Limit         int                  `json:"limit"`
	Offset        int                  `json:"offset"`
}

const selectCols = `id, title, company, description, location, deadline, status, category_id,
	(SELECT name FROM opp_categories c WHERE c.id = category_id) AS category_name,
	avg_rating, source_link, last_checked_at, created_at, updated_at`

func scanOpportunity(scan func(dest ...interface{}) error) (models.Opportunity, error) {
	var o models.Opportunity
	var location, categoryName, sourceLink *string

	err := scan(
		&o.ID, &o.Title, &o.Company, &o.Description, &location, &o.Deadline, &o.Status, &o.CategoryID,
		&categoryName,
		&o.AvgRating, &sourceLink, &o.LastCheckedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	if location != nil {
		o.Location = *location
	}
	if categoryName != nil {
		o.CategoryName = *categoryName
	}
	if sourceLink != nil {
		o.SourceLink = *sourceLink
	}

	return o, nil
}

// facet names understood by buildListWhereExcluding.
const (
	facetCategory = "category"
	facetLocation = "location"
)

// buildListWhereExcluding constructs the shared WHERE clause. The exclude
// parameter names the facet to omit, so each facet's counts are computed
// as if that facet were cleared while every other filter still applies.
func buildListWhereExcluding(params ListParams, exclude string) (string, []interface{}) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, params.Status)
		argIdx++
	}

	if len(params.Categories) > 0 && exclude != facetCategory {
		where += fmt.Sprintf(" AND category_id = ANY($%d)", argIdx)
		args = append(args, params.Categories)
		argIdx++
	}

	if exclude != facetLocation {
		if params.Region != "" && params.City != "" {
			// Stored values may carry a single space after the comma.
			where += fmt.Sprintf(" AND (LOWER(location) = LOWER($%d) OR LOWER(location) = LOWER($%d))", argIdx, argIdx+1)
			args = append(args, params.Region+","+params.City, params.Region+", "+params.City)
			argIdx += 2
		} else if params.Region != "" {
			where += fmt.Sprintf(" AND location LIKE $%d", argIdx)
			args = append(args, params.Region+",%")
			argIdx++
		}
	}

	return where, args
}

func (s *Store) ListOpportunities(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	where, args := buildListWhereExcluding(params, "")

	var total int
	countSQL := "SELECT COUNT(*) FROM opportunities " + where
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}

	// Newest first, ties broken by descending id so pages never shift
	// while a reader walks them.
	selectSQL := fmt.Sprintf(
		"SELECT %s FROM opportunities %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		selectCols, where, len(args)+1, len(args)+2,
	)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		opps = append(opps, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if opps == nil {
		opps = []models.Opportunity{}
	}

	return &ListResult{
		Opportunities: opps,
		Total:         total,
		Limit:         params.Limit,
		Offset:        params.Offset,
	}, nil
}

func (s *Store) GetOpportunity(ctx context.Context, id string) (*models.Opportunity, error) {
	sql := fmt.Sprintf("SELECT %s FROM opportunities WHERE id = $1", selectCols)
	row := s.pool.QueryRow(ctx, sql, id)

	o, err := scanOpportunity(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return &o, nil
}

func (s *Store) GetOpportunityBySourceLink(ctx context.Context, link string) (*models.Opportunity, error) {
	sql := fmt.Sprintf("SELECT %s FROM opportunities WHERE source_link = $1", selectCols)
	row := s.pool.QueryRow(ctx, sql, link)

	o, err := scanOpportunity(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get opportunity by source link: %w", err)
	}
	return &o, nil
}

func (s *Store) FindOpportunityByCompanyTitle(ctx context.Context, company, title string) (*models.Opportunity, error) {
	sql := fmt.Sprintf(
		"SELECT %s FROM opportunities WHERE LOWER(company) = LOWER($1) AND LOWER(title) = LOWER($2) ORDER BY created_at DESC LIMIT 1",
		selectCols,
	)
	row := s.pool.QueryRow(ctx, sql, company, title)

	o, err := scanOpportunity(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find opportunity: %w", err)
	}
	return &o, nil
}

func (s *Store) CreateOpportunity(ctx context.Context, o *models.Opportunity) error {
	if o.Status == "" {
		o.Status = models.StatusOpen
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO opportunities (title, company, description, location, deadline, status, category_id, source_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, o.Title, o.Company, o.Description, textNull(o.Location), o.Deadline, o.Status, o.CategoryID, textNull(o.SourceLink),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create opportunity: %w", err)
	}
	return nil
}

func (s *Store) UpdateOpportunity(ctx context.Context, o *models.Opportunity) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE opportunities
		SET title = $2, company = $3, description = $4, location = $5, deadline = $6,
		    status = $7, category_id = $8, source_link = $9, updated_at = NOW()
		WHERE id = $1
	`, o.ID, o.Title, o.Company, o.Description, textNull(o.Location), o.Deadline, o.Status, o.CategoryID, textNull(o.SourceLink))
	if err != nil {
		return fmt.Errorf("update opportunity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkOpportunityClosed(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE opportunities SET status = 'closed', updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("mark closed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureCategories inserts any catalog categories that are missing. Names
// already present keep their ids, so category ids remain stable across
// restarts.
func (s *Store) EnsureCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := s.pool.Exec(ctx,
			"INSERT INTO opp_categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
			return fmt.Errorf("ensure category %q: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Categories(ctx context.Context) ([]models.OppCategory, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name FROM opp_categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []models.OppCategory
	for rows.Next() {
		var c models.OppCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) CategoryIDByName(ctx context.Context, name string) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx, "SELECT id FROM opp_categories WHERE LOWER(name) = LOWER($1)", name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("category id by name: %w", err)
	}
	return id, nil
}

// CompanyRank is one leaderboard row: a company with at least one rated
// opportunity.
type CompanyRank struct {
	Company     string  `json:"company"`
	RatedCount  int     `json:"rated_count"`
	AvgRating   float64 `json:"avg_rating"`
	OpenListing int     `json:"open_listings"`
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]CompanyRank, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT company,
		       COUNT(*) FILTER (WHERE avg_rating IS NOT NULL) AS rated,
		       ROUND(AVG(avg_rating)::numeric, 2) AS avg,
		       COUNT(*) FILTER (WHERE status = 'open') AS open_listings
		FROM opportunities
		GROUP BY company
		HAVING COUNT(*) FILTER (WHERE avg_rating IS NOT NULL) > 0
		ORDER BY avg DESC, rated DESC, company ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var ranks []CompanyRank
	for rows.Next() {
		var r CompanyRank
		if err := rows.Scan(&r.Company, &r.RatedCount, &r.AvgRating, &r.OpenListing); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		ranks = append(ranks, r)
	}
	return ranks, rows.Err()
}

func textNull(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
