package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/salem/coop-finder/internal/models"
)

// InsertVersion appends a content snapshot for an opportunity.
func (s *Store) InsertVersion(ctx context.Context, v *models.OpportunityVersion) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO opportunity_versions (opportunity_id, source_link, description_text, content_hash, changed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, fetched_at
	`, v.OpportunityID, v.SourceLink, v.DescriptionText, v.ContentHash, v.Changed,
	).Scan(&v.ID, &v.FetchedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

// LatestVersionHash returns the content hash of the newest snapshot, or
// ("", nil) when the opportunity has no snapshots yet.
func (s *Store) LatestVersionHash(ctx context.Context, opportunityID uuid.UUID) (string, error) {
	var hash string
	err := s.pool.QueryRow(ctx, `
		SELECT content_hash FROM opportunity_versions
		WHERE opportunity_id = $1
		ORDER BY fetched_at DESC
		LIMIT 1
	`, opportunityID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest version hash: %w", err)
	}
	return hash, nil
}

func (s *Store) ListVersions(ctx context.Context, opportunityID uuid.UUID) ([]models.OpportunityVersion, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, opportunity_id, source_link, description_text, content_hash, changed, fetched_at
		FROM opportunity_versions
		WHERE opportunity_id = $1
		ORDER BY fetched_at DESC
	`, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.OpportunityVersion
	for rows.Next() {
		var v models.OpportunityVersion
		if err := rows.Scan(&v.ID, &v.OpportunityID, &v.SourceLink, &v.DescriptionText, &v.ContentHash, &v.Changed, &v.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// TouchLastChecked stamps the time of the latest source check.
func (s *Store) TouchLastChecked(ctx context.Context, opportunityID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE opportunities SET last_checked_at = NOW() WHERE id = $1", opportunityID)
	if err != nil {
		return fmt.Errorf("touch last checked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// OpportunitiesWithSourceLinks returns listings that carry a source link,
// oldest check first so the checker rotates through them.
func (s *Store) OpportunitiesWithSourceLinks(ctx context.Context, limit int) ([]models.Opportunity, error) {
	if limit <= 0 {
		limit = 100
	}
	sql := fmt.Sprintf(`
		SELECT %s FROM opportunities
		WHERE source_link IS NOT NULL AND source_link <> ''
		ORDER BY last_checked_at ASC NULLS FIRST
		LIMIT $1
	`, selectCols)

	rows, err := s.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("opportunities with source links: %w", err)
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}
