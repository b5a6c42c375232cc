package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/salem/coop-finder/internal/models"
)

const selectColsPrefixed = `o.id, o.title, o.company, o.description, o.location, o.deadline, o.status, o.category_id,
	(SELECT name FROM opp_categories c WHERE c.id = o.category_id) AS category_name,
	o.avg_rating, o.source_link, o.last_checked_at, o.created_at, o.updated_at`

// AddBookmark inserts the (student, opportunity) pair. There is no upsert:
// a duplicate, including the loser of two concurrent attempts, surfaces as
// ErrAlreadyExists.
func (s *Store) AddBookmark(ctx context.Context, studentID, opportunityID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO bookmarks (student_id, opportunity_id) VALUES ($1, $2)",
		studentID, opportunityID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("add bookmark: %w", err)
	}
	return nil
}

func (s *Store) RemoveBookmark(ctx context.Context, studentID, opportunityID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM bookmarks WHERE student_id = $1 AND opportunity_id = $2",
		studentID, opportunityID)
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListBookmarks(ctx context.Context, studentID uuid.UUID) ([]models.Bookmark, error) {
	sql := fmt.Sprintf(`
		SELECT b.created_at, %s
		FROM bookmarks b
		JOIN opportunities o ON o.id = b.opportunity_id
		WHERE b.student_id = $1
		ORDER BY b.created_at DESC
	`, selectColsPrefixed)

	rows, err := s.pool.Query(ctx, sql, studentID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []models.Bookmark
	for rows.Next() {
		bm := models.Bookmark{StudentID: studentID}
		o, err := scanOpportunity(func(dest ...interface{}) error {
			return rows.Scan(append([]interface{}{&bm.CreatedAt}, dest...)...)
		})
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bm.OpportunityID = o.ID
		bm.Opportunity = &o
		bookmarks = append(bookmarks, bm)
	}
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}
	return bookmarks, rows.Err()
}

// CreateRating stores the rating and recomputes the opportunity's average
// in the same transaction. The caller provides the derived overall score.
// Returns the opportunity's new average.
func (s *Store) CreateRating(ctx context.Context, r *models.Rating) (float64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin rating tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO ratings (student_id, opportunity_id, learning_value, work_env, mentorship, outcome, overall)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.StudentID, r.OpportunityID, r.LearningValue, r.WorkEnv, r.Mentorship, r.Outcome, r.Overall,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("create rating: %w", err)
	}

	var avg float64
	err = tx.QueryRow(ctx, `
		UPDATE opportunities o
		SET avg_rating = sub.avg, updated_at = NOW()
		FROM (
			SELECT opportunity_id, ROUND(AVG(overall)::numeric, 2) AS avg
			FROM ratings
			WHERE opportunity_id = $1
			GROUP BY opportunity_id
		) sub
		WHERE o.id = sub.opportunity_id
		RETURNING o.avg_rating
	`, r.OpportunityID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("recompute avg rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit rating tx: %w", err)
	}
	return avg, nil
}

func (s *Store) CreateReport(ctx context.Context, r *models.Report) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO reports (student_id, opportunity_id, report_type, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at
	`, r.StudentID, r.OpportunityID, r.ReportType, r.Details,
	).Scan(&r.ID, &r.Status, &r.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *Store) ListReports(ctx context.Context, status string) ([]models.Report, error) {
	sql := `
		SELECT id, student_id, opportunity_id, report_type, details, status, created_at
		FROM reports
	`
	var args []interface{}
	if status != "" {
		sql += " WHERE status = $1"
		args = append(args, status)
	}
	sql += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.StudentID, &r.OpportunityID, &r.ReportType, &r.Details, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, rows.Err()
}

func (s *Store) UpdateReportStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE reports SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
