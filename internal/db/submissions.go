package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/salem/coop-finder/internal/models"
)

const submissionCols = `id, title, company, description, location, deadline, category_id,
	cv_link, notes, submitter_type, student_id, admin_id, status, reason, reviewed_at, reviewed_by, created_at`

func scanSubmission(scan func(dest ...interface{}) error) (models.Submission, error) {
	var sub models.Submission
	var location *string
	var submitterType string
	var studentID, adminID *uuid.UUID

	err := scan(
		&sub.ID, &sub.Title, &sub.Company, &sub.Description, &location, &sub.Deadline, &sub.CategoryID,
		&sub.CVLink, &sub.Notes, &submitterType, &studentID, &adminID, &sub.Status, &sub.Reason,
		&sub.ReviewedAt, &sub.ReviewedBy, &sub.CreatedAt,
	)
	if err != nil {
		return sub, err
	}

	if location != nil {
		sub.Location = *location
	}
	sub.Submitter.Type = models.SubmitterType(submitterType)
	switch {
	case studentID != nil:
		sub.Submitter.ID = *studentID
	case adminID != nil:
		sub.Submitter.ID = *adminID
	}
	return sub, nil
}

// CreateSubmission stores a proposed opportunity. The submitter is a tagged
// value, so a record naming both a student and an admin cannot be built; the
// table's CHECK enforces the same exclusivity below the application.
func (s *Store) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	var studentID, adminID *uuid.UUID
	switch sub.Submitter.Type {
	case models.SubmitterStudent:
		studentID = &sub.Submitter.ID
	case models.SubmitterAdmin:
		adminID = &sub.Submitter.ID
	default:
		return fmt.Errorf("submission: unknown submitter type %q", sub.Submitter.Type)
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO submissions (title, company, description, location, deadline, category_id,
			cv_link, notes, submitter_type, student_id, admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, status, created_at
	`, sub.Title, sub.Company, sub.Description, textNull(sub.Location), sub.Deadline, sub.CategoryID,
		sub.CVLink, sub.Notes, string(sub.Submitter.Type), studentID, adminID,
	).Scan(&sub.ID, &sub.Status, &sub.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *Store) GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sql := fmt.Sprintf("SELECT %s FROM submissions WHERE id = $1", submissionCols)
	sub, err := scanSubmission(s.pool.QueryRow(ctx, sql, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &sub, nil
}

func (s *Store) ListSubmissionsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Submission, error) {
	sql := fmt.Sprintf(
		"SELECT %s FROM submissions WHERE student_id = $1 ORDER BY created_at DESC", submissionCols)
	return s.querySubmissions(ctx, sql, studentID)
}

// ListSubmissions returns submissions for review, newest first. An empty
// status means all.
func (s *Store) ListSubmissions(ctx context.Context, status string) ([]models.Submission, error) {
	if status == "" {
		sql := fmt.Sprintf("SELECT %s FROM submissions ORDER BY created_at DESC", submissionCols)
		return s.querySubmissions(ctx, sql)
	}
	sql := fmt.Sprintf(
		"SELECT %s FROM submissions WHERE status = $1 ORDER BY created_at DESC", submissionCols)
	return s.querySubmissions(ctx, sql, status)
}

func (s *Store) querySubmissions(ctx context.Context, sql string, args ...interface{}) ([]models.Submission, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return subs, rows.Err()
}

// reviewerRef turns the reviewer id into a nullable reference: admin access
// through the shared secret carries no user id, stored as NULL.
func reviewerRef(reviewerID uuid.UUID) *uuid.UUID {
	if reviewerID == uuid.Nil {
		return nil
	}
	return &reviewerID
}

// ApproveSubmission turns a pending submission into a live opportunity and
// stamps the review, in one transaction. The row is locked first so two
// admins cannot both approve it.
func (s *Store) ApproveSubmission(ctx context.Context, id, reviewerID uuid.UUID) (*models.Opportunity, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin approve tx: %w", err)
	}
	defer tx.Rollback(ctx)

	lockSQL := fmt.Sprintf("SELECT %s FROM submissions WHERE id = $1 FOR UPDATE", submissionCols)
	sub, err := scanSubmission(tx.QueryRow(ctx, lockSQL, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock submission: %w", err)
	}
	if sub.Status != models.SubmissionPending {
		return nil, ErrAlreadyReviewed
	}

	var opp models.Opportunity
	err = tx.QueryRow(ctx, `
		INSERT INTO opportunities (title, company, description, location, deadline, status, category_id)
		VALUES ($1, $2, $3, $4, $5, 'open', $6)
		RETURNING id, created_at, updated_at
	`, sub.Title, sub.Company, sub.Description, textNull(sub.Location), sub.Deadline, sub.CategoryID,
	).Scan(&opp.ID, &opp.CreatedAt, &opp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create opportunity from submission: %w", err)
	}
	opp.Title = sub.Title
	opp.Company = sub.Company
	opp.Description = sub.Description
	opp.Location = sub.Location
	opp.Deadline = sub.Deadline
	opp.Status = models.StatusOpen
	opp.CategoryID = sub.CategoryID

	if _, err := tx.Exec(ctx, `
		UPDATE submissions
		SET status = 'approved', reviewed_at = NOW(), reviewed_by = $2
		WHERE id = $1
	`, id, reviewerRef(reviewerID)); err != nil {
		return nil, fmt.Errorf("mark submission approved: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit approve tx: %w", err)
	}
	return &opp, nil
}

func (s *Store) RejectSubmission(ctx context.Context, id, reviewerID uuid.UUID, reason string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE submissions
		SET status = 'rejected', reason = $3, reviewed_at = NOW(), reviewed_by = $2
		WHERE id = $1 AND status = 'pending'
	`, id, reviewerRef(reviewerID), reason)
	if err != nil {
		return fmt.Errorf("reject submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already decided; look once to say which.
		if _, getErr := s.GetSubmission(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyReviewed
	}
	return nil
}
