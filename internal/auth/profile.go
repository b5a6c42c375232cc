package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/salem/coop-finder/internal/models"
)

// ErrNoProfile is returned when a user id has no student profile row.
var ErrNoProfile = errors.New("student profile not found")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Service) UserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx,
		"SELECT id, username, email, is_admin, created_at FROM users WHERE id = $1", userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.IsAdmin, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *Service) StudentByUserID(ctx context.Context, userID uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, full_name, major, phone, link, created_at
		FROM students WHERE user_id = $1
	`, userID).Scan(
		&student.ID, &student.UserID, &student.FullName, &student.Major, &student.Phone, &student.Link, &student.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

// StudentIDForUser resolves the student row backing a credential id. Admin
// accounts without a profile get ErrNoProfile.
func (s *Service) StudentIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT id FROM students WHERE user_id = $1", userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNoProfile
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve student: %w", err)
	}
	return id, nil
}

// IsAdmin reports whether the user id belongs to an admin account.
func (s *Service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRow(ctx, "SELECT is_admin FROM users WHERE id = $1", userID).Scan(&isAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("admin check: %w", err)
	}
	return isAdmin, nil
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Major    string `json:"major"`
	Phone    string `json:"phone"`
	Link     string `json:"link"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*models.Student, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		ve := &ValidationError{}
		ve.add("full_name", "This field is required.")
		return nil, ve
	}

	var student models.Student
	err := s.db.QueryRow(ctx, `
		UPDATE students
		SET full_name = $2, major = $3, phone = $4, link = $5
		WHERE user_id = $1
		RETURNING id, user_id, full_name, major, phone, link, created_at
	`, userID, req.FullName, strings.TrimSpace(req.Major), strings.TrimSpace(req.Phone), strings.TrimSpace(req.Link)).Scan(
		&student.ID, &student.UserID, &student.FullName, &student.Major, &student.Phone, &student.Link, &student.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &student, nil
}
