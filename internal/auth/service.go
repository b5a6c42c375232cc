package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/salem/coop-finder/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid username/email or password")

	jwtSecretOnce    sync.Once
	jwtSecretRuntime []byte
	jwtSecretErr     error
)

func jwtSecretFromEnv() ([]byte, error) {
	jwtSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
		if secret != "" {
			jwtSecretRuntime = []byte(secret)
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			jwtSecretErr = fmt.Errorf("failed to generate JWT fallback secret: %w", err)
			return
		}

		jwtSecretRuntime = []byte(base64.RawURLEncoding.EncodeToString(buf))
		log.Print("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if jwtSecretErr != nil {
		return nil, jwtSecretErr
	}
	if len(jwtSecretRuntime) == 0 {
		return nil, errors.New("JWT secret unavailable")
	}

	return jwtSecretRuntime, nil
}

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Signup validates the form, then creates the credential row and the
// student profile in one transaction: if either insert fails, neither
// persists. Uniqueness failures surface as field errors; a concurrent
// duplicate that slips past the pre-checks is caught by the unique
// constraints and reported the same way.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.normalize()
	if ve := req.validate(); ve != nil {
		return nil, ve
	}

	ve := &ValidationError{}
	var exists bool
	if err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", req.Username).Scan(&exists); err != nil {
		return nil, fmt.Errorf("username check: %w", err)
	}
	if exists {
		ve.add("username", "This username is already taken.")
	}
	if err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = $1)", req.Email).Scan(&exists); err != nil {
		return nil, fmt.Errorf("email check: %w", err)
	}
	if exists {
		ve.add("email", "This email is already registered.")
	}
	if ve.orNil() != nil {
		return nil, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin signup tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var user models.User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, is_admin, created_at
	`, req.Username, req.Email, string(hash)).Scan(
		&user.ID, &user.Username, &user.Email, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	var student models.Student
	err = tx.QueryRow(ctx, `
		INSERT INTO students (user_id, full_name)
		VALUES ($1, $2)
		RETURNING id, user_id, full_name, major, phone, link, created_at
	`, user.ID, req.FullName).Scan(
		&student.ID, &student.UserID, &student.FullName, &student.Major, &student.Phone, &student.Link, &student.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert student: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit signup tx: %w", err)
	}

	token, err := generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user, Student: &student}, nil
}

// Login accepts a username or an email-shaped identifier. An identifier
// containing "@" is resolved against the email column; everything else is
// treated as a username. Every failure mode returns the same error so the
// response never reveals which part was wrong.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, ErrInvalidCreds
	}

	query := "SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE username = $1"
	if identifierIsEmail(identifier) {
		query = "SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE LOWER(email) = LOWER($1)"
	}

	var user models.User
	err := s.db.QueryRow(ctx, query, identifier).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCreds
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCreds
	}

	token, err := generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	student, _ := s.StudentByUserID(ctx, user.ID)
	return &AuthResponse{Token: token, User: user, Student: student}, nil
}

func generateToken(userID uuid.UUID) (string, error) {
	secretKey, err := jwtSecretFromEnv()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}
