package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an insert loses to a unique
	// constraint, e.g. a second bookmark for the same pair. Concurrent
	// duplicates race at the database and the loser gets this error.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidReference is returned when a write names a row that does
	// not exist, e.g. a submission with an unknown category id.
	ErrInvalidReference = errors.New("referenced row does not exist")
	// ErrAlreadyReviewed is returned when a decision is made on a
	// submission that has already left the pending state.
	ErrAlreadyReviewed = errors.New("submission already reviewed")
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}
