package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// notFound maps pgx.ErrNoRows to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// validID rejects ids that can never match a uuid column, so malformed
// path parameters read as "not found" instead of a driver error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
