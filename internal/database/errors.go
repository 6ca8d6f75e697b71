package database

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a query matches no row.
	ErrNotFound = errors.New("db: not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("db: duplicate")

	// ErrInvalidColumn is returned when a sort column is not in the table's
	// whitelist.
	ErrInvalidColumn = errors.New("db: invalid column")
)

// notFound maps pgx's no-rows sentinel to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// duplicate maps unique-violation errors (SQLSTATE 23505) to ErrDuplicate.
func duplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
