package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isViolation reports whether err is a Postgres error with the given code,
// optionally restricted to one constraint.
func isViolation(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func isUniqueViolation(err error, constraint string) bool {
	return isViolation(err, pgUniqueViolation, constraint)
}

func isForeignKeyViolation(err error, constraint string) bool {
	return isViolation(err, pgForeignKeyViolation, constraint)
}
