package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes mapped by repositories.
const (
	PgUniqueViolation     = "23505"
	PgInvalidTextRepr     = "22P02"
	PgForeignKeyViolation = "23503"
)

// PgCode returns the SQLSTATE of a postgres error, or "" for any other
// error.
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	return PgCode(err) == PgUniqueViolation
}
