package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgCode(t *testing.T) {
	dup := &pgconn.PgError{Code: PgUniqueViolation}

	assert.Equal(t, PgUniqueViolation, PgCode(dup))
	assert.Equal(t, PgUniqueViolation, PgCode(fmt.Errorf("wrapped: %w", dup)))
	assert.Equal(t, "", PgCode(errors.New("plain")))
	assert.Equal(t, "", PgCode(nil))

	assert.True(t, IsUniqueViolation(dup))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: PgInvalidTextRepr}))
}
