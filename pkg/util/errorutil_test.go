package util

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewConflict("taken", map[string]any{"name": "x"})
	mapped := ToDomainError(original)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, 409, mapped.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, 404, mapped.HTTPStatus)
}

func TestToDomainErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_competitors_personal_number"}
	mapped := ToDomainError(pgErr)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, 409, mapped.HTTPStatus)
	assert.Equal(t, "uq_competitors_personal_number", mapped.Details["constraint"])
}

func TestToDomainErrorOpaqueFallback(t *testing.T) {
	mapped := ToDomainError(errors.New("connection refused"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, 500, mapped.HTTPStatus)
	// The raw cause stays wrapped, never in the client message.
	assert.Equal(t, "internal server error", mapped.Message)
	require.NotNil(t, mapped.Err)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := NewInternalError(cause)
	assert.ErrorIs(t, wrapped, cause)
}
