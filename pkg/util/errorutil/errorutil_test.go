package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not found", NewNotFound("task", nil), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"conflict", NewConflict("duplicate", nil), "CONFLICT", http.StatusConflict},
		{"rate limited", NewRateLimited(), "RATE_LIMITED", http.StatusTooManyRequests},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr *DomainError
			require.True(t, errors.As(tt.err, &domainErr))
			assert.Equal(t, tt.code, domainErr.Code)
			assert.Equal(t, tt.status, domainErr.HTTPStatus)
		})
	}
}

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	original := NewConflict("duplicate email", map[string]any{"email": "a@x.com"})
	converted := ToDomainError(original)
	assert.Same(t, original, converted)
}

func TestToDomainError_WrapsFiberErrors(t *testing.T) {
	converted := ToDomainError(fiber.NewError(fiber.StatusNotFound, "Cannot GET /missing"))
	assert.Equal(t, "NOT_FOUND", converted.Code)
	assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
}

func TestToDomainError_MapsNoRowsToNotFound(t *testing.T) {
	converted := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", converted.Code)
}

func TestToDomainError_HidesInternalCauses(t *testing.T) {
	cause := errors.New("connection refused")
	converted := ToDomainError(cause)

	assert.Equal(t, "INTERNAL_ERROR", converted.Code)
	assert.Equal(t, "internal server error", converted.Message)
	// The cause stays reachable for logging but never in the message.
	assert.ErrorIs(t, converted, cause)
	assert.NotContains(t, converted.Message, "connection refused")
}

func TestToDomainError_NilStaysNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorMessageOmitsCause(t *testing.T) {
	err := NewInternalError(errors.New("secret detail"))
	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Contains(t, domainErr.Error(), "secret detail")
	assert.Equal(t, "internal server error", domainErr.Message)
}
