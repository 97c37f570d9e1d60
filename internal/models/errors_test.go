package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestAppErrorHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      *AppError
		expected int
	}{
		{NewUnauthorizedError("x"), fiber.StatusUnauthorized},
		{NewForbiddenError("x"), fiber.StatusForbidden},
		{NewNotFoundError("post"), fiber.StatusNotFound},
		{NewInvalidRequestError("x"), fiber.StatusBadRequest},
		{NewValidationError("x"), fiber.StatusBadRequest},
		{NewLimitExceededError("x"), fiber.StatusTooManyRequests},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.HTTPStatus())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)

	// Wrapped AppErrors stay recoverable with errors.As.
	wrapped := fmt.Errorf("creating post: %w", NewValidationError("quest_id is required"))
	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, CodeValidation, appErr.Code)
}

func TestNewNotFoundErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "post not found", NewNotFoundError("post").Message)
}
