package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// API error codes. Handlers never invent codes; everything the client can
// observe is one of these.
const (
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeValidation     = "VALIDATION_ERROR"
	CodeLimitExceeded  = "LIMIT_EXCEEDED"
	CodeServerError    = "SERVER_ERROR"
)

// AppError is a typed application error carrying an API error code.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to its HTTP status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeInvalidRequest, CodeValidation:
		return fiber.StatusBadRequest
	case CodeLimitExceeded:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// Predefined error constructors

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

func NewInvalidRequestError(message string) *AppError {
	return &AppError{Code: CodeInvalidRequest, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewLimitExceededError(message string) *AppError {
	return &AppError{Code: CodeLimitExceeded, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeServerError, Message: "Internal server error", Err: err}
}

// errorBody is the failure half of the response envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError writes the standardized failure envelope
// {"success":false,"error":{"code","message"}}. Unknown errors are
// reported as SERVER_ERROR with an opaque message; the underlying cause
// is for the caller to log, never for the client to see.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}
	return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{
		"success": false,
		"error":   errorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

// Respond writes the success envelope, merging payload under
// {"success":true}.
func Respond(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}
