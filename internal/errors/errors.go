package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCardNotFound is returned when a card is not found.
	ErrCardNotFound = errors.New("card not found")
	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCard is the sentinel all card validation failures wrap.
	ErrInvalidCard = errors.New("invalid card")
)

// ValidationError reports which validation rule a card failed. It wraps
// ErrInvalidCard so callers can match the class with errors.Is and still read
// the violated rule.
type ValidationError struct {
	Field string // field the rule applies to
	Rule  string // short machine-readable rule name, e.g. "required", "format"
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid card: %s %s: %s", e.Field, e.Rule, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidCard
}

// NewValidationError creates a validation error for a single failed rule.
func NewValidationError(field, rule, msg string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Msg: msg}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrCardNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CARD_NOT_FOUND")
	case errors.Is(err, ErrAccountNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ACCOUNT_NOT_FOUND")
	case errors.Is(err, ErrInvalidCard):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
