// Package apperror provides structured error handling for the bookkeeping core.
// All rejected operations surface an AppError; there is no fatal error class.
package apperror

import (
	"errors"
	"fmt"
)

// Error codes for rejected operations
const (
	// Validation errors (caller contract violations)
	CodeValidation = "VALIDATION_ERROR"

	// Referenced entity id does not exist
	CodeNotFound = "NOT_FOUND"

	// Operation not valid for the current state machine state
	// (e.g. processing a non-pending transfer)
	CodeInvalidState = "INVALID_STATE"

	// Non-positive or out-of-bounds monetary/quantity value
	CodeInvalidAmount = "INVALID_AMOUNT"

	// Actor's role lacks the operation or business access
	CodeForbidden = "FORBIDDEN"

	// Storage collaborator failure
	CodeStorage = "STORAGE_ERROR"
)

// AppError is the standard error type for the core.
// It implements the error interface and provides structured details for display.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field names, bounds, ids)
	Details map[string]any `json:"details,omitempty"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewNotFound creates a not found error for a referenced entity.
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", entity),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

// NewInvalidState creates an error for an operation that is not valid in the
// entity's current state.
func NewInvalidState(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidState,
		Message: message,
	}
}

// NewInvalidAmount creates an error for a non-positive or out-of-bounds amount.
func NewInvalidAmount(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidAmount,
		Message: message,
	}
}

// NewForbidden creates an authorization error.
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewStorage creates an error for a failed persistence write.
func NewStorage(err error) *AppError {
	return &AppError{
		Code:    CodeStorage,
		Message: "storage write failed",
		Err:     err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsInvalidState checks if error is CodeInvalidState
func IsInvalidState(err error) bool { return hasCode(err, CodeInvalidState) }

// IsInvalidAmount checks if error is CodeInvalidAmount
func IsInvalidAmount(err error) bool { return hasCode(err, CodeInvalidAmount) }

// IsForbidden checks if error is CodeForbidden
func IsForbidden(err error) bool { return hasCode(err, CodeForbidden) }
