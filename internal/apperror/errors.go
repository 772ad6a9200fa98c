// internal/apperror/errors.go
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the JSON error envelope.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInternal          = "INTERNAL_ERROR"
)

// FieldError describes one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field   string
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing entity, e.g. "Manufacturer with id 9999 not found".
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness or reference violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InsufficientStockError is returned when a subtraction would drive quantity below zero.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available, %d requested", e.Available, e.Requested)
}

// InternalError wraps an unexpected store or infrastructure failure.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Constructors

func Validation(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

func Validationf(field, format string, args ...interface{}) error {
	return Validation(field, fmt.Sprintf(format, args...))
}

func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(available, requested int) error {
	return &InsufficientStockError{Available: available, Requested: requested}
}

func Internal(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}

// Status maps an error onto its HTTP status code and envelope code.
func Status(err error) (int, string) {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		stockErr      *InsufficientStockError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, CodeValidation
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, CodeNotFound
	case errors.As(err, &conflictErr):
		return http.StatusBadRequest, CodeConflict
	case errors.As(err, &stockErr):
		return http.StatusBadRequest, CodeInsufficientStock
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
