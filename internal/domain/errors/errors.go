// Package errors defines the application error taxonomy. Every error a
// usecase returns maps to an HTTP status and a stable business error code.
package errors

import (
	"net/http"

	"rota/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of the error carrying detailed information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches errors by business error code so that sentinel comparison with
// errors.Is survives WithDetails copies.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)

	return ok && other.errorCode == e.errorCode
}

// Predefined error types
var (
	// Validation errors, rejected before any computation begins
	ErrInvalidCoordinate = NewBaseError(
		http.StatusBadRequest,
		"INVALID_COORDINATE",
		"Coordinate out of range",
		"",
	)
	ErrInvalidGeometry = NewBaseError(
		http.StatusBadRequest,
		"INVALID_GEOMETRY",
		"Zone geometry is invalid",
		"",
	)
	ErrInvalidTimeWindow = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TIME_WINDOW",
		"Time window is malformed",
		"",
	)
	ErrInvalidStop = NewBaseError(
		http.StatusBadRequest,
		"INVALID_STOP",
		"Stop failed validation",
		"",
	)
	ErrInvalidCapacity = NewBaseError(
		http.StatusBadRequest,
		"INVALID_CAPACITY",
		"Vehicle capacity or cargo load is invalid",
		"",
	)
	ErrInvalidEvent = NewBaseError(
		http.StatusBadRequest,
		"INVALID_EVENT",
		"Re-optimization event is missing required data",
		"",
	)

	// Re-optimization errors
	ErrUnsupportedScenario = NewBaseError(
		http.StatusUnprocessableEntity,
		"UNSUPPORTED_SCENARIO",
		"Unrecognized re-optimization scenario",
		"",
	)
	ErrEmptyTour = NewBaseError(
		http.StatusBadRequest,
		"EMPTY_TOUR",
		"Operation requires a non-empty tour",
		"",
	)
	ErrStopNotFound = NewBaseError(
		http.StatusNotFound,
		"STOP_NOT_FOUND",
		"Target stop is not part of the current tour",
		"",
	)
	ErrRouteBusy = NewBaseError(
		http.StatusConflict,
		"ROUTE_BUSY",
		"A re-optimization for this route is already in flight",
		"",
	)
)
