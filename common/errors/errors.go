package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types for the application
var (
	// ErrNotFound is returned when a resource is not found, or when the
	// caller lacks the scope to see it (scope denials are reported as
	// not-found so resource existence never leaks)
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a write would duplicate an existing link
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned when validation fails
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized is returned when authentication or a coarse role gate fails
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadRequest is returned when the request is malformed
	ErrBadRequest = errors.New("bad request")

	// ErrInternal is returned for internal server errors
	ErrInternal = errors.New("internal server error")
)

// Domain-specific errors
var (
	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrPhaseNotFound is returned when a project phase is not found
	ErrPhaseNotFound = errors.New("project phase not found")

	// ErrTeamNotFound is returned when a team is not found or not owned by the actor
	ErrTeamNotFound = errors.New("team not found")

	// ErrAlreadyAssigned is returned when an employee is already on a phase
	ErrAlreadyAssigned = errors.New("employee already assigned to this phase")

	// ErrRoleNotAssignable is returned on a role-assignment matrix violation
	ErrRoleNotAssignable = errors.New("actor role may not assign this role")
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(err error, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context, preserving the original
func Wrap(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    fmt.Sprintf("%s: %v", message, err),
		StatusCode: http.StatusInternalServerError,
	}
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// ValidationError creates a validation error with field details
func ValidationError(message string, fields map[string]string) *AppError {
	details := make(map[string]interface{})
	for k, v := range fields {
		details[k] = v
	}
	return &AppError{
		Err:        ErrValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// Internal creates an internal server error
func Internal(message string) *AppError {
	if message == "" {
		message = "internal server error"
	}
	return &AppError{
		Err:        ErrInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrPhaseNotFound) ||
		errors.Is(err, ErrTeamNotFound)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrAlreadyAssigned)
}

// As is a convenience re-export of errors.As
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is a convenience re-export of errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// HTTPStatusCode returns the appropriate HTTP status code for an error
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation), errors.Is(err, ErrRoleNotAssignable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
