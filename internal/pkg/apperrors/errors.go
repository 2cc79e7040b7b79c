package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUnauthorized       = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
)

// Student errors
var (
	ErrStudentNotFound          = errors.New("student not found")
	ErrStudentIDAlreadyExists   = errors.New("student ID already exists")
	ErrStudentEmailAlreadyInUse = errors.New("student email already exists")
)

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// ValidationError reports every field that failed validation, not just the
// first. Fields maps field name to a human-readable reason.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a failing field. Returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = message
	return e
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error implements error interface
func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error()
}

// Unwrap makes errors.Is(err, ErrValidationFailed) hold for every ValidationError
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ErrOrNil returns the error when at least one field failed, nil otherwise
func (e *ValidationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
