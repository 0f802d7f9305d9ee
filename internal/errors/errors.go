package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrNotFound     ErrorType = "NOT_FOUND"
	ErrRateLimit    ErrorType = "RATE_LIMIT"
	ErrUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTransient    ErrorType = "TRANSIENT"
	ErrInvalidInput ErrorType = "INVALID_INPUT"
	ErrPersistence  ErrorType = "PERSISTENCE"
	ErrInternal     ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type      ErrorType
	Message   string
	Cause     error
	Timestamp time.Time
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

func typeOf(err error) (ErrorType, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type, true
	}
	return "", false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrNotFound
}

// IsRateLimit checks if the error is a rate limit error
func IsRateLimit(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrRateLimit
}

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrUnauthorized
}

// IsTransient checks if the error is a transient network/server error
func IsTransient(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrTransient
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrInvalidInput
}

// IsPersistence checks if the error is a persistence error
func IsPersistence(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrPersistence
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return New(ErrNotFound, message, err)
}

// NewRateLimitError creates a new rate limit error
func NewRateLimitError(message string, err error) *AppError {
	return New(ErrRateLimit, message, err)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, err error) *AppError {
	return New(ErrUnauthorized, message, err)
}

// NewTransientError creates a new transient error
func NewTransientError(message string, err error) *AppError {
	return New(ErrTransient, message, err)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return New(ErrInvalidInput, message, err)
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(message string, err error) *AppError {
	return New(ErrPersistence, message, err)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return New(ErrInternal, message, err)
}

// UserMessage returns a short human-readable reason suitable for API callers.
func UserMessage(err error) string {
	switch t, _ := typeOf(err); t {
	case ErrNotFound:
		return "repository not found or private"
	case ErrRateLimit:
		return "GitHub API rate limit reached, try again later or sign in with GitHub"
	case ErrUnauthorized:
		return "GitHub credentials were rejected"
	case ErrTransient:
		return "GitHub is unreachable, try again later"
	case ErrInvalidInput:
		return "invalid repository name or URL"
	default:
		return "failed to ingest repository"
	}
}
