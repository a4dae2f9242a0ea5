// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Ledger errors.
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	// Boundary errors: corrupt persisted records and malformed import files.
	ErrSerialization = errors.New("serialization failed")

	// Currency errors.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrConversionCancelled = errors.New("currency conversion cancelled")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the message to show for err. It prefers the message
// of a wrapped UserError and falls back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// IsNotFound reports whether err means the target record did not exist.
// Callers treat it as a no-op rather than a failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
