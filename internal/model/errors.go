package model

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned for lookups and admin actions on rows that do
	// not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when registering an email that already
	// has an account.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrTokenNotFound is returned when consuming an unknown or already
	// consumed reset token.
	ErrTokenNotFound = errors.New("reset token not found")
	// ErrTokenExpired is returned when consuming a token past its window.
	ErrTokenExpired = errors.New("reset token expired")
	// ErrNotAuthorized is returned when the acting caller lacks the admin
	// capability required for a lifecycle operation.
	ErrNotAuthorized = errors.New("caller is not authorized")
	// ErrInvalidCredentials is returned on login for an unknown email or a
	// wrong password, without distinguishing the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountNotActive is returned on login for pending or blocked
	// accounts.
	ErrAccountNotActive = errors.New("account is not active")
)

// ValidationError carries every violated registration rule in the order the
// rules are declared, so the caller can re-present all of them at once.
type ValidationError struct {
	Causes []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Causes, "; ")
}

// Add appends a failure cause and returns the receiver for chaining.
func (e *ValidationError) Add(cause string) *ValidationError {
	e.Causes = append(e.Causes, cause)
	return e
}

// HasCauses reports whether any rule was violated.
func (e *ValidationError) HasCauses() bool {
	return len(e.Causes) > 0
}
