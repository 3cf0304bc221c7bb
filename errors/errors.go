package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidSessionID indicates that a session identifier failed the
	// charset check before any filesystem or store access
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoProvider indicates that no LLM provider credentials were found
	ErrNoProvider = errors.New("no LLM provider configured")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)
