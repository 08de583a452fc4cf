package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrSheetNotConfigured indicates the requested sheet key has no entry in config.
	ErrSheetNotConfigured = errors.New("sheet not configured")

	// ErrSourceUnavailable indicates the spreadsheet source is not configured.
	ErrSourceUnavailable = errors.New("spreadsheet source unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Authentication Errors.

	// ErrAuthRequired indicates a write was attempted without an identity.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the bearer token could not be verified.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrAuthExpired indicates the bearer token has expired.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrForbidden indicates the spreadsheet rejected the credentials' permissions.
	ErrForbidden = errors.New("forbidden")
)
