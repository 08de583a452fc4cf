package google

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// Common Google API errors.
var (
	// ErrBadRequest indicates the API rejected the request (bad range, bad value).
	ErrBadRequest = errors.New("google: bad request")

	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("google: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("google: rate limit exceeded")
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return hasCode(err, ErrUnauthorized, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return hasCode(err, ErrForbidden, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return hasCode(err, ErrRateLimited, http.StatusTooManyRequests)
}

func hasCode(err, sentinel error, code int) bool {
	if errors.Is(err, sentinel) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

// RetryAfter returns the Retry-After header of a 429 response in seconds,
// or 0 if absent.
func RetryAfter(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || secs < 0 {
		return 0
	}
	return secs
}

// WrapError converts a Google API error into this package's sentinel and
// the matching domain error, so callers can test either with errors.Is.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	var sentinel, domainErr error
	switch gerr.Code {
	case http.StatusBadRequest:
		sentinel, domainErr = ErrBadRequest, domain.ErrInvalidInput
	case http.StatusUnauthorized:
		sentinel, domainErr = ErrUnauthorized, domain.ErrSourceUnavailable
	case http.StatusForbidden:
		sentinel, domainErr = ErrForbidden, domain.ErrForbidden
	case http.StatusNotFound:
		sentinel, domainErr = ErrNotFound, domain.ErrNotFound
	case http.StatusTooManyRequests:
		sentinel, domainErr = ErrRateLimited, domain.ErrRateLimited
	default:
		return err
	}

	if gerr.Message != "" {
		return fmt.Errorf("%w: %w: %s", sentinel, domainErr, gerr.Message)
	}
	return fmt.Errorf("%w: %w", sentinel, domainErr)
}
