package upload

import (
	"errors"
	"fmt"
)

// Authentication and authorization errors.
var (
	// ErrNoValidToken indicates no usable access token is cached and
	// the caller must re-authenticate.
	ErrNoValidToken = errors.New("no valid access token")

	// ErrUnauthorized is the platform's 401 response. Receiving it
	// also clears the cached token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is the platform's 403 response.
	ErrForbidden = errors.New("forbidden")

	// ErrPermissionDenied indicates the account lacks publish rights.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPlatformNotInstalled indicates the target platform is
	// unavailable for inbox delivery.
	ErrPlatformNotInstalled = errors.New("platform not installed")
)

// Transfer errors.
var (
	// ErrRateLimited is the platform's 429 response.
	ErrRateLimited = errors.New("rate limited")

	// ErrFileUnreadable indicates the local file could not be opened
	// or read.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrFileTooLarge indicates the file exceeds the platform's 4GB
	// ceiling; detected before any network call.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidUploadURL indicates the init call returned an
	// unusable destination.
	ErrInvalidUploadURL = errors.New("invalid upload URL")

	// ErrChunkUploadFailed indicates a chunk PUT failed; the whole
	// upload aborts.
	ErrChunkUploadFailed = errors.New("chunk upload failed")

	// ErrDecodeFailed indicates a platform response body could not be
	// decoded.
	ErrDecodeFailed = errors.New("response decode failed")

	// ErrPublishFailed is the terminal FAILED status from polling.
	ErrPublishFailed = errors.New("publish failed")
)

// ServerError is a 5xx platform response, carrying the status code for
// diagnostics.
type ServerError struct {
	Status int
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: HTTP %d", e.Status)
}

// StatusError is a non-2xx platform response outside the statuses with
// dedicated kinds (401/403/429/5xx), carrying the status code for
// diagnostics.
type StatusError struct {
	Status int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: HTTP %d", e.Status)
}

// statusError maps a non-2xx HTTP status to the package's error kinds.
func statusError(status int) error {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 403:
		return ErrForbidden
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return &ServerError{Status: status}
	default:
		return &StatusError{Status: status}
	}
}
