package retry

import (
	"context"
	"errors"

	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/memguard"
	"github.com/cameronsaddress/SnapChef-sub002/recipe"
	"github.com/cameronsaddress/SnapChef-sub002/render"
	"github.com/cameronsaddress/SnapChef-sub002/upload"
	"github.com/cameronsaddress/SnapChef-sub002/validate"
)

// Eligibility is the retry verdict for one error kind.
type Eligibility struct {
	// Retryable is false for errors where a second attempt can never
	// succeed (bad configuration, missing permissions, cancellation).
	Retryable bool
	// MaxRetries caps retries for this kind specifically; -1 defers to
	// the coordinator's global attempt cap.
	MaxRetries int
}

// Classify maps an error to its retry eligibility. The table is part of
// the recovery contract:
//
//	memory-limit-exceeded        → at most 2 retries
//	cancellation                 → never
//	invalid config / assets      → never
//	render-time-exceeded         → at most 1 retry
//	export session / track / fps → never
//	auth / permission / platform → never
//	everything else              → retryable up to the global cap
func Classify(err error) Eligibility {
	switch {
	case errors.Is(err, memguard.ErrMemoryLimitExceeded):
		return Eligibility{Retryable: true, MaxRetries: 2}

	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, validate.ErrExportCancelled):
		return Eligibility{Retryable: false}

	case errors.Is(err, render.ErrInvalidConfiguration),
		errors.Is(err, recipe.ErrMissingAssets):
		return Eligibility{Retryable: false}

	case errors.Is(err, validate.ErrRenderTimeExceeded):
		return Eligibility{Retryable: true, MaxRetries: 1}

	case errors.Is(err, validate.ErrExportSessionUncreatable),
		errors.Is(err, validate.ErrNoVideoTrack),
		errors.Is(err, frame.ErrInvalidFrameRate):
		return Eligibility{Retryable: false}

	case errors.Is(err, upload.ErrPermissionDenied),
		errors.Is(err, upload.ErrPlatformNotInstalled),
		errors.Is(err, upload.ErrUnauthorized),
		errors.Is(err, upload.ErrForbidden),
		errors.Is(err, upload.ErrNoValidToken),
		errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, upload.ErrInvalidUploadURL),
		errors.Is(err, upload.ErrPublishFailed):
		return Eligibility{Retryable: false}

	default:
		return Eligibility{Retryable: true, MaxRetries: -1}
	}
}
