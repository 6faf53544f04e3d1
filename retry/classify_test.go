package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/memguard"
	"github.com/cameronsaddress/SnapChef-sub002/recipe"
	"github.com/cameronsaddress/SnapChef-sub002/render"
	"github.com/cameronsaddress/SnapChef-sub002/upload"
	"github.com/cameronsaddress/SnapChef-sub002/validate"
)

func TestClassifyNeverRetryable(t *testing.T) {
	never := []error{
		context.Canceled,
		context.DeadlineExceeded,
		validate.ErrExportCancelled,
		render.ErrInvalidConfiguration,
		recipe.ErrMissingAssets,
		validate.ErrExportSessionUncreatable,
		validate.ErrNoVideoTrack,
		frame.ErrInvalidFrameRate,
		upload.ErrPermissionDenied,
		upload.ErrPlatformNotInstalled,
		upload.ErrUnauthorized,
		upload.ErrNoValidToken,
		upload.ErrFileTooLarge,
		upload.ErrInvalidUploadURL,
		upload.ErrPublishFailed,
	}
	for _, err := range never {
		if Classify(err).Retryable {
			t.Errorf("%v should never be retryable", err)
		}
	}
}

func TestClassifyKindLimits(t *testing.T) {
	if got := Classify(memguard.ErrMemoryLimitExceeded); !got.Retryable || got.MaxRetries != 2 {
		t.Errorf("Memory pressure eligibility = %+v, want 2 retries", got)
	}
	if got := Classify(validate.ErrRenderTimeExceeded); !got.Retryable || got.MaxRetries != 1 {
		t.Errorf("Render-time eligibility = %+v, want 1 retry", got)
	}
}

func TestClassifyWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("pre-rendering frame 30: %w", memguard.ErrMemoryLimitExceeded)
	if got := Classify(wrapped); got.MaxRetries != 2 {
		t.Errorf("Wrapped sentinel lost its classification: %+v", got)
	}
}

func TestClassifyDefaultRetryable(t *testing.T) {
	defaults := []error{
		errors.New("connection reset by peer"),
		upload.ErrRateLimited,
		&upload.ServerError{Status: 503},
		upload.ErrChunkUploadFailed,
	}
	for _, err := range defaults {
		got := Classify(err)
		if !got.Retryable || got.MaxRetries != -1 {
			t.Errorf("%v eligibility = %+v, want default retryable", err, got)
		}
	}
}
