package validate

import "errors"

// Export and validation error kinds. The retry eligibility table
// branches on these with errors.Is(), so they are deliberately specific
// rather than wrapped into a generic failure.

var (
	// ErrExportSessionUncreatable indicates the output container could
	// not be opened for writing. Never retryable.
	ErrExportSessionUncreatable = errors.New("cannot create export session")

	// ErrExportFailed indicates the export produced no readable output.
	ErrExportFailed = errors.New("export failed")

	// ErrExportCancelled indicates the export was cancelled by the
	// caller. Never retryable.
	ErrExportCancelled = errors.New("export cancelled")

	// ErrRenderTimeExceeded indicates the render overran its wall-clock
	// budget. Retryable exactly once.
	ErrRenderTimeExceeded = errors.New("render time exceeded")

	// ErrDurationInvalid indicates a non-positive or over-ceiling
	// output duration.
	ErrDurationInvalid = errors.New("output duration invalid")

	// ErrFileSizeExceeded indicates the output file is over the hard
	// size ceiling.
	ErrFileSizeExceeded = errors.New("output file size exceeded")

	// ErrNoVideoTrack indicates the container holds no video stream.
	// Never retryable.
	ErrNoVideoTrack = errors.New("no video track in output")

	// ErrFrameRateMismatch indicates the container's nominal frame rate
	// differs from the configured rate beyond tolerance.
	ErrFrameRateMismatch = errors.New("output frame rate mismatch")
)
