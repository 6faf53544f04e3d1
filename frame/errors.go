package frame

import "errors"

// Sentinel errors for frame production. Grouped here so the retry
// policy can classify them with errors.Is().

var (
	// ErrImageDecodeFailed indicates a source image was nil or not
	// decodable into pixels.
	ErrImageDecodeFailed = errors.New("image decode failed")

	// ErrBufferAllocFailed indicates a pixel buffer could not be
	// produced at the requested dimensions.
	ErrBufferAllocFailed = errors.New("pixel buffer allocation failed")

	// ErrInvalidFrameRate indicates a non-positive frames-per-second
	// value. Never retryable.
	ErrInvalidFrameRate = errors.New("invalid frame rate")

	// ErrInvalidTimeline indicates an empty or non-positive-duration
	// segment list.
	ErrInvalidTimeline = errors.New("invalid segment timeline")

	// ErrBufferMismatch indicates two buffers with different geometry
	// were blended.
	ErrBufferMismatch = errors.New("pixel buffer geometry mismatch")
)
