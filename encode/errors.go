package encode

import "errors"

// Encoder lifecycle errors.
var (
	// ErrCannotAddInput indicates the muxer rejected the configured
	// video geometry or could not be created at the output path.
	ErrCannotAddInput = errors.New("cannot add video input")

	// ErrCannotStartWriting indicates the encoder was asked to start
	// from a state other than idle.
	ErrCannotStartWriting = errors.New("cannot start writing")

	// ErrFrameWriteFailed indicates a frame could not be compressed or
	// submitted to the muxer.
	ErrFrameWriteFailed = errors.New("frame write failed")

	// ErrFinalizeFailed indicates the muxer failed while writing the
	// container index and trailer.
	ErrFinalizeFailed = errors.New("finalize failed")

	// ErrEncodingCancelled indicates the context was cancelled before
	// the writer finished.
	ErrEncodingCancelled = errors.New("encoding cancelled")
)
