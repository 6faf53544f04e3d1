// Package encode turns sequenced pixel buffers into a finished video
// file.
//
// The encoder works in two phases. Pre-rendering materializes every
// frame of the timeline as a distinct buffer, checking memory pressure
// every 30 frames and forcing cleanup when the monitor reports an
// unsafe heap. Writing then runs on a background goroutine that pulls
// frames in presentation order, compresses each one, and hands it to
// the muxer.
//
// Completion is resolved exactly once through an explicit state
// machine: whichever outcome arrives first — the writer finishing, the
// writer failing, or the context being cancelled — wins, and every
// later signal is ignored. This guards against the failure mode where
// a cancellation lands while the writer is concurrently finalizing.
package encode
