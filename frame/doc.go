// Package frame turns a render timeline into per-frame pixel buffers.
//
// Two concerns live here. The Sequencer maps a total duration and frame
// rate to a deterministic frame count and, for multi-image sequences,
// decides per frame which source segments are active and how strongly
// the upcoming segment blends in (the crossfade weight, on a sine ease).
// The Factory fills BGRA pixel buffers from still images, scaling with
// interpolation and applying the per-frame Ken Burns transform.
//
// Buffer ownership is the sharp edge of this package. The Factory keeps
// a shared pool for single-shot conversions where the consumer finishes
// with the buffer immediately. Batch pre-rendering for an asynchronous
// muxer MUST NOT use the pool: a pooled buffer reused while a previous
// submission is still queued in the writer produces corrupted output.
// FromImage and Blend therefore always return distinct allocations;
// only Convert draws from the pool, and every Convert needs a matching
// Release.
package frame
