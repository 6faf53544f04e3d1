// Package memguard provides memory-pressure monitoring for the frame
// rendering pipeline.
//
// Pre-rendering every output frame into an independent buffer is memory
// hungry: a 1080x1920 BGRA frame is ~8MB, and a 15 second render at
// 30fps holds hundreds of them. The Monitor gives the encoder a cheap
// read-mostly safety check plus an explicit force-cleanup valve that
// evicts registered caches and returns freed pages to the OS.
//
// Cleanup only evicts caches registered via RegisterCleanup, never
// buffers in active use, so the encoder may call ForceCleanup from its
// frame-production loop without additional locking.
//
// The Monitor is an explicitly constructed, injectable service. There is
// no package-level singleton; each pipeline owns its own instance.
package memguard
