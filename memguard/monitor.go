package memguard

import (
	"errors"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrMemoryLimitExceeded indicates memory pressure persisted even after
// a forced cleanup pass. Retryable at most twice by the retry policy.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// DefaultSafetyThreshold is the heap usage above which the encoder
// pauses to clean up before producing more frames. Sized for a mobile-
// class memory envelope: well below typical jetsam limits while leaving
// room for the muxer's own buffering.
const DefaultSafetyThreshold = 500 * 1024 * 1024 // 500MB

// Snapshot is a point-in-time view of process memory usage, embedded in
// progress reports for diagnostics.
type Snapshot struct {
	HeapAlloc  uint64 // bytes of allocated heap objects
	HeapSys    uint64 // bytes of heap obtained from the OS
	NumGC      uint32 // completed GC cycles
	Goroutines int
}

// Monitor tracks process memory usage against a safety threshold and
// coordinates cache eviction under pressure.
type Monitor struct {
	threshold uint64

	mu       sync.Mutex
	cleanups []func()

	// readMemStats is swappable for deterministic tests.
	readMemStats func(*runtime.MemStats)
}

// NewMonitor creates a memory monitor with the given safety threshold
// in bytes. A threshold of 0 selects DefaultSafetyThreshold.
func NewMonitor(threshold uint64) *Monitor {
	if threshold == 0 {
		threshold = DefaultSafetyThreshold
	}

	logrus.WithFields(logrus.Fields{
		"function":        "NewMonitor",
		"threshold_bytes": threshold,
	}).Debug("Creating memory monitor")

	return &Monitor{
		threshold:    threshold,
		readMemStats: runtime.ReadMemStats,
	}
}

// Usage returns a snapshot of current process memory usage.
func (m *Monitor) Usage() Snapshot {
	var stats runtime.MemStats
	m.readMemStats(&stats)

	return Snapshot{
		HeapAlloc:  stats.HeapAlloc,
		HeapSys:    stats.HeapSys,
		NumGC:      stats.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}

// IsSafe reports whether current heap usage is below the safety
// threshold. Read-mostly; safe to call every frame.
func (m *Monitor) IsSafe() bool {
	return m.Usage().HeapAlloc < m.threshold
}

// Threshold returns the configured safety threshold in bytes.
func (m *Monitor) Threshold() uint64 {
	return m.threshold
}

// RegisterCleanup adds a cache-eviction function run during
// ForceCleanup. Functions must be safe to call at any time and must
// only drop regenerable caches.
func (m *Monitor) RegisterCleanup(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups = append(m.cleanups, fn)
}

// ForceCleanup evicts registered caches, runs a GC cycle, and returns
// freed pages to the OS. This is a back-pressure valve, not a hard
// stop: it reports the post-cleanup safety state so the caller can
// decide whether to continue.
func (m *Monitor) ForceCleanup() bool {
	before := m.Usage()

	m.mu.Lock()
	cleanups := make([]func(), len(m.cleanups))
	copy(cleanups, m.cleanups)
	m.mu.Unlock()

	for _, fn := range cleanups {
		fn()
	}

	runtime.GC()
	debug.FreeOSMemory()

	after := m.Usage()
	safe := after.HeapAlloc < m.threshold

	logrus.WithFields(logrus.Fields{
		"function":     "ForceCleanup",
		"before_bytes": before.HeapAlloc,
		"after_bytes":  after.HeapAlloc,
		"freed_bytes":  int64(before.HeapAlloc) - int64(after.HeapAlloc),
		"safe":         safe,
	}).Info("Forced memory cleanup pass")

	return safe
}
