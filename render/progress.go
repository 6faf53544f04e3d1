package render

import (
	"fmt"
	"sync"

	"github.com/cameronsaddress/SnapChef-sub002/memguard"
)

// Phase identifies a stage of the render pipeline. Phases advance in
// declaration order and never regress.
type Phase int

const (
	PhasePlanning Phase = iota
	PhasePreparingAssets
	PhaseRenderingFrames
	PhaseCompositing
	PhaseAddingOverlays
	PhaseEncoding
	PhaseFinalizing
	PhaseComplete
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlanning:
		return "planning"
	case PhasePreparingAssets:
		return "preparing assets"
	case PhaseRenderingFrames:
		return "rendering frames"
	case PhaseCompositing:
		return "compositing"
	case PhaseAddingOverlays:
		return "adding overlays"
	case PhaseEncoding:
		return "encoding"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Progress is one progress report delivered to the UI callback.
type Progress struct {
	Phase    Phase
	Fraction float64 // 0..1 within the phase
	Memory   *memguard.Snapshot
}

// ProgressFunc consumes progress reports. May be nil.
type ProgressFunc func(Progress)

// Reporter serializes progress reports and enforces the ordering
// contract: the phase never moves backwards, and within a phase the
// fraction is monotonically non-decreasing. Violating reports are
// clamped, not dropped, so callers always see forward motion.
type Reporter struct {
	mu       sync.Mutex
	fn       ProgressFunc
	phase    Phase
	fraction float64
	started  bool
}

// NewReporter wraps a progress callback. A nil callback produces a
// reporter that swallows reports.
func NewReporter(fn ProgressFunc) *Reporter {
	return &Reporter{fn: fn}
}

// Report delivers a progress update, clamping any regression.
func (r *Reporter) Report(phase Phase, fraction float64, mem *memguard.Snapshot) {
	r.mu.Lock()

	if r.started && phase < r.phase {
		phase = r.phase
	}
	if phase != r.phase || !r.started {
		r.phase = phase
		r.fraction = 0
		r.started = true
	}
	if fraction < r.fraction {
		fraction = r.fraction
	}
	if fraction > 1 {
		fraction = 1
	}
	r.fraction = fraction

	fn := r.fn
	report := Progress{Phase: r.phase, Fraction: r.fraction, Memory: mem}
	r.mu.Unlock()

	if fn != nil {
		fn(report)
	}
}
