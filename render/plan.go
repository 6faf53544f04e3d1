package render

import (
	"image"
	"time"

	"github.com/cameronsaddress/SnapChef-sub002/filter"
	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/overlay"
)

// TimeRange is a half-open slot on the output timeline.
type TimeRange struct {
	Start    time.Duration
	Duration time.Duration
}

// End returns the exclusive end of the range.
func (r TimeRange) End() time.Duration {
	return r.Start + r.Duration
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Duration) bool {
	return t >= r.Start && t < r.End()
}

// TrackItem schedules one media source on the timeline. Still images
// carry the source directly; clip items reference a URL resolved by the
// asset-preparation phase.
type TrackItem struct {
	Source    image.Image
	ClipURL   string
	Range     TimeRange
	Transform frame.Transform
	Filters   []filter.Spec
}

// Overlay schedules one overlay on the timeline. The layer itself is
// built lazily, parameterized by the render config, so a plan can be
// re-rendered under a fallback config without re-planning.
type Overlay struct {
	Start    time.Duration
	Duration time.Duration
	Build    func(cfg Config) overlay.Layer
}

// Plan is the fully resolved render schedule: built once per render,
// immutable, consumed by the encoder.
type Plan struct {
	Items    []TrackItem
	Overlays []Overlay
	AudioURL string
	Duration time.Duration
}

// SegmentDurations returns the per-item durations in timeline order,
// the shape the frame sequencer consumes.
func (p *Plan) SegmentDurations() []time.Duration {
	out := make([]time.Duration, len(p.Items))
	for i, item := range p.Items {
		out[i] = item.Range.Duration
	}
	return out
}
