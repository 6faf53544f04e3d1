package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Segment is one source image's slot on the output timeline.
type Segment struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
}

// End returns the exclusive end time of the segment.
func (s Segment) End() time.Duration {
	return s.Start + s.Duration
}

// Spec describes one output frame: its index, presentation time, the
// active source segment, and, during a crossfade window, the following
// segment with its eased blend weight.
type Spec struct {
	Index            int
	PresentationTime time.Duration
	Segment          int
	// Next is the index of the incoming segment during a crossfade,
	// -1 otherwise.
	Next int
	// Blend is the eased contribution of the Next segment in [0, 1].
	// Zero whenever Next is -1.
	Blend float64
}

// Sequencer produces the deterministic frame schedule for a render.
type Sequencer struct {
	fps       int
	crossfade time.Duration
	segments  []Segment
	total     time.Duration
}

// NewSequencer builds a frame schedule from per-segment durations. The
// crossfade duration is the window before each segment boundary during
// which the next segment blends in; it is clamped to the shorter of the
// two adjacent segments.
func NewSequencer(durations []time.Duration, fps int, crossfade time.Duration) (*Sequencer, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %d fps", ErrInvalidFrameRate, fps)
	}
	if len(durations) == 0 {
		return nil, fmt.Errorf("%w: no segments", ErrInvalidTimeline)
	}

	segments := make([]Segment, len(durations))
	var cursor time.Duration
	for i, d := range durations {
		if d <= 0 {
			return nil, fmt.Errorf("%w: segment %d has duration %v", ErrInvalidTimeline, i, d)
		}
		segments[i] = Segment{Index: i, Start: cursor, Duration: d}
		cursor += d
	}

	logrus.WithFields(logrus.Fields{
		"function":      "NewSequencer",
		"segment_count": len(segments),
		"fps":           fps,
		"total":         cursor,
		"crossfade":     crossfade,
	}).Debug("Frame sequencer created")

	return &Sequencer{
		fps:       fps,
		crossfade: crossfade,
		segments:  segments,
		total:     cursor,
	}, nil
}

// FrameCount returns the total number of output frames.
func (s *Sequencer) FrameCount() int {
	return int(math.Round(s.total.Seconds() * float64(s.fps)))
}

// Duration returns the total output duration.
func (s *Sequencer) Duration() time.Duration {
	return s.total
}

// FPS returns the configured frame rate.
func (s *Sequencer) FPS() int {
	return s.fps
}

// Segments returns the resolved segment timeline.
func (s *Sequencer) Segments() []Segment {
	return s.segments
}

// FrameAt resolves the schedule for output frame i. Presentation times
// are exactly i/fps, strictly increasing and contiguous.
func (s *Sequencer) FrameAt(i int) Spec {
	t := time.Duration(float64(i) / float64(s.fps) * float64(time.Second))

	seg := s.segmentAt(t)
	spec := Spec{
		Index:            i,
		PresentationTime: t,
		Segment:          seg.Index,
		Next:             -1,
	}

	if seg.Index+1 >= len(s.segments) {
		return spec
	}

	window := s.crossfadeWindow(seg)
	if window <= 0 || t < seg.End()-window {
		return spec
	}

	progress := float64(t-(seg.End()-window)) / float64(window)
	spec.Next = seg.Index + 1
	spec.Blend = EasedBlend(progress)
	return spec
}

// segmentAt returns the segment whose time range contains t. Times at
// or past the end of the timeline land on the final segment.
func (s *Sequencer) segmentAt(t time.Duration) Segment {
	for _, seg := range s.segments {
		if t < seg.End() {
			return seg
		}
	}
	return s.segments[len(s.segments)-1]
}

// crossfadeWindow clamps the configured crossfade to the shorter of the
// outgoing segment and the incoming one, so a short segment is never
// fully consumed by its transition.
func (s *Sequencer) crossfadeWindow(seg Segment) time.Duration {
	window := s.crossfade
	if window > seg.Duration {
		window = seg.Duration
	}
	next := s.segments[seg.Index+1]
	if window > next.Duration {
		window = next.Duration
	}
	return window
}

// EasedBlend maps linear crossfade progress in [0, 1] to a sine-eased
// alpha: sin(progress * π/2). The curve starts fast and settles gently,
// which reads more naturally than a linear ramp. Monotonically
// increasing, 0 at 0 and 1 at 1.
func EasedBlend(progress float64) float64 {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return 1
	}
	return math.Sin(progress * math.Pi / 2)
}
