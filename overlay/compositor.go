package overlay

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrSafeZoneViolation indicates an overlay's bounds cross into the
// configured safe-zone insets.
var ErrSafeZoneViolation = errors.New("overlay violates safe zone")

// ErrInvalidTiming indicates an overlay with a non-positive duration or
// negative start time.
var ErrInvalidTiming = errors.New("overlay has invalid timing")

// Insets are the pixel margins overlays must keep clear of, matching
// the platform's caption and action-rail chrome.
type Insets struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Timed binds a layer to its slot on the output timeline.
type Timed struct {
	Start    time.Duration
	Duration time.Duration
	Layer    Layer
}

// End returns the overlay's exclusive end time.
func (t Timed) End() time.Duration {
	return t.Start + t.Duration
}

// LocalProgress maps a presentation time to the overlay's own [0, 1]
// progress. Times outside the overlay's window clamp to the endpoints.
func (t Timed) LocalProgress(at time.Duration) float64 {
	if at <= t.Start {
		return 0
	}
	if at >= t.End() {
		return 1
	}
	return float64(at-t.Start) / float64(t.Duration)
}

// Compositor owns the overlay tree for one render and composites the
// active layers onto frames.
type Compositor struct {
	width  int
	height int
	insets Insets

	overlays []Timed
}

// NewCompositor creates a compositor for the given frame geometry and
// safe-zone insets.
func NewCompositor(width, height int, insets Insets) *Compositor {
	logrus.WithFields(logrus.Fields{
		"function": "NewCompositor",
		"width":    width,
		"height":   height,
		"insets":   fmt.Sprintf("t%d b%d l%d r%d", insets.Top, insets.Bottom, insets.Left, insets.Right),
	}).Debug("Overlay compositor created")

	return &Compositor{width: width, height: height, insets: insets}
}

// SafeArea returns the frame rectangle with the insets removed.
func (c *Compositor) SafeArea() image.Rectangle {
	return image.Rect(
		c.insets.Left, c.insets.Top,
		c.width-c.insets.Right, c.height-c.insets.Bottom,
	)
}

// Add appends an overlay after validating its timing and safe-zone
// placement.
func (c *Compositor) Add(overlay Timed) error {
	if overlay.Duration <= 0 || overlay.Start < 0 {
		return fmt.Errorf("%w: start %v duration %v", ErrInvalidTiming, overlay.Start, overlay.Duration)
	}

	bounds := overlay.Layer.Bounds()
	if !bounds.Empty() && !bounds.In(c.SafeArea()) {
		logrus.WithFields(logrus.Fields{
			"function":  "Add",
			"bounds":    bounds.String(),
			"safe_area": c.SafeArea().String(),
		}).Error("Overlay bounds violate safe zone")
		return fmt.Errorf("%w: %v outside %v", ErrSafeZoneViolation, bounds, c.SafeArea())
	}

	c.overlays = append(c.overlays, overlay)
	return nil
}

// Count returns the number of overlays in the tree.
func (c *Compositor) Count() int {
	return len(c.overlays)
}

// ActiveAt returns the overlays whose window contains the presentation
// time, in insertion order (painter's order).
func (c *Compositor) ActiveAt(at time.Duration) []Timed {
	var active []Timed
	for _, o := range c.overlays {
		if at >= o.Start && at < o.End() {
			active = append(active, o)
		}
	}
	return active
}

// Composite draws every active overlay onto the frame at the given
// presentation time.
func (c *Compositor) Composite(dst *image.RGBA, at time.Duration) {
	for _, o := range c.ActiveAt(at) {
		o.Layer.Draw(dst, o.LocalProgress(at))
	}
}
