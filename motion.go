package snapchef

import (
	"math"

	"github.com/cameronsaddress/SnapChef-sub002/filter"
	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/render"
)

// breathingAmplitude scales the zoom oscillation of a full-intensity
// breathing pulse. Kept subtle; food close-ups distort fast.
const breathingAmplitude = 0.03

// motionTransform resolves a track item's deferred motion specs into
// the concrete transform for one frame. progress is the frame's
// position within its segment in [0, 1]. Static specs are ignored here;
// the filter pipeline consumed them at asset-preparation time.
func motionTransform(base frame.Transform, specs []filter.Spec, progress float64, cfg render.Config) frame.Transform {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	out := base
	if out.Zoom < 1 {
		out.Zoom = 1
	}

	for _, spec := range specs {
		if !spec.IsMotion() {
			continue
		}
		switch spec.Kind {
		case filter.KindBreathingPulse:
			// One full slow inhale/exhale per segment.
			out.Zoom += breathingAmplitude * spec.Intensity * math.Sin(2*math.Pi*progress)

		case filter.KindParallaxPan:
			// Sweep the pan across the slack over the segment.
			sweep := cfg.ParallaxIntensity * spec.Intensity * (2*progress - 1)
			out.PanX += sweep

		case filter.KindVelocityRamp:
			// Ease from no zoom into the base zoom, accelerating.
			ramp := progress * progress
			out.Zoom = 1 + (base.Zoom-1)*ramp
		}
	}

	if cfg.KenBurnsZoomCap > 1 && out.Zoom > cfg.KenBurnsZoomCap {
		out.Zoom = cfg.KenBurnsZoomCap
	}
	if out.Zoom < 1 {
		out.Zoom = 1
	}
	return out
}
