package snapchef

import (
	"math"
	"testing"

	"github.com/cameronsaddress/SnapChef-sub002/filter"
	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/render"
)

func TestMotionTransformStaticSpecsIgnored(t *testing.T) {
	base := frame.Transform{Zoom: 1.1, PanX: 0.2}
	specs := []filter.Spec{
		{Kind: filter.KindColorGrade, Grade: filter.GradeWarm},
		{Kind: filter.KindVignette, Intensity: 0.5},
	}
	got := motionTransform(base, specs, 0.5, render.DefaultConfig())
	if got != base {
		t.Errorf("Static specs changed the transform: %+v", got)
	}
}

func TestMotionTransformBreathingPulse(t *testing.T) {
	base := frame.Transform{Zoom: 1.05}
	specs := []filter.Spec{{Kind: filter.KindBreathingPulse, Intensity: 1.0}}
	cfg := render.DefaultConfig()

	atStart := motionTransform(base, specs, 0, cfg)
	atQuarter := motionTransform(base, specs, 0.25, cfg)
	atHalf := motionTransform(base, specs, 0.5, cfg)

	if math.Abs(atStart.Zoom-1.05) > 1e-9 {
		t.Errorf("Zoom at progress 0 = %v, want base", atStart.Zoom)
	}
	if atQuarter.Zoom <= atStart.Zoom {
		t.Errorf("Zoom should peak mid-inhale: %v vs %v", atQuarter.Zoom, atStart.Zoom)
	}
	if math.Abs(atHalf.Zoom-1.05) > 1e-9 {
		t.Errorf("Zoom at progress 0.5 = %v, want back at base", atHalf.Zoom)
	}
}

func TestMotionTransformParallaxSweep(t *testing.T) {
	specs := []filter.Spec{{Kind: filter.KindParallaxPan, Intensity: 1.0}}
	cfg := render.DefaultConfig()

	start := motionTransform(frame.Identity, specs, 0, cfg)
	end := motionTransform(frame.Identity, specs, 1, cfg)

	if start.PanX >= 0 {
		t.Errorf("PanX at start = %v, want negative sweep", start.PanX)
	}
	if end.PanX <= 0 {
		t.Errorf("PanX at end = %v, want positive sweep", end.PanX)
	}
	if math.Abs(start.PanX+end.PanX) > 1e-9 {
		t.Errorf("Sweep not symmetric: %v vs %v", start.PanX, end.PanX)
	}
}

func TestMotionTransformVelocityRamp(t *testing.T) {
	base := frame.Transform{Zoom: 1.15}
	specs := []filter.Spec{{Kind: filter.KindVelocityRamp, Intensity: 1.0}}
	cfg := render.DefaultConfig()

	start := motionTransform(base, specs, 0, cfg)
	mid := motionTransform(base, specs, 0.5, cfg)
	end := motionTransform(base, specs, 1, cfg)

	if start.Zoom != 1 {
		t.Errorf("Ramp should start at no zoom, got %v", start.Zoom)
	}
	if end.Zoom != base.Zoom {
		t.Errorf("Ramp should end at base zoom, got %v", end.Zoom)
	}
	// Quadratic ease: the midpoint sits below the linear halfway mark.
	linear := 1 + (base.Zoom-1)*0.5
	if mid.Zoom >= linear {
		t.Errorf("Midpoint zoom %v should lag linear %v", mid.Zoom, linear)
	}
}

func TestMotionTransformZoomCapped(t *testing.T) {
	cfg := render.DefaultConfig()
	base := frame.Transform{Zoom: cfg.KenBurnsZoomCap}
	specs := []filter.Spec{{Kind: filter.KindBreathingPulse, Intensity: 1.0}}

	got := motionTransform(base, specs, 0.25, cfg)
	if got.Zoom > cfg.KenBurnsZoomCap {
		t.Errorf("Zoom %v exceeds cap %v", got.Zoom, cfg.KenBurnsZoomCap)
	}
}

func TestMotionTransformProgressClamped(t *testing.T) {
	specs := []filter.Spec{{Kind: filter.KindParallaxPan, Intensity: 1.0}}
	cfg := render.DefaultConfig()

	below := motionTransform(frame.Identity, specs, -0.5, cfg)
	at0 := motionTransform(frame.Identity, specs, 0, cfg)
	if below != at0 {
		t.Errorf("Progress below 0 not clamped: %+v vs %+v", below, at0)
	}
}
