package filter

import "errors"

// ErrFilterFailed indicates a filter operation could not process its
// input image.
var ErrFilterFailed = errors.New("filter operation failed")

// Kind identifies a filter spec variant.
type Kind string

// Static filter kinds, applied to the source image once per track item.
const (
	KindColorGrade          Kind = "color_grade"
	KindVibrance            Kind = "vibrance"
	KindBlur                Kind = "blur"
	KindVignette            Kind = "vignette"
	KindChromaticAberration Kind = "chromatic_aberration"
	KindFilmGrain           Kind = "film_grain"
)

// Motion filter kinds, resolved per output frame by the encoder because
// their effect depends on presentation time.
const (
	KindBreathingPulse Kind = "breathing_pulse"
	KindParallaxPan    Kind = "parallax_pan"
	KindVelocityRamp   Kind = "velocity_ramp"
)

// GradePreset names one of the fixed color grade chains.
type GradePreset string

const (
	GradeWarm      GradePreset = "warm"
	GradeCinematic GradePreset = "cinematic"
	GradeVibrant   GradePreset = "vibrant"
	GradeMoody     GradePreset = "moody"
	GradeFresh     GradePreset = "fresh"
	GradeNatural   GradePreset = "natural"
)

// Spec declares one filter application. Intensity meaning is
// kind-specific; Grade is only consulted for KindColorGrade.
type Spec struct {
	Kind      Kind
	Intensity float64
	Grade     GradePreset
}

// IsMotion reports whether the spec depends on presentation time and
// must therefore be deferred to per-frame transform computation.
func (s Spec) IsMotion() bool {
	switch s.Kind {
	case KindBreathingPulse, KindParallaxPan, KindVelocityRamp:
		return true
	}
	return false
}
