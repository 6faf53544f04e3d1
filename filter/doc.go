// Package filter provides still-image processing for reel rendering.
//
// A render plan describes the look of each track item declaratively, as
// an ordered list of filter specs. This package maps those specs to
// concrete pixel operations and applies them to a single image:
//
//	Spec list → Registry lookup → Filter chain → processed image
//
// Motion-based specs (breathing pulse, parallax pan, velocity ramp)
// depend on presentation time, not just the static image, so they are
// classified here but applied per-frame by the encoder. Unknown spec
// kinds are a deliberate no-op rather than an error: a plan produced by
// a newer template must degrade gracefully on an older pipeline.
//
// Named color grades (warm, cinematic, vibrant, moody, fresh, natural)
// are not single operations but fixed two-step chains of a temperature
// shift followed by a contrast curve. The parameter values are part of
// the visual contract and must not drift.
//
// Example:
//
//	pipeline := filter.NewPipeline(filter.NewDefaultRegistry())
//	out, err := pipeline.Apply(img, []filter.Spec{
//	    {Kind: filter.KindColorGrade, Grade: filter.GradeWarm},
//	    {Kind: filter.KindVignette, Intensity: 0.4},
//	})
package filter
