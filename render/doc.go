// Package render defines the immutable configuration and the resolved
// schedule for one reel render.
//
// A render starts from three inputs: a template, a recipe, and a media
// bundle. The planner turns them into a Plan: an ordered list of track
// items (source image, time range, transform, filter specs) plus a
// timed overlay schedule and the total output duration. The plan is
// built once, is immutable, and is the only thing the encoder consumes.
//
// Progress reporting also lives here. Phases advance in a fixed order
// and fractional progress within a phase is monotonically
// non-decreasing; the Reporter enforces both so UI callbacks never see
// the bar move backwards.
package render
