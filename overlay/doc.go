// Package overlay builds the layered visual tree composited on top of
// rendered frames: text callouts, stickers, a progress bar, and
// legibility masks, each timed against the output video's timeline.
//
// The timing contract is the core of this package. Every overlay has a
// start time and a duration; the Compositor answers which overlays are
// active at a given presentation time and drives each active layer with
// its local progress in [0, 1]. Layers are pure raster drawers; they
// know nothing about the timeline.
//
// Overlays must respect the configured safe-zone insets so platform
// chrome (captions, action rail) never covers them. Add rejects layers
// whose bounds violate the insets.
package overlay
