package render

import (
	"fmt"
	"time"

	"github.com/cameronsaddress/SnapChef-sub002/overlay"
)

// Config is the immutable per-render configuration. Acceptable ranges
// for typography and safe zones (hook font 60-72pt, top/bottom inset
// ≥192px, left/right ≥72px) are a conformance-test concern; the
// constructor does not enforce them.
type Config struct {
	// Output geometry
	Width  int
	Height int
	FPS    int

	// Safe-zone insets overlays must keep clear of platform chrome.
	SafeZone overlay.Insets

	// Duration and size budgets
	MaxDuration    time.Duration
	TargetFileSize int64 // soft target the bitrate budget aims for
	MaxFileSize    int64 // hard ceiling enforced post-encode
	MaxBitrate     int   // bps ceiling for the bit-budget formula
	MaxRenderTime  time.Duration

	// Typography point sizes
	HookFontSize  float64
	TitleFontSize float64
	BodyFontSize  float64

	// Animation timing
	FadeDuration      time.Duration
	SpringDamping     float64
	StaggerDelay      time.Duration
	CrossfadeDuration time.Duration

	// Effect intensities
	KenBurnsZoomCap     float64
	ParallaxIntensity   float64
	ChromaticAberration float64

	// Premium unlocks the heavier effect stack.
	Premium bool
}

// DefaultConfig returns the production render configuration for
// vertical 9:16 output.
func DefaultConfig() Config {
	return Config{
		// 1080x1920 at 30fps is the platform's preferred vertical format.
		Width:  1080,
		Height: 1920,
		FPS:    30,

		// Insets clear the caption area (top), action rail (right) and
		// description block (bottom).
		SafeZone: overlay.Insets{Top: 192, Bottom: 192, Left: 72, Right: 72},

		// 15s hard duration ceiling; 20MB target inside a 50MB ceiling.
		MaxDuration:    15 * time.Second,
		TargetFileSize: 20 * 1024 * 1024,
		MaxFileSize:    50 * 1024 * 1024,
		MaxBitrate:     10_000_000,
		MaxRenderTime:  60 * time.Second,

		HookFontSize:  66, // acceptable range 60-72
		TitleFontSize: 48,
		BodyFontSize:  36,

		FadeDuration:      300 * time.Millisecond,
		SpringDamping:     0.8,
		StaggerDelay:      120 * time.Millisecond,
		CrossfadeDuration: 500 * time.Millisecond,

		KenBurnsZoomCap:     1.15,
		ParallaxIntensity:   0.05,
		ChromaticAberration: 0,

		Premium: false,
	}
}

// Validate checks the config for values that make a render impossible.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidConfiguration, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidConfiguration, c.FPS)
	}
	if c.MaxDuration <= 0 {
		return fmt.Errorf("%w: max duration %v", ErrInvalidConfiguration, c.MaxDuration)
	}
	if c.TargetFileSize <= 0 || c.MaxFileSize < c.TargetFileSize {
		return fmt.Errorf("%w: size budget target=%d max=%d",
			ErrInvalidConfiguration, c.TargetFileSize, c.MaxFileSize)
	}
	if c.MaxBitrate <= 0 {
		return fmt.Errorf("%w: max bitrate %d", ErrInvalidConfiguration, c.MaxBitrate)
	}
	return nil
}

// ReducedQuality returns a copy of the config reconfigured for the
// reduce-quality fallback strategy: half the size budget, lower bitrate
// ceiling, no premium effects.
func (c Config) ReducedQuality() Config {
	out := c
	out.TargetFileSize = c.TargetFileSize / 2
	out.MaxBitrate = c.MaxBitrate / 2
	out.Premium = false
	out.ChromaticAberration = 0
	return out
}
