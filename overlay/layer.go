package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Layer is one drawable element of the overlay tree. Draw renders the
// layer onto the frame at its local progress: 0 at the overlay's start
// time, 1 at its end. Layers are stateless between frames.
type Layer interface {
	Draw(dst *image.RGBA, progress float64)
	// Bounds returns the pixel region the layer occupies, used for
	// safe-zone enforcement.
	Bounds() image.Rectangle
}

// TextLayer draws a single line of text. Rendering uses a fixed raster
// face; final typography is the presentation surface's concern, the
// pipeline only guarantees placement and timing.
type TextLayer struct {
	Text   string
	Origin image.Point // baseline-left anchor
	Color  color.Color
}

// Draw renders the text with a fade-in: progress scales alpha over the
// first 20% of the overlay's life.
func (l *TextLayer) Draw(dst *image.RGBA, progress float64) {
	alpha := fadeInAlpha(progress)
	src := image.NewUniform(withAlpha(l.Color, alpha))

	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(l.Origin.X, l.Origin.Y),
	}
	d.DrawString(l.Text)
}

// Bounds returns the text's occupied region.
func (l *TextLayer) Bounds() image.Rectangle {
	face := basicfont.Face7x13
	width := font.MeasureString(face, l.Text).Ceil()
	return image.Rect(
		l.Origin.X, l.Origin.Y-face.Ascent,
		l.Origin.X+width, l.Origin.Y+face.Descent,
	)
}

// StickerLayer draws a pre-rendered image (emoji badge, logo) at a
// fixed position.
type StickerLayer struct {
	Image  image.Image
	Origin image.Point
}

// Draw composites the sticker over the frame.
func (l *StickerLayer) Draw(dst *image.RGBA, progress float64) {
	if l.Image == nil {
		return
	}
	r := l.Bounds()
	draw.Draw(dst, r, l.Image, l.Image.Bounds().Min, draw.Over)
}

// Bounds returns the sticker's placement rectangle.
func (l *StickerLayer) Bounds() image.Rectangle {
	if l.Image == nil {
		return image.Rectangle{}
	}
	size := l.Image.Bounds().Size()
	return image.Rectangle{Min: l.Origin, Max: l.Origin.Add(size)}
}

// ProgressBarLayer draws a horizontal bar filled left to right by the
// overlay's local progress, tracking the viewer through the steps.
type ProgressBarLayer struct {
	Rect  image.Rectangle
	Track color.Color
	Fill  color.Color
}

// Draw paints the track, then the filled fraction.
func (l *ProgressBarLayer) Draw(dst *image.RGBA, progress float64) {
	draw.Draw(dst, l.Rect, image.NewUniform(l.Track), image.Point{}, draw.Over)

	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	fillWidth := int(float64(l.Rect.Dx()) * progress)
	fillRect := image.Rect(l.Rect.Min.X, l.Rect.Min.Y, l.Rect.Min.X+fillWidth, l.Rect.Max.Y)
	draw.Draw(dst, fillRect, image.NewUniform(l.Fill), image.Point{}, draw.Over)
}

// Bounds returns the bar's rectangle.
func (l *ProgressBarLayer) Bounds() image.Rectangle {
	return l.Rect
}

// MaskLayer darkens a region with a translucent scrim so text drawn
// above it stays legible on busy footage.
type MaskLayer struct {
	Rect    image.Rectangle
	Opacity float64 // 0..1
}

// Draw multiplies the region toward black by the mask opacity.
func (l *MaskLayer) Draw(dst *image.RGBA, progress float64) {
	opacity := l.Opacity
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	scrim := color.RGBA{0, 0, 0, uint8(opacity * 255)}
	draw.Draw(dst, l.Rect.Intersect(dst.Bounds()), image.NewUniform(scrim), image.Point{}, draw.Over)
}

// Bounds returns the masked region.
func (l *MaskLayer) Bounds() image.Rectangle {
	return l.Rect
}

// fadeInAlpha ramps alpha from 0 to 1 over the first 20% of an
// overlay's life, then holds.
func fadeInAlpha(progress float64) float64 {
	const fadePortion = 0.2
	if progress <= 0 {
		return 0
	}
	if progress >= fadePortion {
		return 1
	}
	return progress / fadePortion
}

// withAlpha scales a color's alpha channel.
func withAlpha(c color.Color, alpha float64) color.Color {
	r, g, b, a := c.RGBA()
	return color.RGBA64{
		R: uint16(float64(r) * alpha),
		G: uint16(float64(g) * alpha),
		B: uint16(float64(b) * alpha),
		A: uint16(float64(a) * alpha),
	}
}
