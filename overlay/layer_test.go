package overlay

import (
	"image"
	"image/color"
	"testing"
)

func TestProgressBarFillTracksProgress(t *testing.T) {
	layer := &ProgressBarLayer{
		Rect:  image.Rect(10, 10, 110, 20),
		Track: color.RGBA{255, 255, 255, 60},
		Fill:  color.RGBA{255, 255, 255, 255},
	}

	dst := image.NewRGBA(image.Rect(0, 0, 120, 30))
	layer.Draw(dst, 0.5)

	// Pixel inside the filled half is brighter than one past it.
	_, _, _, filled := dst.At(50, 15).RGBA()
	_, _, _, track := dst.At(100, 15).RGBA()
	if filled <= track {
		t.Errorf("Filled alpha %d should exceed track alpha %d", filled, track)
	}
}

func TestProgressBarClampsProgress(t *testing.T) {
	layer := &ProgressBarLayer{
		Rect: image.Rect(0, 0, 100, 10),
		Fill: color.White,
	}
	dst := image.NewRGBA(image.Rect(0, 0, 100, 10))
	// Out-of-range progress must not panic or over-draw.
	layer.Draw(dst, -1)
	layer.Draw(dst, 2)
}

func TestTextLayerBoundsCoverText(t *testing.T) {
	layer := &TextLayer{Text: "Hello", Origin: image.Point{X: 40, Y: 60}, Color: color.White}
	b := layer.Bounds()
	if b.Min.X != 40 {
		t.Errorf("Bounds left = %d, want anchored at origin", b.Min.X)
	}
	if b.Dx() <= 0 || b.Dy() <= 0 {
		t.Errorf("Degenerate bounds %v", b)
	}
	if b.Min.Y >= 60 || b.Max.Y <= 60 {
		t.Errorf("Baseline 60 should fall inside bounds %v", b)
	}
}

func TestTextLayerFadesIn(t *testing.T) {
	layer := &TextLayer{Text: "X", Origin: image.Point{X: 5, Y: 15}, Color: color.White}

	early := image.NewRGBA(image.Rect(0, 0, 20, 20))
	layer.Draw(early, 0.05)
	late := image.NewRGBA(image.Rect(0, 0, 20, 20))
	layer.Draw(late, 1.0)

	sum := func(img *image.RGBA) (total uint32) {
		for i := 3; i < len(img.Pix); i += 4 {
			total += uint32(img.Pix[i])
		}
		return
	}
	if sum(early) >= sum(late) {
		t.Error("Text at 5% progress should be fainter than fully revealed text")
	}
}

func TestStickerLayerNilImage(t *testing.T) {
	layer := &StickerLayer{}
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	layer.Draw(dst, 1) // must not panic
	if !layer.Bounds().Empty() {
		t.Error("Nil sticker should have empty bounds")
	}
}

func TestMaskLayerDarkens(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range dst.Pix {
		dst.Pix[i] = 200
	}

	layer := &MaskLayer{Rect: image.Rect(0, 0, 5, 10), Opacity: 0.5}
	layer.Draw(dst, 0)

	r, _, _, _ := dst.At(2, 5).RGBA()
	r2, _, _, _ := dst.At(8, 5).RGBA()
	if r >= r2 {
		t.Errorf("Masked pixel %d should be darker than unmasked %d", r, r2)
	}
}
