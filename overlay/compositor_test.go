package overlay

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"
)

func testInsets() Insets {
	return Insets{Top: 192, Bottom: 192, Left: 72, Right: 72}
}

func barLayer(rect image.Rectangle) *ProgressBarLayer {
	return &ProgressBarLayer{
		Rect:  rect,
		Track: color.RGBA{40, 40, 40, 200},
		Fill:  color.RGBA{255, 255, 255, 255},
	}
}

func TestSafeArea(t *testing.T) {
	c := NewCompositor(1080, 1920, testInsets())
	want := image.Rect(72, 192, 1008, 1728)
	if got := c.SafeArea(); got != want {
		t.Errorf("SafeArea = %v, want %v", got, want)
	}
}

func TestAddRejectsSafeZoneViolation(t *testing.T) {
	c := NewCompositor(1080, 1920, testInsets())

	// Bar crossing into the bottom inset.
	err := c.Add(Timed{
		Start:    0,
		Duration: time.Second,
		Layer:    barLayer(image.Rect(72, 1800, 1008, 1840)),
	})
	if !errors.Is(err, ErrSafeZoneViolation) {
		t.Errorf("Expected ErrSafeZoneViolation, got %v", err)
	}
	if c.Count() != 0 {
		t.Error("Rejected overlay must not be added")
	}
}

func TestAddRejectsInvalidTiming(t *testing.T) {
	c := NewCompositor(1080, 1920, testInsets())
	layer := barLayer(image.Rect(100, 300, 900, 340))

	if err := c.Add(Timed{Start: 0, Duration: 0, Layer: layer}); !errors.Is(err, ErrInvalidTiming) {
		t.Errorf("Expected ErrInvalidTiming for zero duration, got %v", err)
	}
	if err := c.Add(Timed{Start: -time.Second, Duration: time.Second, Layer: layer}); !errors.Is(err, ErrInvalidTiming) {
		t.Errorf("Expected ErrInvalidTiming for negative start, got %v", err)
	}
}

func TestActiveAtWindows(t *testing.T) {
	c := NewCompositor(1080, 1920, testInsets())
	early := barLayer(image.Rect(100, 300, 900, 340))
	late := barLayer(image.Rect(100, 400, 900, 440))

	if err := c.Add(Timed{Start: 0, Duration: 2 * time.Second, Layer: early}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Add(Timed{Start: 3 * time.Second, Duration: 2 * time.Second, Layer: late}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if got := c.ActiveAt(time.Second); len(got) != 1 || got[0].Layer != Layer(early) {
		t.Errorf("Expected only early overlay at t=1s, got %d overlays", len(got))
	}
	if got := c.ActiveAt(2500 * time.Millisecond); len(got) != 0 {
		t.Errorf("Expected no overlays in the gap, got %d", len(got))
	}
	if got := c.ActiveAt(4 * time.Second); len(got) != 1 || got[0].Layer != Layer(late) {
		t.Errorf("Expected only late overlay at t=4s, got %d overlays", len(got))
	}

	// Window end is exclusive.
	if got := c.ActiveAt(2 * time.Second); len(got) != 0 {
		t.Errorf("Overlay should be inactive at its exclusive end, got %d", len(got))
	}
}

func TestLocalProgress(t *testing.T) {
	o := Timed{Start: 2 * time.Second, Duration: 4 * time.Second}

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{0, 0},
		{2 * time.Second, 0},
		{4 * time.Second, 0.5},
		{6 * time.Second, 1},
		{10 * time.Second, 1},
	}
	for _, tt := range tests {
		if got := o.LocalProgress(tt.at); got != tt.want {
			t.Errorf("LocalProgress(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestProgressBarFillsByProgress(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 20))
	bar := &ProgressBarLayer{
		Rect:  image.Rect(0, 0, 100, 20),
		Track: color.RGBA{0, 0, 0, 255},
		Fill:  color.RGBA{255, 255, 255, 255},
	}

	bar.Draw(dst, 0.5)

	if got := dst.RGBAAt(25, 10); got.R != 255 {
		t.Errorf("Pixel inside filled half should be fill color, got %v", got)
	}
	if got := dst.RGBAAt(75, 10); got.R != 0 {
		t.Errorf("Pixel in unfilled half should be track color, got %v", got)
	}
}

func TestCompositeDrawsActiveLayersOnly(t *testing.T) {
	c := NewCompositor(200, 800, Insets{Top: 10, Bottom: 10, Left: 10, Right: 10})
	bar := &ProgressBarLayer{
		Rect:  image.Rect(20, 20, 180, 40),
		Track: color.RGBA{0, 255, 0, 255},
		Fill:  color.RGBA{0, 255, 0, 255},
	}
	if err := c.Add(Timed{Start: time.Second, Duration: time.Second, Layer: bar}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	before := image.NewRGBA(image.Rect(0, 0, 200, 800))
	c.Composite(before, 0)
	if got := before.RGBAAt(50, 30); got.G != 0 {
		t.Errorf("Inactive overlay was drawn: %v", got)
	}

	during := image.NewRGBA(image.Rect(0, 0, 200, 800))
	c.Composite(during, 1500*time.Millisecond)
	if got := during.RGBAAt(50, 30); got.G != 255 {
		t.Errorf("Active overlay was not drawn: %v", got)
	}
}

func TestTextLayerBoundsNonEmpty(t *testing.T) {
	l := &TextLayer{Text: "2-min pasta", Origin: image.Point{X: 100, Y: 300}, Color: color.White}
	b := l.Bounds()
	if b.Empty() {
		t.Error("Text layer bounds should not be empty")
	}
	if b.Min.X != 100 {
		t.Errorf("Bounds should anchor at origin X, got %d", b.Min.X)
	}
}

func TestFadeInAlpha(t *testing.T) {
	if got := fadeInAlpha(0); got != 0 {
		t.Errorf("fadeInAlpha(0) = %v, want 0", got)
	}
	if got := fadeInAlpha(0.1); got != 0.5 {
		t.Errorf("fadeInAlpha(0.1) = %v, want 0.5", got)
	}
	if got := fadeInAlpha(0.2); got != 1 {
		t.Errorf("fadeInAlpha(0.2) = %v, want 1", got)
	}
	if got := fadeInAlpha(0.9); got != 1 {
		t.Errorf("fadeInAlpha(0.9) = %v, want 1", got)
	}
}
