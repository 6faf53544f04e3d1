package snapchef

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cameronsaddress/SnapChef-sub002/encode"
	"github.com/cameronsaddress/SnapChef-sub002/overlay"
	"github.com/cameronsaddress/SnapChef-sub002/recipe"
	"github.com/cameronsaddress/SnapChef-sub002/render"
	"github.com/cameronsaddress/SnapChef-sub002/validate"
)

// testConfig shrinks the default geometry so end-to-end renders stay
// fast under `go test`.
func testConfig() render.Config {
	cfg := render.DefaultConfig()
	cfg.Width = 270
	cfg.Height = 480
	cfg.SafeZone = overlay.Insets{Top: 48, Bottom: 48, Left: 18, Right: 18}
	cfg.TargetFileSize = 2 * 1024 * 1024
	cfg.CrossfadeDuration = 200 * time.Millisecond
	return cfg
}

func testMedia() *recipe.MediaBundle {
	img := func(c color.RGBA) image.Image {
		out := image.NewRGBA(image.Rect(0, 0, 96, 128))
		for i := 0; i < len(out.Pix); i += 4 {
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 255
		}
		return out
	}
	return &recipe.MediaBundle{
		Before:     img(color.RGBA{200, 120, 40, 255}),
		After:      img(color.RGBA{40, 160, 90, 255}),
		CookedMeal: img(color.RGBA{220, 60, 60, 255}),
	}
}

func testRecipe() *recipe.ViralRecipe {
	return &recipe.ViralRecipe{
		Title: "Garlic Butter Pasta",
		Hook:  "5 minutes, 3 ingredients",
		Steps: []recipe.Step{
			{Title: "Boil", DurationHint: 3},
			{Title: "Sizzle", DurationHint: 3},
			{Title: "Toss", DurationHint: 3},
		},
	}
}

func TestRenderBeforeAfterEndToEnd(t *testing.T) {
	renderer, err := NewRenderer(testConfig())
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "reel.avi")
	var mu sync.Mutex
	var phases []render.Phase
	result, err := renderer.Render(context.Background(), render.TemplateBeforeAfter,
		testRecipe(), testMedia(), outPath, func(p render.Progress) {
			mu.Lock()
			defer mu.Unlock()
			if len(phases) == 0 || phases[len(phases)-1] != p.Phase {
				phases = append(phases, p.Phase)
			}
		})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if result.Duration != 6*time.Second {
		t.Errorf("Duration = %v, want 6s", result.Duration)
	}
	if result.FrameCount != 180 {
		t.Errorf("FrameCount = %d, want 180", result.FrameCount)
	}
	if result.SessionID == "" {
		t.Error("SessionID is empty")
	}

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if info.Size() != result.FileSize {
		t.Errorf("Result FileSize = %d, file is %d", result.FileSize, info.Size())
	}

	// The finished file must stand up to an independent probe.
	probe, err := validate.ProbeFile(outPath)
	if err != nil {
		t.Fatalf("ProbeFile failed: %v", err)
	}
	if probe.TotalFrames != 180 {
		t.Errorf("Probed %d frames, want 180", probe.TotalFrames)
	}

	// Phases never regress.
	for i := 1; i < len(phases); i++ {
		if phases[i] < phases[i-1] {
			t.Errorf("Phase regressed: %v", phases)
		}
	}
	if len(phases) == 0 || phases[len(phases)-1] != render.PhaseComplete {
		t.Errorf("Final phase = %v, want complete", phases)
	}

	// Every phase of the pipeline must be observable.
	seen := make(map[render.Phase]bool, len(phases))
	for _, p := range phases {
		seen[p] = true
	}
	for p := render.PhasePlanning; p <= render.PhaseComplete; p++ {
		if !seen[p] {
			t.Errorf("Phase %v was never reported", p)
		}
	}
}

func TestRenderQuickLookMotion(t *testing.T) {
	renderer, err := NewRenderer(testConfig())
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "quick.avi")
	result, err := renderer.Render(context.Background(), render.TemplateQuickLook,
		testRecipe(), testMedia(), outPath, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if result.Duration != 5*time.Second {
		t.Errorf("Duration = %v, want 5s", result.Duration)
	}
}

func TestNewRendererRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.FPS = 0
	if _, err := NewRenderer(cfg); !errors.Is(err, render.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestRenderMissingAssetsFailsFast(t *testing.T) {
	renderer, err := NewRenderer(testConfig())
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	media := testMedia()
	media.After = nil

	start := time.Now()
	_, err = renderer.Render(context.Background(), render.TemplateBeforeAfter,
		testRecipe(), media, filepath.Join(t.TempDir(), "out.avi"), nil)
	if !errors.Is(err, recipe.ErrMissingAssets) {
		t.Fatalf("Expected ErrMissingAssets, got %v", err)
	}
	// Non-retryable: no backoff sleeps should have happened.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Missing assets took %v, suggesting retries with backoff", elapsed)
	}
}

func TestRenderCancellation(t *testing.T) {
	renderer, err := NewRenderer(testConfig())
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = renderer.Render(ctx, render.TemplateBeforeAfter,
		testRecipe(), testMedia(), filepath.Join(t.TempDir(), "out.avi"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRenderMuxerFailureNotRetried(t *testing.T) {
	calls := 0
	renderer, err := NewRenderer(testConfig(), WithMuxerFactory(
		func(path string, width, height, fps int) (encode.Muxer, error) {
			calls++
			return nil, errors.New("no space left on device")
		}))
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	_, err = renderer.Render(context.Background(), render.TemplateBeforeAfter,
		testRecipe(), testMedia(), filepath.Join(t.TempDir(), "out.avi"), nil)
	if !errors.Is(err, validate.ErrExportSessionUncreatable) {
		t.Fatalf("Expected ErrExportSessionUncreatable, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Muxer factory called %d times, want 1 (session errors never retry)", calls)
	}
}
