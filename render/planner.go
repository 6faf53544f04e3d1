package render

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cameronsaddress/SnapChef-sub002/filter"
	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/overlay"
	"github.com/cameronsaddress/SnapChef-sub002/recipe"
)

// Template selects the narrative shape of a reel.
type Template int

const (
	// TemplateBeforeAfter cuts from raw ingredients to the plated dish.
	TemplateBeforeAfter Template = iota
	// TemplateStepByStep walks all three stills with step callouts.
	TemplateStepByStep
	// TemplateQuickLook is a single hero shot with a slow push-in.
	TemplateQuickLook
)

// String returns the template name.
func (t Template) String() string {
	switch t {
	case TemplateBeforeAfter:
		return "before_after"
	case TemplateStepByStep:
		return "step_by_step"
	case TemplateQuickLook:
		return "quick_look"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// segment durations per template, before clamping to MaxDuration.
const (
	beforeAfterSegment = 3 * time.Second
	stepSegmentDefault = 3 * time.Second
	quickLookDuration  = 5 * time.Second
)

// BuildPlan resolves a template, recipe, and media bundle into the
// immutable render schedule. The recipe and media are borrowed
// read-only.
func BuildPlan(template Template, rec *recipe.ViralRecipe, media *recipe.MediaBundle, cfg Config) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := media.Validate(); err != nil {
		return nil, err
	}

	var plan *Plan
	switch template {
	case TemplateBeforeAfter:
		plan = planBeforeAfter(rec, media, cfg)
	case TemplateStepByStep:
		plan = planStepByStep(rec, media, cfg)
	case TemplateQuickLook:
		plan = planQuickLook(rec, media, cfg)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownTemplate, template)
	}

	clampToMaxDuration(plan, cfg.MaxDuration)
	plan.AudioURL = media.MusicURL

	logrus.WithFields(logrus.Fields{
		"function":      "BuildPlan",
		"template":      template.String(),
		"item_count":    len(plan.Items),
		"overlay_count": len(plan.Overlays),
		"duration":      plan.Duration,
	}).Info("Render plan built")

	return plan, nil
}

// planBeforeAfter: two segments, hard contrast between raw and plated.
func planBeforeAfter(rec *recipe.ViralRecipe, media *recipe.MediaBundle, cfg Config) *Plan {
	specs := lookSpecs(cfg)
	items := []TrackItem{
		{
			Source:    media.Before,
			Range:     TimeRange{Start: 0, Duration: beforeAfterSegment},
			Transform: frame.Transform{Zoom: cfg.KenBurnsZoomCap, PanX: -0.3},
			Filters:   specs,
		},
		{
			Source:    media.After,
			Range:     TimeRange{Start: beforeAfterSegment, Duration: beforeAfterSegment},
			Transform: frame.Transform{Zoom: cfg.KenBurnsZoomCap, PanX: 0.3},
			Filters:   specs,
		},
	}

	plan := &Plan{Items: items, Duration: 2 * beforeAfterSegment}
	addHookOverlay(plan, rec, cfg)
	addProgressBar(plan, cfg)
	return plan
}

// planStepByStep: all three stills, one step callout per segment with a
// staggered reveal.
func planStepByStep(rec *recipe.ViralRecipe, media *recipe.MediaBundle, cfg Config) *Plan {
	stills := media.Stills()
	segment := stepSegmentDefault
	if n := rec.StepCount(); n > 0 && rec.Steps[0].DurationHint > 0 {
		hinted := time.Duration(rec.Steps[0].DurationHint * float64(time.Second))
		// Duration hints are suggestions, not contracts. Keep segments
		// between 2s and 5s so the reel stays watchable.
		if hinted >= 2*time.Second && hinted <= 5*time.Second {
			segment = hinted
		}
	}

	specs := lookSpecs(cfg)
	items := make([]TrackItem, len(stills))
	var cursor time.Duration
	for i, still := range stills {
		pan := float64(i-1) * 0.4 // -0.4, 0, 0.4 across the three stills
		items[i] = TrackItem{
			Source:    still,
			Range:     TimeRange{Start: cursor, Duration: segment},
			Transform: frame.Transform{Zoom: cfg.KenBurnsZoomCap, PanX: pan},
			Filters:   specs,
		}
		cursor += segment
	}

	plan := &Plan{Items: items, Duration: cursor}
	addHookOverlay(plan, rec, cfg)
	addStepCallouts(plan, rec, cfg)
	addProgressBar(plan, cfg)
	return plan
}

// planQuickLook: single hero shot with a slow push-in.
func planQuickLook(rec *recipe.ViralRecipe, media *recipe.MediaBundle, cfg Config) *Plan {
	items := []TrackItem{{
		Source:    media.CookedMeal,
		Range:     TimeRange{Start: 0, Duration: quickLookDuration},
		Transform: frame.Transform{Zoom: cfg.KenBurnsZoomCap},
		Filters: append(lookSpecs(cfg),
			filter.Spec{Kind: filter.KindBreathingPulse, Intensity: 0.3}),
	}}

	plan := &Plan{Items: items, Duration: quickLookDuration}
	addHookOverlay(plan, rec, cfg)
	return plan
}

// lookSpecs returns the filter stack for the configured quality tier.
func lookSpecs(cfg Config) []filter.Spec {
	if !cfg.Premium {
		return []filter.Spec{
			{Kind: filter.KindColorGrade, Grade: filter.GradeNatural},
		}
	}
	specs := []filter.Spec{
		{Kind: filter.KindColorGrade, Grade: filter.GradeCinematic},
		{Kind: filter.KindVibrance, Intensity: 0.4},
		{Kind: filter.KindVignette, Intensity: 0.35},
		{Kind: filter.KindFilmGrain, Intensity: 0.15},
	}
	if cfg.ChromaticAberration > 0 {
		specs = append(specs, filter.Spec{
			Kind:      filter.KindChromaticAberration,
			Intensity: cfg.ChromaticAberration,
		})
	}
	return specs
}

// addHookOverlay schedules the hook line (falling back to the title)
// inside the top safe area for the first two seconds.
func addHookOverlay(plan *Plan, rec *recipe.ViralRecipe, cfg Config) {
	text := rec.Hook
	if text == "" {
		text = rec.Title
	}
	if text == "" {
		return
	}

	duration := 2 * time.Second
	if duration > plan.Duration {
		duration = plan.Duration
	}
	plan.Overlays = append(plan.Overlays, Overlay{
		Start:    0,
		Duration: duration,
		Build: func(cfg Config) overlay.Layer {
			return &overlay.TextLayer{
				Text:   text,
				Origin: image.Point{X: cfg.SafeZone.Left + 24, Y: cfg.SafeZone.Top + 48},
				Color:  color.White,
			}
		},
	})
}

// addStepCallouts schedules one text callout per step, staggered by the
// configured delay within its segment.
func addStepCallouts(plan *Plan, rec *recipe.ViralRecipe, cfg Config) {
	for i, step := range rec.Steps {
		if i >= len(plan.Items) {
			break
		}
		item := plan.Items[i]
		start := item.Range.Start + time.Duration(i+1)*cfg.StaggerDelay
		if start >= item.Range.End() {
			start = item.Range.Start
		}
		title := step.Title
		plan.Overlays = append(plan.Overlays, Overlay{
			Start:    start,
			Duration: item.Range.End() - start,
			Build: func(cfg Config) overlay.Layer {
				return &overlay.TextLayer{
					Text:   title,
					Origin: image.Point{X: cfg.SafeZone.Left + 24, Y: cfg.Height - cfg.SafeZone.Bottom - 96},
					Color:  color.White,
				}
			},
		})
	}
}

// addProgressBar schedules the full-duration progress bar just above
// the bottom safe zone.
func addProgressBar(plan *Plan, cfg Config) {
	plan.Overlays = append(plan.Overlays, Overlay{
		Start:    0,
		Duration: plan.Duration,
		Build: func(cfg Config) overlay.Layer {
			return &overlay.ProgressBarLayer{
				Rect: image.Rect(
					cfg.SafeZone.Left+24, cfg.Height-cfg.SafeZone.Bottom-32,
					cfg.Width-cfg.SafeZone.Right-24, cfg.Height-cfg.SafeZone.Bottom-20,
				),
				Track: color.RGBA{255, 255, 255, 60},
				Fill:  color.RGBA{255, 255, 255, 230},
			}
		},
	})
}

// clampToMaxDuration trims trailing items and shortens overlays so the
// plan never exceeds the hard duration ceiling.
func clampToMaxDuration(plan *Plan, max time.Duration) {
	if plan.Duration <= max {
		return
	}

	logrus.WithFields(logrus.Fields{
		"function": "clampToMaxDuration",
		"planned":  plan.Duration,
		"max":      max,
	}).Warn("Plan exceeds duration ceiling, clamping")

	var kept []TrackItem
	for _, item := range plan.Items {
		if item.Range.Start >= max {
			break
		}
		if item.Range.End() > max {
			item.Range.Duration = max - item.Range.Start
		}
		kept = append(kept, item)
	}
	plan.Items = kept
	plan.Duration = max

	var overlays []Overlay
	for _, o := range plan.Overlays {
		if o.Start >= max {
			continue
		}
		if o.Start+o.Duration > max {
			o.Duration = max - o.Start
		}
		overlays = append(overlays, o)
	}
	plan.Overlays = overlays
}
