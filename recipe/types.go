package recipe

import (
	"image"

	"github.com/sirupsen/logrus"
)

// Step is a single instruction in a recipe. DurationHint, when non-zero,
// suggests how many seconds the step should hold on screen; the planner
// is free to compress it to fit the output duration ceiling.
type Step struct {
	Title        string
	DurationHint float64 // seconds, 0 = let the planner decide
}

// Metadata carries the optional time/cost/calorie facts shown in overlays.
// A zero value means the fact is unknown and its overlay is skipped.
type Metadata struct {
	TimeMinutes int
	CostDollars float64
	Calories    int
}

// ViralRecipe is the content a reel is rendered from. It is a read-only
// value: rendering and caption generation never modify it.
type ViralRecipe struct {
	Title       string
	Hook        string // optional attention line shown in the first second
	Steps       []Step
	Meta        Metadata
	Ingredients []string
}

// Validate reports whether the recipe has enough content to render.
func (r *ViralRecipe) Validate() error {
	if r.Title == "" && len(r.Steps) == 0 {
		return ErrEmptyRecipe
	}
	return nil
}

// StepCount returns the number of steps in the recipe.
func (r *ViralRecipe) StepCount() int {
	return len(r.Steps)
}

// MediaBundle holds the source media for one render: three required
// still images plus optional clips and background music. The bundle is
// owned by the caller; the pipeline borrows references and never
// mutates the images.
type MediaBundle struct {
	Before     image.Image // raw ingredients shot
	After      image.Image // plated result shot
	CookedMeal image.Image // hero close-up shot

	ClipURLs []string // optional short video clips
	MusicURL string   // optional background track
}

// Validate checks that all three required stills are present.
func (m *MediaBundle) Validate() error {
	if m.Before == nil || m.After == nil || m.CookedMeal == nil {
		logrus.WithFields(logrus.Fields{
			"function":        "Validate",
			"has_before":      m.Before != nil,
			"has_after":       m.After != nil,
			"has_cooked_meal": m.CookedMeal != nil,
		}).Error("Media bundle missing required still image")
		return ErrMissingAssets
	}
	return nil
}

// Stills returns the three required images in presentation order.
// Callers must Validate() first; nil entries are passed through as-is.
func (m *MediaBundle) Stills() []image.Image {
	return []image.Image{m.Before, m.CookedMeal, m.After}
}
