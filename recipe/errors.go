package recipe

import "errors"

// Sentinel errors for recipe and media bundle validation.
// These errors enable reliable classification using errors.Is().

var (
	// ErrMissingAssets indicates a media bundle is missing one of its
	// three required still images.
	ErrMissingAssets = errors.New("media bundle missing required assets")

	// ErrEmptyRecipe indicates a recipe has no title and no steps,
	// leaving nothing to render.
	ErrEmptyRecipe = errors.New("recipe has no renderable content")
)
