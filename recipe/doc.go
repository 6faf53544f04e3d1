// Package recipe defines the value types a reel render consumes: the
// recipe content itself, the media bundle of source photos and clips,
// and caption construction for the publishing step.
//
// All types in this package are immutable once constructed. The render
// pipeline borrows them read-only; it never mutates a recipe or its
// media bundle.
//
// Example:
//
//	rec := &recipe.ViralRecipe{
//	    Title: "5-Minute Garlic Butter Pasta",
//	    Hook:  "You won't believe this took 5 minutes",
//	    Steps: []recipe.Step{
//	        {Title: "Boil the pasta", DurationHint: 4},
//	        {Title: "Brown the garlic butter", DurationHint: 2},
//	    },
//	    Ingredients: []string{"pasta", "butter", "garlic"},
//	}
//
//	caption := recipe.BuildCaption(rec.Title, []string{"pasta", "easyrecipe"}, "https://snapchef.app/r/abc")
package recipe
