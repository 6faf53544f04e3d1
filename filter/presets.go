package filter

// gradeParams holds the fixed parameter pair behind a color grade
// preset. Each preset is a two-step chain: temperature shift, then
// contrast curve. These values define the look of every published reel;
// changing them breaks visual parity with existing output.
type gradeParams struct {
	temperature float64
	contrast    float64
}

var gradeTable = map[GradePreset]gradeParams{
	GradeWarm:      {temperature: 0.25, contrast: 1.05},
	GradeCinematic: {temperature: -0.10, contrast: 1.18},
	GradeVibrant:   {temperature: 0.05, contrast: 1.12},
	GradeMoody:     {temperature: -0.15, contrast: 1.22},
	GradeFresh:     {temperature: 0.08, contrast: 1.04},
	GradeNatural:   {temperature: 0.02, contrast: 1.02},
}

// GradeChain returns the fixed operation chain for a color grade
// preset. Unknown presets return an empty chain, keeping the pipeline
// permissive.
func GradeChain(preset GradePreset) []Filter {
	params, ok := gradeTable[preset]
	if !ok {
		return nil
	}
	return []Filter{
		NewTemperature(params.temperature),
		NewContrast(params.contrast),
	}
}
