// Package snapchef renders short vertical recipe videos and publishes
// them to the remote platform.
//
// The pipeline runs recipe text and photos through planning, filtering,
// frame sequencing, encoding, and validation, producing a file ready
// for chunked upload:
//
//	MediaBundle + ViralRecipe
//	    → render.BuildPlan (template, timeline, overlays)
//	    → filter.Pipeline (per-image color grading)
//	    → frame.Sequencer + frame.Factory (per-frame buffers, crossfades)
//	    → encode.Encoder (pull-driven muxing)
//	    → validate.Validator (duration, size, track, fps)
//	    → upload.ChunkedUploader (10MB sequential chunks)
//	    → status polling until the platform accepts or rejects.
//
// The Renderer facade wires these together with retry classification:
// the encode invocation and every upload network call run under a
// retry.Coordinator, and exhausted encodes fall back to a
// reduced-quality configuration before failing for good.
package snapchef
