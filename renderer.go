package snapchef

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cameronsaddress/SnapChef-sub002/encode"
	"github.com/cameronsaddress/SnapChef-sub002/filter"
	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/memguard"
	"github.com/cameronsaddress/SnapChef-sub002/overlay"
	"github.com/cameronsaddress/SnapChef-sub002/recipe"
	"github.com/cameronsaddress/SnapChef-sub002/render"
	"github.com/cameronsaddress/SnapChef-sub002/retry"
	"github.com/cameronsaddress/SnapChef-sub002/validate"
)

// MuxerFactory opens a container writer at the output path. Injectable
// so tests can swap in an in-memory muxer.
type MuxerFactory func(path string, width, height, fps int) (encode.Muxer, error)

// Renderer is the rendering facade: it owns the shared services a
// render needs and turns a recipe plus its media into a validated
// video file.
type Renderer struct {
	cfg      render.Config
	registry *filter.Registry
	monitor  *memguard.Monitor
	retries  *retry.Coordinator
	newMuxer MuxerFactory
}

// RendererOption adjusts renderer construction.
type RendererOption func(*Renderer)

// WithFilterRegistry replaces the default filter registry.
func WithFilterRegistry(r *filter.Registry) RendererOption {
	return func(rd *Renderer) {
		if r != nil {
			rd.registry = r
		}
	}
}

// WithMemoryMonitor replaces the default memory monitor.
func WithMemoryMonitor(m *memguard.Monitor) RendererOption {
	return func(rd *Renderer) {
		if m != nil {
			rd.monitor = m
		}
	}
}

// WithRetryCoordinator replaces the default retry coordinator.
func WithRetryCoordinator(c *retry.Coordinator) RendererOption {
	return func(rd *Renderer) {
		if c != nil {
			rd.retries = c
		}
	}
}

// WithMuxerFactory replaces the AVI muxer, for tests.
func WithMuxerFactory(fn MuxerFactory) RendererOption {
	return func(rd *Renderer) {
		if fn != nil {
			rd.newMuxer = fn
		}
	}
}

// NewRenderer creates a renderer for the given configuration.
func NewRenderer(cfg render.Config, opts ...RendererOption) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:      cfg,
		registry: filter.NewDefaultRegistry(),
		monitor:  memguard.NewMonitor(memguard.DefaultSafetyThreshold),
		retries:  retry.NewCoordinator(retry.NewMemoryStore()),
		newMuxer: func(path string, width, height, fps int) (encode.Muxer, error) {
			return encode.NewAVIMuxer(path, width, height, fps)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Result describes a finished render.
type Result struct {
	SessionID  string
	Path       string
	Duration   time.Duration
	FrameCount int
	FileSize   int64
	// Config is the configuration the successful attempt actually
	// used; differs from the renderer's when a fallback fired.
	Config render.Config
}

// Render produces a validated video file at outPath. The encode runs
// under the retry coordinator; if retries exhaust, one reduced-quality
// fallback attempt runs under a fresh operation identifier before the
// error surfaces.
func (r *Renderer) Render(ctx context.Context, template render.Template, rec *recipe.ViralRecipe, media *recipe.MediaBundle, outPath string, onProgress render.ProgressFunc) (*Result, error) {
	sessionID := uuid.NewString()
	reporter := render.NewReporter(onProgress)

	logrus.WithFields(logrus.Fields{
		"function":   "Render",
		"session_id": sessionID,
		"template":   template.String(),
		"output":     outPath,
	}).Info("Render session started")

	var result *Result
	err := r.retries.DoWithFallback(ctx, sessionID, retry.StrategyReduceQuality,
		func(ctx context.Context) error {
			res, err := r.renderOnce(ctx, r.cfg, template, rec, media, outPath, reporter)
			if err != nil {
				return err
			}
			result = res
			return nil
		})

	var fb *retry.FallbackError
	if errors.As(err, &fb) && fb.Strategy == retry.StrategyReduceQuality {
		reduced := r.cfg.ReducedQuality()
		fallbackID := uuid.NewString()

		logrus.WithFields(logrus.Fields{
			"function":    "Render",
			"session_id":  sessionID,
			"fallback_id": fallbackID,
			"strategy":    fb.Strategy.String(),
		}).Warn("Retries exhausted, re-rendering at reduced quality")

		err = r.retries.Do(ctx, fallbackID, func(ctx context.Context) error {
			res, onceErr := r.renderOnce(ctx, reduced, template, rec, media, outPath, reporter)
			if onceErr != nil {
				return onceErr
			}
			result = res
			return nil
		})
	}
	if err != nil {
		return nil, err
	}

	result.SessionID = sessionID
	reporter.Report(render.PhaseComplete, 1, nil)

	logrus.WithFields(logrus.Fields{
		"function":   "Render",
		"session_id": sessionID,
		"duration":   result.Duration.String(),
		"file_size":  result.FileSize,
	}).Info("Render session complete")

	return result, nil
}

// renderOnce is a single end-to-end render attempt under one config.
func (r *Renderer) renderOnce(ctx context.Context, cfg render.Config, template render.Template, rec *recipe.ViralRecipe, media *recipe.MediaBundle, outPath string, reporter *render.Reporter) (*Result, error) {
	reporter.Report(render.PhasePlanning, 0, nil)
	plan, err := render.BuildPlan(template, rec, media, cfg)
	if err != nil {
		return nil, err
	}
	reporter.Report(render.PhasePlanning, 1, nil)

	processed, err := r.prepareAssets(ctx, plan, reporter)
	if err != nil {
		return nil, err
	}

	seq, err := frame.NewSequencer(plan.SegmentDurations(), cfg.FPS, cfg.CrossfadeDuration)
	if err != nil {
		return nil, err
	}

	factory, err := frame.NewFactory(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	r.monitor.RegisterCleanup(factory.DropPool)

	compositor := overlay.NewCompositor(cfg.Width, cfg.Height, cfg.SafeZone)
	for _, o := range plan.Overlays {
		timed := overlay.Timed{Start: o.Start, Duration: o.Duration, Layer: o.Build(cfg)}
		if err := compositor.Add(timed); err != nil {
			return nil, err
		}
	}

	// Stale output from an earlier failed attempt would confuse the
	// validator.
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %v", validate.ErrExportSessionUncreatable, err)
	}

	bitrate := encode.CalculateOptimalBitrate(cfg.TargetFileSize, seq.Duration(), cfg.MaxBitrate)
	quality := encode.QualityForBudget(encode.FrameByteBudget(bitrate, cfg.FPS))

	muxer, err := r.newMuxer(outPath, cfg.Width, cfg.Height, cfg.FPS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", validate.ErrExportSessionUncreatable, err)
	}

	encoder := encode.NewEncoder(muxer, quality,
		encode.WithMonitor(r.monitor),
		encode.WithProgress(func(phase encode.State, done, total int) {
			fraction := float64(done) / float64(total)
			mem := r.monitor.Usage()
			switch phase {
			case encode.StatePreRendering:
				reporter.Report(render.PhaseRenderingFrames, fraction, &mem)
				// Crossfade blending and overlay drawing happen inside
				// frame production; surface those phases once every
				// frame exists.
				if done == total {
					reporter.Report(render.PhaseCompositing, 1, &mem)
					reporter.Report(render.PhaseAddingOverlays, 1, &mem)
				}
			case encode.StateWriting:
				reporter.Report(render.PhaseEncoding, fraction, &mem)
			}
		}))

	renderFrame := func(i int) (*frame.Buffer, error) {
		return r.composeFrame(seq, plan, processed, factory, compositor, cfg, i)
	}

	encCtx := ctx
	var cancel context.CancelFunc
	if cfg.MaxRenderTime > 0 {
		encCtx, cancel = context.WithTimeout(ctx, cfg.MaxRenderTime)
		defer cancel()
	}

	if err := encoder.Encode(encCtx, seq.FrameCount(), renderFrame); err != nil {
		if errors.Is(encCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: budget %v", validate.ErrRenderTimeExceeded, cfg.MaxRenderTime)
		}
		return nil, err
	}

	reporter.Report(render.PhaseFinalizing, 0, nil)
	validator := validate.NewValidator(cfg.MaxDuration, cfg.MaxFileSize, cfg.FPS)
	if err := validator.Validate(outPath); err != nil {
		return nil, err
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", validate.ErrExportFailed, err)
	}
	reporter.Report(render.PhaseFinalizing, 1, nil)

	return &Result{
		Path:       outPath,
		Duration:   seq.Duration(),
		FrameCount: seq.FrameCount(),
		FileSize:   info.Size(),
		Config:     cfg,
	}, nil
}

// prepareAssets runs each track item's static filters over its source
// image once, so per-frame work is limited to geometry and blending.
func (r *Renderer) prepareAssets(ctx context.Context, plan *render.Plan, reporter *render.Reporter) ([]image.Image, error) {
	pipeline := filter.NewPipeline(r.registry)
	processed := make([]image.Image, len(plan.Items))
	for i, item := range plan.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := pipeline.Apply(item.Source, item.Filters)
		if err != nil {
			return nil, fmt.Errorf("preparing segment %d: %w", i, err)
		}
		processed[i] = img
		reporter.Report(render.PhasePreparingAssets, float64(i+1)/float64(len(plan.Items)), nil)
	}
	return processed, nil
}

// composeFrame builds the fully composited buffer for one output frame:
// segment lookup, motion transform, crossfade blend, then overlays.
func (r *Renderer) composeFrame(seq *frame.Sequencer, plan *render.Plan, processed []image.Image, factory *frame.Factory, compositor *overlay.Compositor, cfg render.Config, i int) (*frame.Buffer, error) {
	spec := seq.FrameAt(i)

	buf, err := r.segmentBuffer(seq, plan, processed, factory, cfg, spec.Segment, spec.PresentationTime)
	if err != nil {
		return nil, err
	}

	if spec.Next >= 0 {
		next, err := r.segmentBuffer(seq, plan, processed, factory, cfg, spec.Next, spec.PresentationTime)
		if err != nil {
			return nil, err
		}
		buf, err = frame.Blend(buf, next, spec.Blend)
		if err != nil {
			return nil, err
		}
	}

	if compositor.Count() > 0 {
		compositeOverlays(buf, compositor, spec.PresentationTime)
	}
	return buf, nil
}

// segmentBuffer renders one segment's processed image at the given
// presentation time, with its motion specs resolved for that instant.
func (r *Renderer) segmentBuffer(seq *frame.Sequencer, plan *render.Plan, processed []image.Image, factory *frame.Factory, cfg render.Config, segment int, at time.Duration) (*frame.Buffer, error) {
	item := plan.Items[segment]
	seg := seq.Segments()[segment]

	progress := 0.0
	if seg.Duration > 0 {
		progress = float64(at-seg.Start) / float64(seg.Duration)
	}

	transform := motionTransform(item.Transform, item.Filters, progress, cfg)
	return factory.FromImage(processed[segment], transform)
}

// compositeOverlays draws the active overlays onto the buffer in place.
// The buffer round-trips through RGBA because layers draw with the
// standard image APIs.
func compositeOverlays(buf *frame.Buffer, compositor *overlay.Compositor, at time.Duration) {
	canvas := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	// BGRA → RGBA
	for i := 0; i < len(buf.Pix); i += 4 {
		canvas.Pix[i] = buf.Pix[i+2]
		canvas.Pix[i+1] = buf.Pix[i+1]
		canvas.Pix[i+2] = buf.Pix[i]
		canvas.Pix[i+3] = buf.Pix[i+3]
	}

	compositor.Composite(canvas, at)

	// RGBA → BGRA
	for i := 0; i < len(canvas.Pix); i += 4 {
		buf.Pix[i] = canvas.Pix[i+2]
		buf.Pix[i+1] = canvas.Pix[i+1]
		buf.Pix[i+2] = canvas.Pix[i]
		buf.Pix[i+3] = canvas.Pix[i+3]
	}
}
