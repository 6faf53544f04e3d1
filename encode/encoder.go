package encode

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/memguard"
)

// memoryCheckInterval is how many frames are pre-rendered between
// memory pressure checks.
const memoryCheckInterval = 30

// State is the encoder lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePreRendering
	StateWriting
	StateFinished
	StateFailed
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreRendering:
		return "pre_rendering"
	case StateWriting:
		return "writing"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// RenderFrame produces the fully composited buffer for one frame index.
// Buffers must be distinct allocations; the encoder hands them to an
// asynchronous writer.
type RenderFrame func(index int) (*frame.Buffer, error)

// ProgressFunc receives frame-level progress, split into the
// pre-rendering and writing phases.
type ProgressFunc func(phase State, done, total int)

// Encoder drives frames through compression into a muxer.
type Encoder struct {
	muxer   Muxer
	quality int
	monitor *memguard.Monitor

	onProgress ProgressFunc

	mu       sync.Mutex
	state    State
	resolved bool
	result   error
	done     chan struct{}
}

// EncoderOption adjusts encoder construction.
type EncoderOption func(*Encoder)

// WithMonitor attaches a memory monitor consulted during pre-rendering.
func WithMonitor(m *memguard.Monitor) EncoderOption {
	return func(e *Encoder) { e.monitor = m }
}

// WithProgress registers a frame-level progress callback.
func WithProgress(fn ProgressFunc) EncoderOption {
	return func(e *Encoder) { e.onProgress = fn }
}

// NewEncoder creates an encoder writing into the given muxer at the
// given JPEG quality.
func NewEncoder(muxer Muxer, quality int, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		muxer:   muxer,
		quality: quality,
		state:   StateIdle,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Encoder) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Encode pre-renders totalFrames frames via render, then writes them to
// the muxer on a background goroutine. It blocks until the first
// completion outcome: writer finished, writer failed, or context
// cancelled. The encoder is single use.
func (e *Encoder) Encode(ctx context.Context, totalFrames int, render RenderFrame) error {
	e.mu.Lock()
	if e.state != StateIdle {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: encoder is %s", ErrCannotStartWriting, state)
	}
	e.state = StatePreRendering
	e.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":     "Encode",
		"total_frames": totalFrames,
	}).Info("Starting encode")

	buffers, err := e.preRender(ctx, totalFrames, render)
	if err != nil {
		e.resolve(StateFailed, err)
		return e.wait()
	}

	e.mu.Lock()
	e.state = StateWriting
	e.mu.Unlock()

	go e.writeLoop(buffers)

	select {
	case <-ctx.Done():
		e.resolve(StateCancelled, fmt.Errorf("%w: %v", ErrEncodingCancelled, ctx.Err()))
	case <-e.done:
	}
	return e.wait()
}

// preRender materializes every frame up front so the writer never
// blocks on composition. Memory pressure is checked every
// memoryCheckInterval frames.
func (e *Encoder) preRender(ctx context.Context, totalFrames int, render RenderFrame) ([]*frame.Buffer, error) {
	buffers := make([]*frame.Buffer, 0, totalFrames)
	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncodingCancelled, err)
		}

		if e.monitor != nil && i > 0 && i%memoryCheckInterval == 0 {
			if !e.monitor.IsSafe() && !e.monitor.ForceCleanup() {
				logrus.WithFields(logrus.Fields{
					"function": "preRender",
					"frame":    i,
				}).Error("Memory pressure persists after cleanup")
				return nil, fmt.Errorf("pre-rendering frame %d: %w", i, memguard.ErrMemoryLimitExceeded)
			}
			e.report(StatePreRendering, i, totalFrames)
		}

		buf, err := render(i)
		if err != nil {
			return nil, fmt.Errorf("pre-rendering frame %d: %w", i, err)
		}
		buffers = append(buffers, buf)
	}
	e.report(StatePreRendering, totalFrames, totalFrames)
	return buffers, nil
}

// writeLoop pulls buffers in presentation order, compresses them, and
// submits them to the muxer. It resolves the encoder when done.
func (e *Encoder) writeLoop(buffers []*frame.Buffer) {
	total := len(buffers)
	for i, buf := range buffers {
		if e.isResolved() {
			return
		}

		data, err := CompressFrame(buf, e.quality)
		if err != nil {
			e.resolve(StateFailed, fmt.Errorf("frame %d: %w", i, err))
			return
		}
		if err := e.muxer.AddFrame(data); err != nil {
			e.resolve(StateFailed, fmt.Errorf("frame %d: %w", i, err))
			return
		}
		buffers[i] = nil

		if (i+1)%memoryCheckInterval == 0 || i+1 == total {
			e.report(StateWriting, i+1, total)
		}
	}

	if err := e.muxer.Close(); err != nil {
		e.resolve(StateFailed, err)
		return
	}
	e.resolve(StateFinished, nil)
}

// resolve records the first completion outcome; later calls are
// ignored.
func (e *Encoder) resolve(state State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resolved {
		logrus.WithFields(logrus.Fields{
			"function": "resolve",
			"state":    state.String(),
			"ignored":  true,
		}).Debug("Duplicate completion ignored")
		return
	}
	e.resolved = true
	e.state = state
	e.result = err
	close(e.done)

	logrus.WithFields(logrus.Fields{
		"function": "resolve",
		"state":    state.String(),
	}).Info("Encoder resolved")
}

func (e *Encoder) isResolved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolved
}

// wait blocks until resolution and returns the recorded outcome.
func (e *Encoder) wait() error {
	<-e.done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

func (e *Encoder) report(phase State, done, total int) {
	if e.onProgress != nil {
		e.onProgress(phase, done, total)
	}
}
