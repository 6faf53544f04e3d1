package encode

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cameronsaddress/SnapChef-sub002/frame"
	"github.com/cameronsaddress/SnapChef-sub002/memguard"
)

// fakeMuxer records submitted frames in order.
type fakeMuxer struct {
	mu       sync.Mutex
	frames   [][]byte
	closed   bool
	addErr   error
	closeErr error
	addDelay time.Duration
}

func (m *fakeMuxer) AddFrame(data []byte) error {
	if m.addDelay > 0 {
		time.Sleep(m.addDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	m.frames = append(m.frames, data)
	return nil
}

func (m *fakeMuxer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.closeErr
}

func (m *fakeMuxer) frameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

func testBuffer() *frame.Buffer {
	const w, h = 8, 8
	return &frame.Buffer{Width: w, Height: h, Stride: w * 4, Pix: make([]byte, w*h*4)}
}

func renderSolid(index int) (*frame.Buffer, error) {
	buf := testBuffer()
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = byte(index * 7) // vary per frame
		buf.Pix[i+3] = 255
	}
	return buf, nil
}

func TestEncodeWritesEveryFrameInOrder(t *testing.T) {
	muxer := &fakeMuxer{}
	enc := NewEncoder(muxer, 75)

	const total = 45
	if err := enc.Encode(context.Background(), total, renderSolid); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if muxer.frameCount() != total {
		t.Errorf("Muxed %d frames, want %d", muxer.frameCount(), total)
	}
	if !muxer.closed {
		t.Error("Muxer was not finalized")
	}
	if enc.State() != StateFinished {
		t.Errorf("State = %v, want finished", enc.State())
	}
}

func TestEncodeSingleUse(t *testing.T) {
	enc := NewEncoder(&fakeMuxer{}, 75)
	if err := enc.Encode(context.Background(), 3, renderSolid); err != nil {
		t.Fatalf("First Encode failed: %v", err)
	}
	err := enc.Encode(context.Background(), 3, renderSolid)
	if !errors.Is(err, ErrCannotStartWriting) {
		t.Errorf("Expected ErrCannotStartWriting, got %v", err)
	}
}

func TestEncodeRenderFailure(t *testing.T) {
	muxer := &fakeMuxer{}
	enc := NewEncoder(muxer, 75)

	renderErr := errors.New("decode blew up")
	err := enc.Encode(context.Background(), 10, func(index int) (*frame.Buffer, error) {
		if index == 4 {
			return nil, renderErr
		}
		return renderSolid(index)
	})
	if !errors.Is(err, renderErr) {
		t.Fatalf("Expected render error to surface, got %v", err)
	}
	if enc.State() != StateFailed {
		t.Errorf("State = %v, want failed", enc.State())
	}
	if muxer.frameCount() != 0 {
		t.Error("No frames should reach the muxer when pre-rendering fails")
	}
}

func TestEncodeMuxerFailure(t *testing.T) {
	diskFull := errors.New("disk full")
	muxer := &fakeMuxer{addErr: diskFull}
	enc := NewEncoder(muxer, 75)

	err := enc.Encode(context.Background(), 5, renderSolid)
	if !errors.Is(err, diskFull) {
		t.Fatalf("Expected write failure, got %v", err)
	}
	if enc.State() != StateFailed {
		t.Errorf("State = %v, want failed", enc.State())
	}
}

func TestEncodeCancellationWinsOnce(t *testing.T) {
	// Slow the writer down so cancellation lands mid-write; the
	// cancelled outcome must stick even after the writer goroutine
	// later tries to resolve.
	muxer := &fakeMuxer{addDelay: 20 * time.Millisecond}
	enc := NewEncoder(muxer, 75)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := enc.Encode(ctx, 60, renderSolid)
	if !errors.Is(err, ErrEncodingCancelled) {
		t.Fatalf("Expected ErrEncodingCancelled, got %v", err)
	}
	if enc.State() != StateCancelled {
		t.Errorf("State = %v, want cancelled", enc.State())
	}

	// Give the writer time to notice and exit; state must not change.
	time.Sleep(100 * time.Millisecond)
	if enc.State() != StateCancelled {
		t.Errorf("State changed after resolution: %v", enc.State())
	}
}

func TestEncodeMemoryPressureAborts(t *testing.T) {
	// A 1-byte threshold makes every check unsafe, and with no cleanup
	// able to help the encode must abort with the memory sentinel.
	monitor := memguard.NewMonitor(1)
	enc := NewEncoder(&fakeMuxer{}, 75, WithMonitor(monitor))

	err := enc.Encode(context.Background(), 90, renderSolid)
	if !errors.Is(err, memguard.ErrMemoryLimitExceeded) {
		t.Fatalf("Expected ErrMemoryLimitExceeded, got %v", err)
	}
}

func TestEncodeProgressReported(t *testing.T) {
	var mu sync.Mutex
	var writes []int
	enc := NewEncoder(&fakeMuxer{}, 75, WithProgress(func(phase State, done, total int) {
		if phase == StateWriting {
			mu.Lock()
			writes = append(writes, done)
			mu.Unlock()
		}
	}))

	const total = 75
	if err := enc.Encode(context.Background(), total, renderSolid); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(writes) == 0 {
		t.Fatal("No writing progress reported")
	}
	if writes[len(writes)-1] != total {
		t.Errorf("Final progress = %d, want %d", writes[len(writes)-1], total)
	}
	for i := 1; i < len(writes); i++ {
		if writes[i] <= writes[i-1] {
			t.Errorf("Progress not increasing: %v", writes)
		}
	}
}

func TestCompressFrameRoundTrip(t *testing.T) {
	buf, err := renderSolid(3)
	if err != nil {
		t.Fatal(err)
	}
	data, err := CompressFrame(buf, 80)
	if err != nil {
		t.Fatalf("CompressFrame failed: %v", err)
	}
	// JPEG SOI marker.
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("Output is not a JPEG stream")
	}
}

func TestCompressFrameNilBuffer(t *testing.T) {
	if _, err := CompressFrame(nil, 80); !errors.Is(err, ErrFrameWriteFailed) {
		t.Errorf("Expected ErrFrameWriteFailed, got %v", err)
	}
}
