package frame

import (
	"fmt"
	"image"
	"sync"

	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
)

// Buffer is one fully decoded video frame in BGRA8 byte order, ready
// for direct submission to the encoder.
type Buffer struct {
	Width  int
	Height int
	Stride int
	Pix    []byte

	pooled bool
}

// Transform is the per-frame geometric spec resolved from a track
// item's motion filters: a Ken Burns zoom factor plus pan offsets
// expressed as fractions of the available slack.
type Transform struct {
	Zoom float64 // 1.0 = no zoom
	PanX float64 // -1..1, fraction of horizontal slack
	PanY float64 // -1..1, fraction of vertical slack
}

// Identity is the no-motion transform.
var Identity = Transform{Zoom: 1.0}

// Factory produces pixel buffers at a fixed output geometry.
//
// The internal pool serves single-shot conversions only. Batch
// pre-rendering must use FromImage, which always allocates, because the
// asynchronous muxer may still hold earlier submissions when a pooled
// buffer would be reused.
type Factory struct {
	width  int
	height int

	mu     sync.Mutex
	pool   *sync.Pool
	newBuf func() interface{}
}

// NewFactory creates a buffer factory for the given output dimensions.
func NewFactory(width, height int) (*Factory, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBufferAllocFailed, width, height)
	}

	f := &Factory{width: width, height: height}
	f.newBuf = func() interface{} {
		return &Buffer{
			Width:  width,
			Height: height,
			Stride: width * 4,
			Pix:    make([]byte, width*height*4),
			pooled: true,
		}
	}
	f.pool = &sync.Pool{New: f.newBuf}

	logrus.WithFields(logrus.Fields{
		"function": "NewFactory",
		"width":    width,
		"height":   height,
	}).Debug("Pixel buffer factory created")

	return f, nil
}

// FromImage renders the image into a freshly allocated BGRA buffer,
// aspect-filling the target geometry with the given transform. Safe for
// batch pre-rendering; never touches the pool.
func (f *Factory) FromImage(img image.Image, transform Transform) (*Buffer, error) {
	buf := &Buffer{
		Width:  f.width,
		Height: f.height,
		Stride: f.width * 4,
		Pix:    make([]byte, f.width*f.height*4),
	}
	if err := f.fill(buf, img, transform); err != nil {
		return nil, err
	}
	return buf, nil
}

// Convert renders the image into a pooled buffer for single-shot use.
// The caller must Release the buffer as soon as the consumer is done
// with it, and must not hand it to an asynchronous writer.
func (f *Factory) Convert(img image.Image, transform Transform) (*Buffer, error) {
	buf := f.currentPool().Get().(*Buffer)
	if err := f.fill(buf, img, transform); err != nil {
		f.currentPool().Put(buf)
		return nil, err
	}
	return buf, nil
}

// Release returns a pooled buffer to the pool. Buffers from FromImage
// are ignored; they belong to the garbage collector.
func (f *Factory) Release(buf *Buffer) {
	if buf == nil || !buf.pooled {
		return
	}
	f.currentPool().Put(buf)
}

// DropPool discards pooled buffers. Registered with the memory monitor
// as a cleanup hook; the next Convert repopulates the pool on demand.
func (f *Factory) DropPool() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pool = &sync.Pool{New: f.newBuf}
}

func (f *Factory) currentPool() *sync.Pool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pool
}

// fill scales the source into the buffer and swizzles RGBA to BGRA.
func (f *Factory) fill(buf *Buffer, img image.Image, transform Transform) error {
	if img == nil {
		return fmt.Errorf("%w: nil source image", ErrImageDecodeFailed)
	}
	srcBounds := img.Bounds()
	if srcBounds.Dx() == 0 || srcBounds.Dy() == 0 {
		return fmt.Errorf("%w: empty source image", ErrImageDecodeFailed)
	}

	srcRect := sampleRect(srcBounds, f.width, f.height, transform)

	canvas := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), img, srcRect, xdraw.Src, nil)

	// RGBA → BGRA
	for i := 0; i < len(canvas.Pix); i += 4 {
		buf.Pix[i] = canvas.Pix[i+2]
		buf.Pix[i+1] = canvas.Pix[i+1]
		buf.Pix[i+2] = canvas.Pix[i]
		buf.Pix[i+3] = canvas.Pix[i+3]
	}
	return nil
}

// sampleRect computes the source rectangle that aspect-fills the target
// geometry under the transform's zoom and pan.
func sampleRect(src image.Rectangle, dstW, dstH int, transform Transform) image.Rectangle {
	zoom := transform.Zoom
	if zoom < 1.0 {
		zoom = 1.0
	}

	srcW := float64(src.Dx())
	srcH := float64(src.Dy())
	dstAspect := float64(dstW) / float64(dstH)

	// Largest centered crop matching the destination aspect ratio.
	cropW := srcW
	cropH := cropW / dstAspect
	if cropH > srcH {
		cropH = srcH
		cropW = cropH * dstAspect
	}

	// Zoom narrows the crop; pan moves it within the remaining slack.
	cropW /= zoom
	cropH /= zoom

	slackX := (srcW - cropW) / 2
	slackY := (srcH - cropH) / 2
	cx := float64(src.Min.X) + srcW/2 + clampUnit(transform.PanX)*slackX
	cy := float64(src.Min.Y) + srcH/2 + clampUnit(transform.PanY)*slackY

	return image.Rect(
		int(cx-cropW/2), int(cy-cropH/2),
		int(cx+cropW/2), int(cy+cropH/2),
	)
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Blend mixes two buffers of identical geometry: weight 0 returns the
// current frame's pixels unmodified, weight 1 the next frame's. The
// result is always a distinct allocation, safe for batch pre-rendering.
func Blend(current, next *Buffer, weight float64) (*Buffer, error) {
	if current == nil || next == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrBufferMismatch)
	}
	if current.Width != next.Width || current.Height != next.Height || current.Stride != next.Stride {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d",
			ErrBufferMismatch, current.Width, current.Height, next.Width, next.Height)
	}

	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}

	out := &Buffer{
		Width:  current.Width,
		Height: current.Height,
		Stride: current.Stride,
		Pix:    make([]byte, len(current.Pix)),
	}
	for i := range current.Pix {
		out.Pix[i] = uint8(float64(current.Pix[i])*(1-weight) + float64(next.Pix[i])*weight)
	}
	return out, nil
}
