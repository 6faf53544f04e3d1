package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/icza/mjpeg"
	"github.com/sirupsen/logrus"

	"github.com/cameronsaddress/SnapChef-sub002/frame"
)

// Muxer writes compressed frames into a video container. Frames must be
// added in presentation order; Close finalizes the container exactly
// once.
type Muxer interface {
	AddFrame(jpegData []byte) error
	Close() error
}

// AVIMuxer wraps the streaming motion-JPEG writer. It satisfies Muxer.
type AVIMuxer struct {
	writer mjpeg.AviWriter
	path   string
}

// NewAVIMuxer opens an AVI container at the given path for streaming
// writes.
func NewAVIMuxer(path string, width, height, fps int) (*AVIMuxer, error) {
	writer, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewAVIMuxer",
			"path":     path,
			"error":    err.Error(),
		}).Error("Failed to create AVI writer")
		return nil, fmt.Errorf("%w: %v", ErrCannotAddInput, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewAVIMuxer",
		"path":     path,
		"width":    width,
		"height":   height,
		"fps":      fps,
	}).Info("AVI muxer created")

	return &AVIMuxer{writer: writer, path: path}, nil
}

// AddFrame appends one compressed frame to the container.
func (m *AVIMuxer) AddFrame(jpegData []byte) error {
	if err := m.writer.AddFrame(jpegData); err != nil {
		return fmt.Errorf("%w: %v", ErrFrameWriteFailed, err)
	}
	return nil
}

// Close writes the container index and trailer.
func (m *AVIMuxer) Close() error {
	if err := m.writer.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrFinalizeFailed, err)
	}
	logrus.WithFields(logrus.Fields{
		"function": "Close",
		"path":     m.path,
	}).Debug("AVI container finalized")
	return nil
}

// CompressFrame encodes a BGRA pixel buffer as JPEG at the given
// quality.
func CompressFrame(buf *frame.Buffer, quality int) ([]byte, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrFrameWriteFailed)
	}
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	// BGRA → RGBA
	for i := 0; i < len(buf.Pix); i += 4 {
		img.Pix[i] = buf.Pix[i+2]
		img.Pix[i+1] = buf.Pix[i+1]
		img.Pix[i+2] = buf.Pix[i]
		img.Pix[i+3] = buf.Pix[i+3]
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameWriteFailed, err)
	}
	return out.Bytes(), nil
}
