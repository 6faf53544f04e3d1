package validate

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Probe holds the facts read from an AVI container's main header.
type Probe struct {
	MicroSecPerFrame uint32
	TotalFrames      uint32
	Streams          uint32
	Width            uint32
	Height           uint32
}

// FPS returns the container's nominal frame rate.
func (p Probe) FPS() float64 {
	if p.MicroSecPerFrame == 0 {
		return 0
	}
	return 1e6 / float64(p.MicroSecPerFrame)
}

// Duration returns the container's play time.
func (p Probe) Duration() time.Duration {
	return time.Duration(p.TotalFrames) * time.Duration(p.MicroSecPerFrame) * time.Microsecond
}

// HasVideoTrack reports whether the header declares at least one
// stream with non-zero geometry.
func (p Probe) HasVideoTrack() bool {
	return p.Streams >= 1 && p.Width > 0 && p.Height > 0
}

// ProbeFile parses the RIFF/AVI main header ('avih' inside the 'hdrl'
// list) of the file at path.
func ProbeFile(path string) (Probe, error) {
	f, err := os.Open(path)
	if err != nil {
		return Probe{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	defer f.Close()
	return readProbe(f)
}

// readProbe parses the container header from a reader positioned at the
// start of the file.
func readProbe(r io.Reader) (Probe, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Probe{}, fmt.Errorf("%w: truncated RIFF header: %v", ErrExportFailed, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "AVI " {
		return Probe{}, fmt.Errorf("%w: not an AVI container", ErrExportFailed)
	}

	// Walk top-level chunks until the hdrl list turns up.
	for {
		id, size, err := readChunkHeader(r)
		if err != nil {
			return Probe{}, fmt.Errorf("%w: no hdrl list found: %v", ErrExportFailed, err)
		}

		if id == "LIST" {
			var listType [4]byte
			if _, err := io.ReadFull(r, listType[:]); err != nil {
				return Probe{}, fmt.Errorf("%w: truncated list: %v", ErrExportFailed, err)
			}
			if string(listType[:]) == "hdrl" {
				return readMainHeader(io.LimitReader(r, int64(size)-4))
			}
			if err := skip(r, int64(size)-4); err != nil {
				return Probe{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
			}
			continue
		}

		if err := skip(r, chunkAdvance(size)); err != nil {
			return Probe{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
	}
}

// readMainHeader scans a hdrl list body for the avih chunk.
func readMainHeader(r io.Reader) (Probe, error) {
	for {
		id, size, err := readChunkHeader(r)
		if err != nil {
			return Probe{}, fmt.Errorf("%w: no avih chunk in hdrl: %v", ErrExportFailed, err)
		}
		if id != "avih" {
			if err := skip(r, chunkAdvance(size)); err != nil {
				return Probe{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
			}
			continue
		}

		// avih layout: 14 little-endian uint32 fields.
		if size < 40 {
			return Probe{}, fmt.Errorf("%w: avih chunk too small (%d bytes)", ErrExportFailed, size)
		}
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return Probe{}, fmt.Errorf("%w: truncated avih: %v", ErrExportFailed, err)
		}

		le := binary.LittleEndian
		return Probe{
			MicroSecPerFrame: le.Uint32(body[0:4]),
			TotalFrames:      le.Uint32(body[16:20]),
			Streams:          le.Uint32(body[24:28]),
			Width:            le.Uint32(body[32:36]),
			Height:           le.Uint32(body[36:40]),
		}, nil
	}
}

// readChunkHeader reads a four-byte chunk id and its little-endian
// size.
func readChunkHeader(r io.Reader) (string, uint32, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return "", 0, err
	}
	return string(hdr[0:4]), binary.LittleEndian.Uint32(hdr[4:8]), nil
}

// chunkAdvance returns the number of bytes to skip past a chunk body,
// honoring RIFF's word alignment.
func chunkAdvance(size uint32) int64 {
	n := int64(size)
	if n%2 == 1 {
		n++
	}
	return n
}

// skip discards n bytes from the reader.
func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, n)
	return err
}
