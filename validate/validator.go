package validate

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultFPSTolerance is how far the container's nominal frame rate may
// drift from the configured rate before the export is rejected.
const DefaultFPSTolerance = 1.0

// Validator asserts post-encode invariants against hard thresholds.
type Validator struct {
	MaxDuration  time.Duration
	MaxFileSize  int64
	FPS          int
	FPSTolerance float64
}

// NewValidator creates a validator for the given output contract.
func NewValidator(maxDuration time.Duration, maxFileSize int64, fps int) *Validator {
	return &Validator{
		MaxDuration:  maxDuration,
		MaxFileSize:  maxFileSize,
		FPS:          fps,
		FPSTolerance: DefaultFPSTolerance,
	}
}

// Validate checks the finished output file. It returns the first
// violated invariant as its specific error kind; nil means the export
// may be published.
func (v *Validator) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	probe, err := ProbeFile(path)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Validate",
		"path":         path,
		"size_bytes":   info.Size(),
		"duration":     probe.Duration(),
		"fps":          probe.FPS(),
		"streams":      probe.Streams,
		"total_frames": probe.TotalFrames,
	}).Debug("Validating export")

	if d := probe.Duration(); d <= 0 || d > v.MaxDuration {
		return fmt.Errorf("%w: %v (max %v)", ErrDurationInvalid, d, v.MaxDuration)
	}
	if info.Size() > v.MaxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileSizeExceeded, info.Size(), v.MaxFileSize)
	}
	if !probe.HasVideoTrack() {
		return fmt.Errorf("%w: %d streams, %dx%d", ErrNoVideoTrack, probe.Streams, probe.Width, probe.Height)
	}
	if delta := math.Abs(probe.FPS() - float64(v.FPS)); delta > v.FPSTolerance {
		return fmt.Errorf("%w: container %0.2ffps, configured %dfps", ErrFrameRateMismatch, probe.FPS(), v.FPS)
	}

	return nil
}
