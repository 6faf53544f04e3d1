package encode

import (
	"time"

	"github.com/sirupsen/logrus"
)

// MinBitrate is the floor below which output quality is unacceptable
// regardless of how small the size budget is.
const MinBitrate = 2_000_000 // 2 Mbps

// videoBudgetShare is the fraction of the size budget reserved for
// video; the remainder absorbs container overhead and the audio track.
const videoBudgetShare = 0.9

// CalculateOptimalBitrate derives a video bitrate that lands the output
// near targetBytes for the given duration, clamped to [MinBitrate,
// maxBitrate].
func CalculateOptimalBitrate(targetBytes int64, duration time.Duration, maxBitrate int) int {
	if duration <= 0 {
		return MinBitrate
	}

	bitrate := int(float64(targetBytes*8) / duration.Seconds() * videoBudgetShare)
	if bitrate < MinBitrate {
		bitrate = MinBitrate
	}
	if maxBitrate > 0 && bitrate > maxBitrate {
		bitrate = maxBitrate
	}

	logrus.WithFields(logrus.Fields{
		"function":     "CalculateOptimalBitrate",
		"target_bytes": targetBytes,
		"duration":     duration.String(),
		"bitrate":      bitrate,
	}).Debug("Calculated target bitrate")

	return bitrate
}

// FrameByteBudget converts a bitrate into the byte budget for a single
// frame at the given frame rate.
func FrameByteBudget(bitrate, fps int) int {
	if fps <= 0 {
		return 0
	}
	return bitrate / 8 / fps
}

// QualityForBudget maps a per-frame byte budget to a JPEG quality
// setting. The steps were tuned against 1080x1920 frames of typical
// food photography; intra-only compression at these qualities lands
// within a few percent of the budget.
func QualityForBudget(perFrameBytes int) int {
	switch {
	case perFrameBytes >= 120<<10:
		return 92
	case perFrameBytes >= 80<<10:
		return 85
	case perFrameBytes >= 48<<10:
		return 76
	case perFrameBytes >= 24<<10:
		return 64
	case perFrameBytes >= 12<<10:
		return 52
	default:
		return 40
	}
}
