// Package processor implements the voice post-processing chain: level
// measurement, spectral shaping, noise gating, loudness normalisation,
// limiting, and PCM encoding. Every stage is a pure function over an
// immutable sample buffer.
package processor

import (
	"math"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

const (
	// lufsRmsOffset aligns the whole-buffer RMS estimate with the
	// BS.1770 measurement origin. The result stays an approximation:
	// no K-weighting filter, no gating blocks. Good enough to steer
	// gain for speech, not a compliance meter.
	lufsRmsOffset = 0.691
)

// RMS returns the root mean square level pooled across all channels,
// in linear scale. An empty buffer measures 0, so converting to dB
// yields -Inf rather than NaN; callers reject empty buffers up front
// via Validate.
func RMS(buf audio.Buffer) float64 {
	var sumSquares float64
	var count int
	for _, ch := range buf.Channels {
		for _, s := range ch {
			sumSquares += float64(s) * float64(s)
		}
		count += len(ch)
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sumSquares / float64(count))
}

// Peak returns the maximum absolute sample value across all channels,
// in linear scale. An empty buffer measures 0.
func Peak(buf audio.Buffer) float64 {
	var peak float64
	for _, ch := range buf.Channels {
		for _, s := range ch {
			if abs := math.Abs(float64(s)); abs > peak {
				peak = abs
			}
		}
	}
	return peak
}

// LinearToDB converts a linear amplitude to decibels (20·log10).
// Zero and negative amplitudes map to -Inf, never a panic, so silence
// flows through level math without special casing at call sites.
func LinearToDB(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(x)
}

// DBToLinear converts decibels to a linear amplitude (10^(db/20)).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// ApproximateLoudnessLUFS estimates integrated loudness from pooled RMS.
//
// The estimate is LinearToDB(RMS) minus the 0.691 offset that aligns
// RMS of a 997 Hz sine with its BS.1770 reading. It performs no
// K-weighting and no gating; for synthesized speech with steady levels
// the approximation tracks a real meter within about a dB, which is
// all the normaliser needs.
func ApproximateLoudnessLUFS(buf audio.Buffer) float64 {
	return LinearToDB(RMS(buf)) - lufsRmsOffset
}
