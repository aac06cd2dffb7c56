package processor

import (
	"math"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// NormalisationRequest carries the gain and dynamics targets for one
// buffer. The zero value is not useful; start from
// DefaultPipelineConfig and override fields.
type NormalisationRequest struct {
	TargetLoudnessLUFS     float64 // integrated loudness target
	TruePeakLimitDB        float64 // hard ceiling, dBFS
	ApplyCompression       bool    // engage the downward compressor after gain
	CompressionRatio       float64 // n:1 above the threshold
	CompressionThresholdDB float64 // compressor knee point, dBFS
}

// NormalisationResult reports what the stage measured and did, for the
// report layer and the UI.
type NormalisationResult struct {
	InputLoudnessLUFS  float64 // loudness before any gain (LUFS)
	OutputLoudnessLUFS float64 // loudness after limiting (LUFS)
	InputPeakDB        float64 // peak before any gain (dBFS)
	OutputPeakDB       float64 // peak after limiting (dBFS)
	GainAppliedDB      float64 // effective gain after the headroom cap (dB)
	PeakLimited        bool    // headroom cap cut the gain below the loudness target
	Compressed         bool    // compression branch ran
	LimiterEngaged     bool    // at least one sample hit the ceiling
	Skipped            bool    // silence guard fired; no gain applied
}

// calculateEffectiveGain works out how much gain a buffer can take.
//
// Strategy: the desired gain closes the gap to the loudness target; the
// available headroom is the distance from the measured peak to the hard
// ceiling. The smaller of the two wins, so loudness targeting can never
// push a peak past the ceiling. Digital silence measures -Inf loudness
// and -Inf peak, which makes both terms non-finite; the stage then
// applies no gain at all rather than multiplying by infinity.
//
// Parameters:
//   - currentLoudness: measured loudness before gain (LUFS)
//   - currentPeak: measured peak before gain (dBFS)
//   - targetLoudness: loudness target (LUFS)
//   - peakLimit: hard ceiling (dBFS)
//
// Returns:
//   - gainDB: gain to apply (dB)
//   - peakLimited: the ceiling, not the target, set the gain
//   - skipped: silence guard fired and gainDB is zero
func calculateEffectiveGain(currentLoudness, currentPeak, targetLoudness, peakLimit float64) (gainDB float64, peakLimited, skipped bool) {
	desired := targetLoudness - currentLoudness
	headroom := peakLimit - currentPeak

	if math.IsNaN(desired) || math.IsInf(desired, 0) ||
		math.IsNaN(headroom) || math.IsInf(headroom, 0) {
		return 0, false, true
	}

	if headroom < desired {
		return headroom, true, false
	}
	return desired, false, false
}

// compressSample applies the ratio above the threshold in the linear
// domain, preserving sign. Samples at or below the threshold pass
// through untouched.
func compressSample(s, threshold, ratio float64) float64 {
	abs := math.Abs(s)
	if abs <= threshold {
		return s
	}
	compressed := threshold + (abs-threshold)/ratio
	return math.Copysign(compressed, s)
}

// limitPeaks clamps every sample past the ceiling to exactly the
// ceiling, preserving sign. Reports whether any sample was touched.
func limitPeaks(ch []float32, ceiling float64) bool {
	engaged := false
	for i, s := range ch {
		if math.Abs(float64(s)) > ceiling {
			ch[i] = float32(math.Copysign(ceiling, float64(s)))
			engaged = true
		}
	}
	return engaged
}

// ApplyNormalisation brings the buffer to the loudness target without
// breaching the peak ceiling, optionally compressing on the way.
//
// Order of operations:
//  1. Measure loudness and peak.
//  2. Gain = min(target - loudness, ceiling - peak): peak safety wins
//     over the loudness target.
//  3. Apply the gain as a linear multiplier.
//  4. Optionally compress everything above the threshold.
//  5. Hard limit at the ceiling. This step never skips: whatever the
//     earlier steps did, no sample leaves above the ceiling.
//
// The stage is pure: same buffer and request, same output. The input
// buffer is never written to.
func ApplyNormalisation(buf audio.Buffer, req NormalisationRequest) (audio.Buffer, NormalisationResult) {
	result := NormalisationResult{
		InputLoudnessLUFS: ApproximateLoudnessLUFS(buf),
		InputPeakDB:       LinearToDB(Peak(buf)),
	}

	gainDB, peakLimited, skipped := calculateEffectiveGain(
		result.InputLoudnessLUFS, result.InputPeakDB,
		req.TargetLoudnessLUFS, req.TruePeakLimitDB)
	result.GainAppliedDB = gainDB
	result.PeakLimited = peakLimited
	result.Skipped = skipped

	out := buf.Clone()

	if gainDB != 0 {
		gain := DBToLinear(gainDB)
		for _, ch := range out.Channels {
			for i := range ch {
				ch[i] = float32(float64(ch[i]) * gain)
			}
		}
	}

	if req.ApplyCompression {
		threshold := DBToLinear(req.CompressionThresholdDB)
		ratio := clamp(req.CompressionRatio, compressionRatioMin, compressionRatioMax)
		for _, ch := range out.Channels {
			for i, s := range ch {
				ch[i] = float32(compressSample(float64(s), threshold, ratio))
			}
		}
		result.Compressed = true
	}

	ceiling := DBToLinear(req.TruePeakLimitDB)
	for _, ch := range out.Channels {
		if limitPeaks(ch, ceiling) {
			result.LimiterEngaged = true
		}
	}

	result.OutputLoudnessLUFS = ApproximateLoudnessLUFS(out)
	result.OutputPeakDB = LinearToDB(Peak(out))
	return out, result
}
