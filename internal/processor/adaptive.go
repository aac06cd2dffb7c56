package processor

import (
	"math"
)

const (
	// High-pass filter
	defaultHighpassFreq = 80.0 // Hz - rumble removal below the voice fundamental

	// Noise gate defaults and safety bounds
	defaultGateThresholdDB = -50.0 // dBFS - under quiet speech, over synthesis noise
	defaultGateAttackMs    = 5.0   // ms - fast enough to keep plosive onsets
	defaultGateReleaseMs   = 50.0  // ms - slow enough to avoid clipping word tails
	gateThresholdMinDB     = -70.0 // dBFS - professional studio floor
	gateThresholdMaxDB     = -25.0 // dBFS - never gate above this (would cut speech)

	// Gate offset above the measured noise floor, by floor quality
	gateOffsetClean   = 10.0 // dB - clean floor leaves room for a wide margin
	gateOffsetTypical = 8.0  // dB
	gateOffsetNoisy   = 6.0  // dB - tight margin keeps speech clear of the gate

	// Noise floor quality thresholds
	noiseFloorClean   = -60.0 // dBFS - very clean synthesis
	noiseFloorTypical = -50.0 // dBFS - typical TTS output

	// Loudness targets
	defaultTargetLUFS  = -16.0 // streaming speech target
	defaultPeakLimitDB = -1.5  // dBFS hard ceiling

	// Compression defaults and bounds
	defaultCompRatio     = 3.0   // gentle broadcast ratio
	defaultCompThreshold = -20.0 // dBFS knee
	compressionRatioMin  = 1.0   // below this the ratio maths inverts
	compressionRatioMax  = 20.0  // beyond this it is a limiter, not a compressor

	// Dynamic range thresholds for compression tuning
	compDynamicRangeHigh = 30.0 // dB - very dynamic delivery
	compDynamicRangeMod  = 20.0 // dB - moderately dynamic

	// Compression ratios by dynamic range class
	compRatioDynamic    = 2.0 // light touch preserves an expressive read
	compRatioModerate   = 3.0 // typical news read
	compRatioCompressed = 4.0 // already-dense audio can take more

	// Compression thresholds (dBFS) by dynamic range class
	compThresholdDynamic    = -16.0
	compThresholdModerate   = -18.0
	compThresholdCompressed = -20.0

	// Reverb placeholder tap
	defaultReverbDelayMs = 90.0 // ms - single tap
	defaultReverbMix     = 0.25 // wet fraction
)

// AdaptConfig tunes gate and compression parameters to the measured
// buffer and returns the adjusted config. The input config is not
// modified; callers that want reproducible output across inputs simply
// skip the call.
func AdaptConfig(config PipelineConfig, measurements *AudioMeasurements) PipelineConfig {
	if measurements == nil {
		return config
	}

	tuneGateThreshold(&config, measurements)
	tuneCompression(&config, measurements)

	// Final safety checks
	sanitizeConfig(&config)
	return config
}

// tuneGateThreshold sets the gate threshold a safe offset above the
// measured noise floor.
//
// Strategy:
// - Clean floor: wide 10dB margin, the gate sits well under speech
// - Typical floor: 8dB margin
// - Noisy floor: 6dB margin so the threshold stays clear of speech
func tuneGateThreshold(config *PipelineConfig, measurements *AudioMeasurements) {
	floor := measurements.NoiseFloorDB
	if math.IsNaN(floor) || math.IsInf(floor, 0) {
		// No usable floor estimate - keep the configured threshold
		return
	}

	var offset float64
	switch {
	case floor <= noiseFloorClean:
		offset = gateOffsetClean
	case floor <= noiseFloorTypical:
		offset = gateOffsetTypical
	default:
		offset = gateOffsetNoisy
	}

	config.Gate.ThresholdDB = clamp(floor+offset, gateThresholdMinDB, gateThresholdMaxDB)
}

// tuneCompression picks ratio and threshold from the measured dynamic
// range.
//
// Strategy:
// - Very dynamic: light 2:1 so the delivery survives
// - Moderate: stock 3:1
// - Dense: firmer 4:1, the material is already compressed
func tuneCompression(config *PipelineConfig, measurements *AudioMeasurements) {
	dynamicRange := measurements.DynamicRangeDB
	if dynamicRange <= 0 || math.IsNaN(dynamicRange) || math.IsInf(dynamicRange, 0) {
		return
	}

	switch {
	case dynamicRange > compDynamicRangeHigh:
		config.Normalisation.CompressionRatio = compRatioDynamic
		config.Normalisation.CompressionThresholdDB = compThresholdDynamic
	case dynamicRange > compDynamicRangeMod:
		config.Normalisation.CompressionRatio = compRatioModerate
		config.Normalisation.CompressionThresholdDB = compThresholdModerate
	default:
		config.Normalisation.CompressionRatio = compRatioCompressed
		config.Normalisation.CompressionThresholdDB = compThresholdCompressed
	}
}

// sanitizeConfig ensures no NaN or Inf values remain after adaptive tuning
func sanitizeConfig(config *PipelineConfig) {
	config.HighPassFreq = sanitizeFloat(config.HighPassFreq, defaultHighpassFreq)

	config.Gate.ThresholdDB = sanitizeFloat(config.Gate.ThresholdDB, defaultGateThresholdDB)
	config.Gate.AttackMs = sanitizeFloat(config.Gate.AttackMs, defaultGateAttackMs)
	config.Gate.ReleaseMs = sanitizeFloat(config.Gate.ReleaseMs, defaultGateReleaseMs)

	config.Normalisation.TargetLoudnessLUFS = sanitizeFloat(config.Normalisation.TargetLoudnessLUFS, defaultTargetLUFS)
	config.Normalisation.TruePeakLimitDB = sanitizeFloat(config.Normalisation.TruePeakLimitDB, defaultPeakLimitDB)
	config.Normalisation.CompressionRatio = clamp(
		sanitizeFloat(config.Normalisation.CompressionRatio, defaultCompRatio),
		compressionRatioMin, compressionRatioMax)
	config.Normalisation.CompressionThresholdDB = sanitizeFloat(config.Normalisation.CompressionThresholdDB, defaultCompThreshold)

	config.Reverb.DelayMs = sanitizeFloat(config.Reverb.DelayMs, defaultReverbDelayMs)
	config.Reverb.Mix = clamp(sanitizeFloat(config.Reverb.Mix, defaultReverbMix), 0, 1)
}

// sanitizeFloat returns defaultVal if val is NaN or Inf
func sanitizeFloat(val, defaultVal float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return defaultVal
	}
	return val
}

// clamp restricts val to the range [min, max]
func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
