package processor

import (
	"math"
	"testing"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// TestBufferOptions configures the synthetic audio to generate
type TestBufferOptions struct {
	DurationSecs float64 // Total duration in seconds (default: 1.0)
	SampleRate   int     // Sample rate (default: 44100)
	Channels     int     // Channel count (default: 1)
	ToneFreq     float64 // Sine wave frequency in Hz (0 = no tone)
	ToneLevel    float64 // Tone level in dBFS (e.g., -20.0)
	NoiseLevel   float64 // White noise level in dBFS (0 = no noise, -60 = quiet noise)
	SilenceGap   struct {
		Start    float64 // Start time of silence gap in seconds
		Duration float64 // Duration of silence gap in seconds
	}
}

// generateTestBuffer creates a synthetic in-memory buffer for testing.
// The audio can include a sine wave tone, white noise, and a silence
// gap. Noise comes from a fixed-seed LCG, so every call with the same
// options yields identical samples.
func generateTestBuffer(t *testing.T, opts TestBufferOptions) audio.Buffer {
	t.Helper()

	// Set defaults
	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.DurationSecs == 0 {
		opts.DurationSecs = 1.0
	}
	if opts.Channels == 0 {
		opts.Channels = 1
	}

	totalSamples := int(opts.DurationSecs * float64(opts.SampleRate))
	buf := audio.NewBuffer(opts.Channels, opts.SampleRate, totalSamples)

	// Convert dBFS to linear amplitude
	toneAmp := 0.0
	if opts.ToneFreq > 0 && opts.ToneLevel < 0 {
		toneAmp = math.Pow(10.0, opts.ToneLevel/20.0)
	}
	noiseAmp := 0.0
	if opts.NoiseLevel < 0 {
		noiseAmp = math.Pow(10.0, opts.NoiseLevel/20.0)
	}

	// Calculate silence gap sample range
	silenceStart := int(opts.SilenceGap.Start * float64(opts.SampleRate))
	silenceEnd := int((opts.SilenceGap.Start + opts.SilenceGap.Duration) * float64(opts.SampleRate))

	// Simple LCG random number generator for deterministic noise
	// (avoids importing math/rand and seeding complexity)
	rngState := uint32(12345)
	nextRandom := func() float64 {
		// LCG parameters from Numerical Recipes
		rngState = rngState*1664525 + 1013904223
		// Convert to -1.0 to 1.0 range
		return (float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0
	}

	for i := 0; i < totalSamples; i++ {
		// Leave the silence gap at digital zero
		if i >= silenceStart && i < silenceEnd && opts.SilenceGap.Duration > 0 {
			continue
		}

		var sample float64

		if toneAmp > 0 {
			at := float64(i) / float64(opts.SampleRate)
			sample += toneAmp * math.Sin(2.0*math.Pi*opts.ToneFreq*at)
		}

		if noiseAmp > 0 {
			sample += noiseAmp * nextRandom()
		}

		for c := 0; c < opts.Channels; c++ {
			buf.Channels[c][i] = float32(sample)
		}
	}

	return buf
}

// constantBuffer builds a mono buffer where every sample holds value.
func constantBuffer(t *testing.T, value float32, sampleRate, frames int) audio.Buffer {
	t.Helper()

	buf := audio.NewBuffer(1, sampleRate, frames)
	for i := range buf.Channels[0] {
		buf.Channels[0][i] = value
	}
	return buf
}

// buffersEqual reports whether two buffers hold identical samples.
func buffersEqual(a, b audio.Buffer) bool {
	if a.SampleRate != b.SampleRate || a.FrameCount != b.FrameCount || len(a.Channels) != len(b.Channels) {
		return false
	}
	for c := range a.Channels {
		for i := range a.Channels[c] {
			if a.Channels[c][i] != b.Channels[c][i] {
				return false
			}
		}
	}
	return true
}
