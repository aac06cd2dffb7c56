// Package audio defines the sample buffer value type shared by every
// processing stage, plus the decoding capability for compressed payloads.
package audio

import (
	"fmt"
)

// Buffer holds decoded PCM audio as planar float32 channels.
//
// Samples are nominally in [-1, 1] but intermediate stages may exceed
// that range transiently; only the limiter and the PCM encoder clamp.
// Buffers are treated as immutable: stages allocate a new Buffer rather
// than writing into their input.
type Buffer struct {
	Channels   [][]float32 // one slice per channel, planar
	SampleRate int         // Hz
	FrameCount int         // samples per channel
}

// NewBuffer allocates a zeroed buffer with the given geometry.
func NewBuffer(channels, sampleRate, frameCount int) Buffer {
	chs := make([][]float32, channels)
	for i := range chs {
		chs[i] = make([]float32, frameCount)
	}
	return Buffer{Channels: chs, SampleRate: sampleRate, FrameCount: frameCount}
}

// NumChannels returns the channel count.
func (b Buffer) NumChannels() int {
	return len(b.Channels)
}

// Duration returns the buffer length in seconds.
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.FrameCount) / float64(b.SampleRate)
}

// Clone returns a deep copy. Stages clone their input to produce output
// without aliasing the caller's channel data.
func (b Buffer) Clone() Buffer {
	out := Buffer{
		Channels:   make([][]float32, len(b.Channels)),
		SampleRate: b.SampleRate,
		FrameCount: b.FrameCount,
	}
	for i, ch := range b.Channels {
		out.Channels[i] = make([]float32, len(ch))
		copy(out.Channels[i], ch)
	}
	return out
}

// Validate checks buffer geometry before any level math runs, so a
// malformed buffer is rejected up front instead of producing NaN in a
// ratio or mean downstream.
func (b Buffer) Validate() error {
	if len(b.Channels) == 0 {
		return &InvalidBufferError{Reason: "no channels"}
	}
	if b.SampleRate <= 0 {
		return &InvalidBufferError{Reason: fmt.Sprintf("sample rate %d is not positive", b.SampleRate)}
	}
	if b.FrameCount <= 0 {
		return &InvalidBufferError{Reason: fmt.Sprintf("frame count %d is not positive", b.FrameCount)}
	}
	for i, ch := range b.Channels {
		if len(ch) != b.FrameCount {
			return &InvalidBufferError{Reason: fmt.Sprintf("channel %d has %d samples, expected %d", i, len(ch), b.FrameCount)}
		}
	}
	return nil
}

// InvalidBufferError reports buffer geometry that would poison level
// measurements: missing channels, zero sample counts, length mismatches.
type InvalidBufferError struct {
	Reason string
}

func (e *InvalidBufferError) Error() string {
	return fmt.Sprintf("invalid buffer: %s", e.Reason)
}
