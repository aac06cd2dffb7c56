package audio

import (
	"fmt"
)

// Decoder turns a compressed audio payload (MP3, WAV, AAC) into a
// sample buffer. Implementations live outside this package so codec
// internals never link into the processing path.
type Decoder interface {
	Decode(compressed []byte) (Buffer, error)
}

// DecodeError reports a payload the decoder could not turn into PCM.
// It is fatal for the segment carrying the payload and is never retried.
type DecodeError struct {
	Reason string // codec-level reason, e.g. "no audio stream found"
	Err    error  // underlying decoder error, if any
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode failed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
