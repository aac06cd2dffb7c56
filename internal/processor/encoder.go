package processor

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

const (
	wavHeaderSize  = 44 // canonical RIFF header, no extension chunks
	riffSizeLead   = 36 // bytes the RIFF size field counts besides the data chunk body
	fmtChunkSize   = 16 // PCM fmt chunk payload
	pcmFormatTag   = 1  // uncompressed integer PCM
	bytesPerSample = 2
	bitsPerSample  = 16
)

// EncodingError reports a buffer the encoder cannot represent.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode failed: %s", e.Reason)
}

// pcm16 converts one float sample to 16-bit PCM. Values are clamped to
// [-1, 1], then scaled asymmetrically so -1 maps to -32768 and +1 to
// 32767, truncating toward zero.
func pcm16(s float32) int16 {
	f := float64(s)
	if f > 1 {
		f = 1
	} else if f < -1 {
		f = -1
	}
	if f < 0 {
		return int16(f * 0x8000)
	}
	return int16(f * 0x7FFF)
}

// EncodeWAV serialises the buffer as a canonical 44-byte-header WAV
// with 16-bit little-endian interleaved PCM.
//
// The output is deterministic and lossless with respect to 16-bit
// quantisation: encoding the same buffer twice yields identical bytes,
// and decoding recovers every sample to within one quantisation step.
func EncodeWAV(buf audio.Buffer) ([]byte, error) {
	channels := buf.NumChannels()
	if channels == 0 {
		return nil, &EncodingError{Reason: "no channels"}
	}
	if buf.SampleRate <= 0 {
		return nil, &EncodingError{Reason: fmt.Sprintf("sample rate %d is not positive", buf.SampleRate)}
	}
	if buf.FrameCount < 0 {
		return nil, &EncodingError{Reason: fmt.Sprintf("negative frame count %d", buf.FrameCount)}
	}
	for i, ch := range buf.Channels {
		if len(ch) != buf.FrameCount {
			return nil, &EncodingError{Reason: fmt.Sprintf("channel %d has %d samples, expected %d", i, len(ch), buf.FrameCount)}
		}
	}

	dataSize := buf.FrameCount * channels * bytesPerSample
	out := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataSize))

	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(riffSizeLead+dataSize))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(out, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(out, binary.LittleEndian, uint16(pcmFormatTag))
	binary.Write(out, binary.LittleEndian, uint16(channels))
	binary.Write(out, binary.LittleEndian, uint32(buf.SampleRate))
	binary.Write(out, binary.LittleEndian, uint32(buf.SampleRate*channels*bytesPerSample)) // byte rate
	binary.Write(out, binary.LittleEndian, uint16(channels*bytesPerSample))                // block align
	binary.Write(out, binary.LittleEndian, uint16(bitsPerSample))
	out.WriteString("data")
	binary.Write(out, binary.LittleEndian, uint32(dataSize))

	interleaved := make([]int16, buf.FrameCount*channels)
	for f := 0; f < buf.FrameCount; f++ {
		base := f * channels
		for c := 0; c < channels; c++ {
			interleaved[base+c] = pcm16(buf.Channels[c][f])
		}
	}
	binary.Write(out, binary.LittleEndian, interleaved)

	return out.Bytes(), nil
}
