package audio

import (
	"encoding/binary"
	"fmt"
)

const wavFormatPCM = 1

// IsWAV reports whether the payload starts with a RIFF/WAVE signature.
// Used to route WAV payloads to the native parser instead of the
// general-purpose codec decoder.
func IsWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

// DecodeWAV parses a 16-bit PCM RIFF/WAVE payload into a planar buffer.
//
// The parser walks the chunk list rather than assuming the canonical
// 44-byte layout, so payloads with LIST/INFO or fact chunks between fmt
// and data still decode. Non-PCM format tags and bit depths other than
// 16 are rejected with a DecodeError naming the unsupported format.
func DecodeWAV(data []byte) (Buffer, error) {
	if !IsWAV(data) {
		return Buffer{}, &DecodeError{Reason: "not a RIFF/WAVE payload"}
	}

	var (
		fmtSeen       bool
		formatTag     uint16
		channels      int
		sampleRate    int
		bitsPerSample int
		pcm           []byte
		dataSeen      bool
	)

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			// Tolerate a declared size that overruns the payload
			// (common with streaming writers that never patch the
			// header); truncate to what is actually present.
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Buffer{}, &DecodeError{Reason: "fmt chunk too short"}
			}
			formatTag = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			fmtSeen = true
		case "data":
			if !fmtSeen {
				return Buffer{}, &DecodeError{Reason: "data chunk before fmt chunk"}
			}
			pcm = data[body : body+size]
			dataSeen = true
		}
		if dataSeen {
			break
		}

		// Chunks are word aligned; an odd size carries a pad byte.
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !fmtSeen {
		return Buffer{}, &DecodeError{Reason: "missing fmt chunk"}
	}
	if !dataSeen {
		return Buffer{}, &DecodeError{Reason: "missing data chunk"}
	}
	if formatTag != wavFormatPCM {
		return Buffer{}, &DecodeError{Reason: fmt.Sprintf("unsupported format tag %d (only PCM)", formatTag)}
	}
	if bitsPerSample != 16 {
		return Buffer{}, &DecodeError{Reason: fmt.Sprintf("unsupported bit depth %d (only 16)", bitsPerSample)}
	}
	if channels <= 0 || sampleRate <= 0 {
		return Buffer{}, &DecodeError{Reason: fmt.Sprintf("invalid geometry: %d channels at %d Hz", channels, sampleRate)}
	}

	frames := len(pcm) / (channels * 2)
	buf := NewBuffer(channels, sampleRate, frames)
	for f := 0; f < frames; f++ {
		base := f * channels * 2
		for c := 0; c < channels; c++ {
			raw := int16(binary.LittleEndian.Uint16(pcm[base+c*2 : base+c*2+2]))
			buf.Channels[c][f] = float32(raw) / 32768.0
		}
	}
	return buf, nil
}
