package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// wavBytes assembles a canonical RIFF/WAVE payload from interleaved
// 16-bit samples.
func wavBytes(t *testing.T, channels, sampleRate int, samples []int16) []byte {
	t.Helper()

	dataSize := len(samples) * 2
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

func TestDecodeWAVKnownSamples(t *testing.T) {
	payload := wavBytes(t, 1, 44100, []int16{0, 16384, -16384, 32767, -32768})

	buf, err := DecodeWAV(payload)
	if err != nil {
		t.Fatalf("DecodeWAV() failed: %v", err)
	}
	if buf.NumChannels() != 1 || buf.SampleRate != 44100 || buf.FrameCount != 5 {
		t.Fatalf("geometry = %d ch, %d Hz, %d frames; want 1 ch, 44100 Hz, 5 frames",
			buf.NumChannels(), buf.SampleRate, buf.FrameCount)
	}

	want := []float64{0, 0.5, -0.5, 32767.0 / 32768.0, -1.0}
	for i, w := range want {
		if got := float64(buf.Channels[0][i]); math.Abs(got-w) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestDecodeWAVDeinterleavesStereo(t *testing.T) {
	// Interleaved L R L R: left ramps up, right ramps down.
	payload := wavBytes(t, 2, 48000, []int16{100, -100, 200, -200, 300, -300})

	buf, err := DecodeWAV(payload)
	if err != nil {
		t.Fatalf("DecodeWAV() failed: %v", err)
	}
	if buf.NumChannels() != 2 || buf.FrameCount != 3 {
		t.Fatalf("geometry = %d ch, %d frames; want 2 ch, 3 frames", buf.NumChannels(), buf.FrameCount)
	}
	for i := 0; i < 3; i++ {
		wantL := float32(100*(i+1)) / 32768.0
		wantR := -wantL
		if buf.Channels[0][i] != wantL {
			t.Errorf("left[%d] = %v, want %v", i, buf.Channels[0][i], wantL)
		}
		if buf.Channels[1][i] != wantR {
			t.Errorf("right[%d] = %v, want %v", i, buf.Channels[1][i], wantR)
		}
	}
}

func TestDecodeWAVSkipsForeignChunks(t *testing.T) {
	canonical := wavBytes(t, 1, 44100, []int16{1000, 2000})

	// Splice a LIST chunk between fmt and data.
	var buf bytes.Buffer
	buf.Write(canonical[:36])
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(4))
	buf.WriteString("INFO")
	buf.Write(canonical[36:])
	payload := buf.Bytes()
	binary.LittleEndian.PutUint32(payload[4:8], uint32(len(payload)-8))

	decoded, err := DecodeWAV(payload)
	if err != nil {
		t.Fatalf("DecodeWAV() failed on payload with LIST chunk: %v", err)
	}
	if decoded.FrameCount != 2 {
		t.Errorf("FrameCount = %d, want 2", decoded.FrameCount)
	}
	if decoded.Channels[0][0] != float32(1000)/32768.0 {
		t.Errorf("first sample = %v, want %v", decoded.Channels[0][0], float32(1000)/32768.0)
	}
}

func TestDecodeWAVRejections(t *testing.T) {
	floatTag := wavBytes(t, 1, 44100, []int16{0})
	binary.LittleEndian.PutUint16(floatTag[20:22], 3) // IEEE float tag

	badDepth := wavBytes(t, 1, 44100, []int16{0})
	binary.LittleEndian.PutUint16(badDepth[34:36], 24)

	tests := []struct {
		name    string
		payload []byte
	}{
		{"not riff", []byte("ID3\x03rest of an mp3 payload goes here")},
		{"truncated header", []byte("RIFF\x00\x00")},
		{"float format tag", floatTag},
		{"24 bit depth", badDepth},
		{"missing data chunk", wavBytes(t, 1, 44100, nil)[:36]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWAV(tt.payload)
			if err == nil {
				t.Fatal("DecodeWAV() succeeded, want error")
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("error type = %T, want *DecodeError", err)
			}
		})
	}
}

func TestIsWAV(t *testing.T) {
	if !IsWAV(wavBytes(t, 1, 44100, []int16{0})) {
		t.Error("IsWAV() should accept a canonical payload")
	}
	if IsWAV([]byte("ID3\x03 not a wav")) {
		t.Error("IsWAV() should reject an MP3 payload")
	}
	if IsWAV(nil) {
		t.Error("IsWAV() should reject nil")
	}
}
