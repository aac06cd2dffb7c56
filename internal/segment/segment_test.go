package segment

import (
	"encoding/base64"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
	"github.com/facundoinfinure/youtubenews-sub001/internal/processor"
)

// wavDecoder serves tests with the native WAV parser, standing in for
// the ffmpeg-backed decoder.
type wavDecoder struct{}

func (wavDecoder) Decode(compressed []byte) (audio.Buffer, error) {
	return audio.DecodeWAV(compressed)
}

// brokenDecoder hands back an invalid buffer without erroring.
type brokenDecoder struct{}

func (brokenDecoder) Decode([]byte) (audio.Buffer, error) {
	return audio.Buffer{}, nil
}

// captureRenderer records every chain it is asked to render.
type captureRenderer struct {
	mu     sync.Mutex
	chains [][]processor.EQStage
}

func (r *captureRenderer) RenderChain(buf audio.Buffer, stages []processor.EQStage) (audio.Buffer, error) {
	r.mu.Lock()
	r.chains = append(r.chains, stages)
	r.mu.Unlock()
	return buf.Clone(), nil
}

// sinePayload builds a base64 WAV of a 440Hz mono sine at the given
// peak amplitude.
func sinePayload(t *testing.T, amp, seconds float64) string {
	t.Helper()

	const rate = 44100
	frames := int(seconds * rate)
	buf := audio.NewBuffer(1, rate, frames)
	for i := range buf.Channels[0] {
		buf.Channels[0][i] = float32(amp * math.Sin(2*math.Pi*440*float64(i)/rate))
	}

	wav, err := processor.EncodeWAV(buf)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	return base64.StdEncoding.EncodeToString(wav)
}

func TestProcessSegment(t *testing.T) {
	p := NewProcessor(wavDecoder{}, nil, processor.DefaultPipelineConfig())

	result := p.ProcessSegment(Segment{ID: "seg-1", Audio: sinePayload(t, 0.1, 1.0)})

	if result.Err != nil {
		t.Fatalf("Err = %v", result.Err)
	}
	if result.ID != "seg-1" {
		t.Errorf("ID = %q, want seg-1", result.ID)
	}
	if !strings.HasPrefix(result.Audio, "data:audio/wav;base64,") {
		t.Errorf("Audio does not carry the wav data URI prefix: %.40q", result.Audio)
	}
	if !result.Normalised {
		t.Error("Normalised = false, want true")
	}
	if result.DurationSeconds != 1.0 {
		t.Errorf("DurationSeconds = %f, want 1.0", result.DurationSeconds)
	}
	// Normalised to -16 LUFS: RMS sits at -15.31 dBFS and the sine's
	// 3.01 dB crest factor puts the peak at -12.30 dBFS.
	if math.Abs(result.PeakDB-(-12.30)) > 0.1 {
		t.Errorf("PeakDB = %.2f, want -12.30", result.PeakDB)
	}
	if math.Abs(result.RMSDB-(-15.31)) > 0.1 {
		t.Errorf("RMSDB = %.2f, want -15.31", result.RMSDB)
	}
	if result.Diagnostics == nil || result.Diagnostics.Normalisation == nil {
		t.Error("Diagnostics missing normalisation record")
	}

	// The emitted URI must decode back to a playable WAV
	wav, err := DecodePayload(result.Audio)
	if err != nil {
		t.Fatalf("DecodePayload(result) error = %v", err)
	}
	out, err := audio.DecodeWAV(wav)
	if err != nil {
		t.Fatalf("DecodeWAV(result) error = %v", err)
	}
	if out.SampleRate != 44100 || out.NumChannels() != 1 || out.FrameCount != 44100 {
		t.Errorf("output geometry: %d ch %d Hz %d frames", out.NumChannels(), out.SampleRate, out.FrameCount)
	}
}

func TestProcessSegmentDataURIInput(t *testing.T) {
	p := NewProcessor(wavDecoder{}, nil, processor.DefaultPipelineConfig())
	payload := "data:audio/wav;base64," + sinePayload(t, 0.1, 0.25)

	result := p.ProcessSegment(Segment{ID: "seg-uri", Audio: payload})

	if result.Err != nil {
		t.Fatalf("Err = %v", result.Err)
	}
	if result.DurationSeconds != 0.25 {
		t.Errorf("DurationSeconds = %f, want 0.25", result.DurationSeconds)
	}
}

func TestProcessSegmentVoicePreset(t *testing.T) {
	renderer := &captureRenderer{}
	p := NewProcessor(wavDecoder{}, renderer, processor.DefaultPipelineConfig())

	result := p.ProcessSegment(Segment{ID: "v", Audio: sinePayload(t, 0.1, 0.25), Voice: "female"})
	if result.Err != nil {
		t.Fatalf("Err = %v", result.Err)
	}

	// Default chain renders the high-pass first, then the preset.
	if len(renderer.chains) != 2 {
		t.Fatalf("renderer saw %d chains, want 2", len(renderer.chains))
	}
	if !reflect.DeepEqual(renderer.chains[1], processor.VoicePreset(processor.VoiceFemale)) {
		t.Errorf("eq chain = %v, want female preset", renderer.chains[1])
	}
}

func TestProcessSegmentUnknownVoiceSkipsEQ(t *testing.T) {
	renderer := &captureRenderer{}
	p := NewProcessor(wavDecoder{}, renderer, processor.DefaultPipelineConfig())

	result := p.ProcessSegment(Segment{ID: "v", Audio: sinePayload(t, 0.1, 0.25), Voice: "narrator"})
	if result.Err != nil {
		t.Fatalf("Err = %v", result.Err)
	}

	if len(renderer.chains) != 1 {
		t.Fatalf("renderer saw %d chains, want high-pass only", len(renderer.chains))
	}
}

func TestProcessSegmentErrors(t *testing.T) {
	goodPayload := sinePayload(t, 0.1, 0.1)

	tests := []struct {
		name    string
		p       *Processor
		seg     Segment
		wantErr any
	}{
		{
			name:    "bad base64",
			p:       NewProcessor(wavDecoder{}, nil, processor.DefaultPipelineConfig()),
			seg:     Segment{ID: "x", Audio: "!!!"},
			wantErr: new(*audio.DecodeError),
		},
		{
			name:    "payload is not audio",
			p:       NewProcessor(wavDecoder{}, nil, processor.DefaultPipelineConfig()),
			seg:     Segment{ID: "x", Audio: base64.StdEncoding.EncodeToString([]byte("just text"))},
			wantErr: new(*audio.DecodeError),
		},
		{
			name:    "decoder returns malformed buffer",
			p:       NewProcessor(brokenDecoder{}, nil, processor.DefaultPipelineConfig()),
			seg:     Segment{ID: "x", Audio: goodPayload},
			wantErr: new(*audio.InvalidBufferError),
		},
		{
			name:    "no decoder configured",
			p:       NewProcessor(nil, nil, processor.DefaultPipelineConfig()),
			seg:     Segment{ID: "x", Audio: goodPayload},
			wantErr: new(*audio.DecodeError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.p.ProcessSegment(tt.seg)
			if result.Err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.As(result.Err, tt.wantErr) {
				t.Errorf("error = %v (%T), want %T", result.Err, result.Err, tt.wantErr)
			}
			if result.Audio != "" {
				t.Error("failed segment still produced audio")
			}
		})
	}
}

func TestProcessBatchKeepsOrderAndIsolation(t *testing.T) {
	p := NewProcessor(wavDecoder{}, nil, processor.DefaultPipelineConfig())

	segments := []Segment{
		{ID: "a", Audio: sinePayload(t, 0.1, 0.25)},
		{ID: "b", Audio: "!!!bad!!!"},
		{ID: "c", Audio: sinePayload(t, 0.2, 0.25)},
		{ID: "d", Audio: base64.StdEncoding.EncodeToString([]byte("not a wav"))},
	}

	results := p.ProcessBatch(segments, nil)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, want := range []string{"a", "b", "c", "d"} {
		if results[i].ID != want {
			t.Errorf("results[%d].ID = %q, want %q", i, results[i].ID, want)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("good segments failed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil || results[3].Err == nil {
		t.Error("bad segments did not record their errors")
	}
	if results[0].Audio == "" || results[2].Audio == "" {
		t.Error("good segments missing audio despite failed siblings")
	}
}

func TestProcessBatchProgress(t *testing.T) {
	p := NewProcessor(wavDecoder{}, nil, processor.DefaultPipelineConfig())

	segments := []Segment{
		{ID: "a", Audio: sinePayload(t, 0.1, 0.1)},
		{ID: "b", Audio: "!!!"},
		{ID: "c", Audio: sinePayload(t, 0.1, 0.1)},
	}

	var mu sync.Mutex
	seen := map[int][]string{}

	p.ProcessBatch(segments, func(segmentIndex int, stage string, completed, total int) {
		mu.Lock()
		seen[segmentIndex] = append(seen[segmentIndex], stage)
		mu.Unlock()
	})

	// Only the segments that reached the pipeline report progress.
	if len(seen[0]) == 0 || len(seen[2]) == 0 {
		t.Errorf("missing progress for good segments: %v", seen)
	}
	if len(seen[1]) != 0 {
		t.Errorf("failed segment reported pipeline progress: %v", seen[1])
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	p := NewProcessor(wavDecoder{}, nil, processor.DefaultPipelineConfig())

	results := p.ProcessBatch(nil, nil)

	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
