package processor

import (
	"math"
	"strings"
	"testing"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// tailRMS measures the RMS of the second half of channel 0, past any
// filter transient.
func tailRMS(buf audio.Buffer) float64 {
	half := buf.FrameCount / 2
	tail := audio.Buffer{
		Channels:   [][]float32{buf.Channels[0][half:]},
		SampleRate: buf.SampleRate,
		FrameCount: buf.FrameCount - half,
	}
	return RMS(tail)
}

// gainAtFrequency renders a single stage over a sine at freq and
// returns the steady-state gain in dB.
func gainAtFrequency(t *testing.T, stage EQStage, freq float64) float64 {
	t.Helper()

	in := generateTestBuffer(t, TestBufferOptions{
		DurationSecs: 1.0,
		ToneFreq:     freq,
		ToneLevel:    -20.0,
	})

	out, err := BiquadRenderer{}.RenderChain(in, []EQStage{stage})
	if err != nil {
		t.Fatalf("RenderChain() error = %v", err)
	}

	return LinearToDB(tailRMS(out)) - LinearToDB(tailRMS(in))
}

func TestHighPassResponse(t *testing.T) {
	// A second-order Butterworth high-pass at 80 Hz attenuates 30 Hz
	// by roughly 17 dB while leaving 1 kHz untouched.
	if got := gainAtFrequency(t, HighPass(80), 30); got > -14.0 {
		t.Errorf("gain at 30 Hz = %.2f dB, want below -14 dB", got)
	}
	if got := gainAtFrequency(t, HighPass(80), 1000); math.Abs(got) > 0.2 {
		t.Errorf("gain at 1 kHz = %.2f dB, want ~0 dB", got)
	}
}

func TestPeakingGainAtCentre(t *testing.T) {
	if got := gainAtFrequency(t, Peaking(1000, 6.0, 1.5), 1000); math.Abs(got-6.0) > 0.3 {
		t.Errorf("gain at centre = %.2f dB, want 6 dB", got)
	}
}

func TestPeakingCut(t *testing.T) {
	if got := gainAtFrequency(t, Peaking(1000, -6.0, 1.5), 1000); math.Abs(got+6.0) > 0.3 {
		t.Errorf("gain at centre = %.2f dB, want -6 dB", got)
	}
}

func TestNotchRemovesCentreFrequency(t *testing.T) {
	if got := gainAtFrequency(t, Notch(1000, 30.0), 1000); got > -30.0 {
		t.Errorf("gain at centre = %.2f dB, want below -30 dB", got)
	}
}

func TestLowShelfResponse(t *testing.T) {
	// Well below the corner the shelf applies its full gain, well
	// above it the response returns to unity.
	if got := gainAtFrequency(t, LowShelf(200, 6.0), 50); math.Abs(got-6.0) > 0.4 {
		t.Errorf("gain at 50 Hz = %.2f dB, want 6 dB", got)
	}
	if got := gainAtFrequency(t, LowShelf(200, 6.0), 5000); math.Abs(got) > 0.3 {
		t.Errorf("gain at 5 kHz = %.2f dB, want ~0 dB", got)
	}
}

func TestHighShelfResponse(t *testing.T) {
	if got := gainAtFrequency(t, HighShelf(2000, 6.0), 8000); math.Abs(got-6.0) > 0.4 {
		t.Errorf("gain at 8 kHz = %.2f dB, want 6 dB", got)
	}
	if got := gainAtFrequency(t, HighShelf(2000, 6.0), 100); math.Abs(got) > 0.3 {
		t.Errorf("gain at 100 Hz = %.2f dB, want ~0 dB", got)
	}
}

func TestRenderChainPreservesInput(t *testing.T) {
	in := generateTestBuffer(t, TestBufferOptions{
		ToneFreq:  440.0,
		ToneLevel: -20.0,
	})
	want := in.Clone()

	if _, err := (BiquadRenderer{}).RenderChain(in, VoicePreset(VoiceMale)); err != nil {
		t.Fatalf("RenderChain() error = %v", err)
	}

	if !buffersEqual(in, want) {
		t.Error("RenderChain() modified its input buffer")
	}
}

func TestRenderChainEmptyChain(t *testing.T) {
	in := generateTestBuffer(t, TestBufferOptions{
		ToneFreq:  440.0,
		ToneLevel: -20.0,
	})

	out, err := BiquadRenderer{}.RenderChain(in, nil)
	if err != nil {
		t.Fatalf("RenderChain() error = %v", err)
	}
	if !buffersEqual(in, out) {
		t.Error("empty chain altered samples")
	}
}

func TestRenderChainStageErrors(t *testing.T) {
	buf := generateTestBuffer(t, TestBufferOptions{DurationSecs: 0.1})

	tests := []struct {
		name    string
		stage   EQStage
		wantSub string
	}{
		{"zero frequency", EQStage{Type: StagePeaking, Frequency: 0, GainDB: 3, Q: 1}, "frequency"},
		{"negative frequency", EQStage{Type: StageHighPass, Frequency: -10}, "frequency"},
		{"at nyquist", EQStage{Type: StageHighPass, Frequency: 22050}, "frequency"},
		{"peaking without Q", EQStage{Type: StagePeaking, Frequency: 1000, GainDB: 3}, "q"},
		{"notch without Q", EQStage{Type: StageNotch, Frequency: 1000}, "q"},
		{"unknown type", EQStage{Type: "comb", Frequency: 1000}, "comb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BiquadRenderer{}.RenderChain(buf, []EQStage{tt.stage})
			if err == nil {
				t.Fatal("RenderChain() expected error, got nil")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestRenderChainIndependentChannelState(t *testing.T) {
	// Filter state must not leak between channels: a stereo buffer
	// with identical channels stays identical after rendering.
	mono := generateTestBuffer(t, TestBufferOptions{
		ToneFreq:  440.0,
		ToneLevel: -20.0,
	})
	stereo := audio.NewBuffer(2, mono.SampleRate, mono.FrameCount)
	copy(stereo.Channels[0], mono.Channels[0])
	copy(stereo.Channels[1], mono.Channels[0])

	out, err := BiquadRenderer{}.RenderChain(stereo, []EQStage{Peaking(1000, 4.0, 1.5)})
	if err != nil {
		t.Fatalf("RenderChain() error = %v", err)
	}

	for i := range out.Channels[0] {
		if out.Channels[0][i] != out.Channels[1][i] {
			t.Fatalf("channels diverged at sample %d: %f vs %f", i, out.Channels[0][i], out.Channels[1][i])
		}
	}
}
