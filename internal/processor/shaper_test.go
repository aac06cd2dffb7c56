package processor

import (
	"encoding/json"
	"testing"
)

func TestVoicePresetMale(t *testing.T) {
	stages := VoicePreset(VoiceMale)

	want := []EQStage{
		{Type: StageLowShelf, Frequency: 100, GainDB: 2},
		{Type: StagePeaking, Frequency: 2000, GainDB: 3, Q: 1.5},
		{Type: StageHighShelf, Frequency: 8000, GainDB: 1},
	}

	if len(stages) != len(want) {
		t.Fatalf("VoicePreset(male) returned %d stages, want %d", len(stages), len(want))
	}
	for i, stage := range stages {
		if stage != want[i] {
			t.Errorf("stage %d = %+v, want %+v", i, stage, want[i])
		}
	}
}

func TestVoicePresetFemale(t *testing.T) {
	stages := VoicePreset(VoiceFemale)

	want := []EQStage{
		{Type: StageLowShelf, Frequency: 150, GainDB: 1},
		{Type: StagePeaking, Frequency: 3000, GainDB: 4, Q: 1.5},
		{Type: StageHighShelf, Frequency: 10000, GainDB: 2},
	}

	if len(stages) != len(want) {
		t.Fatalf("VoicePreset(female) returned %d stages, want %d", len(stages), len(want))
	}
	for i, stage := range stages {
		if stage != want[i] {
			t.Errorf("stage %d = %+v, want %+v", i, stage, want[i])
		}
	}
}

func TestVoicePresetUnknown(t *testing.T) {
	for _, voice := range []string{"", "robot", "MALE"} {
		if got := VoicePreset(voice); got != nil {
			t.Errorf("VoicePreset(%q) = %v, want nil", voice, got)
		}
	}
}

func TestHumNotchStages(t *testing.T) {
	tests := []struct {
		name        string
		fundamental float64
		sampleRate  int
		wantFreqs   []float64
	}{
		{"50Hz mains", 50, 44100, []float64{50, 100, 150, 200}},
		{"60Hz mains", 60, 44100, []float64{60, 120, 180, 240}},
		{"harmonics past nyquist", 3000, 16000, []float64{3000, 6000}},
		{"zero fundamental", 0, 44100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages := HumNotchStages(tt.fundamental, tt.sampleRate)
			if len(stages) != len(tt.wantFreqs) {
				t.Fatalf("got %d stages, want %d", len(stages), len(tt.wantFreqs))
			}
			for i, stage := range stages {
				if stage.Type != StageNotch {
					t.Errorf("stage %d type = %q, want notch", i, stage.Type)
				}
				if stage.Frequency != tt.wantFreqs[i] {
					t.Errorf("stage %d frequency = %f, want %f", i, stage.Frequency, tt.wantFreqs[i])
				}
				if stage.Q != 30.0 {
					t.Errorf("stage %d Q = %f, want 30", i, stage.Q)
				}
			}
		})
	}
}

func TestEQStageJSON(t *testing.T) {
	data, err := json.Marshal(Peaking(2000, 3, 1.5))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"type":"peaking","frequency":2000,"gainDb":3,"q":1.5}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	// Zero gain and Q stay off the wire
	data, err = json.Marshal(HighPass(80))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want = `{"type":"highpass","frequency":80}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
