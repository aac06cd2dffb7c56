package processor

import (
	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// StageType tags one variant of spectral shaping stage.
type StageType string

const (
	StageLowShelf  StageType = "lowshelf"
	StagePeaking   StageType = "peaking"
	StageHighShelf StageType = "highshelf"
	StageHighPass  StageType = "highpass"
	StageNotch     StageType = "notch"
)

// EQStage describes one link of the spectral shaping chain. Which
// fields are meaningful depends on Type: shelves use Frequency and
// GainDB, peaking uses all three, high-pass uses Frequency (Q optional,
// Butterworth when zero), notch uses Frequency and Q.
type EQStage struct {
	Type      StageType `json:"type"`
	Frequency float64   `json:"frequency"`        // Hz
	GainDB    float64   `json:"gainDb,omitempty"` // boost/cut
	Q         float64   `json:"q,omitempty"`      // bandwidth
}

// LowShelf boosts or cuts everything below freq.
func LowShelf(freq, gainDB float64) EQStage {
	return EQStage{Type: StageLowShelf, Frequency: freq, GainDB: gainDB}
}

// Peaking boosts or cuts a band centred on freq with width set by q.
func Peaking(freq, gainDB, q float64) EQStage {
	return EQStage{Type: StagePeaking, Frequency: freq, GainDB: gainDB, Q: q}
}

// HighShelf boosts or cuts everything above freq.
func HighShelf(freq, gainDB float64) EQStage {
	return EQStage{Type: StageHighShelf, Frequency: freq, GainDB: gainDB}
}

// HighPass removes content below freq with a second-order Butterworth
// rolloff.
func HighPass(freq float64) EQStage {
	return EQStage{Type: StageHighPass, Frequency: freq}
}

// Notch cuts a narrow band centred on freq; higher q means narrower.
func Notch(freq, q float64) EQStage {
	return EQStage{Type: StageNotch, Frequency: freq, Q: q}
}

// ChainRenderer is the host capability that turns an ordered stage list
// into filtered audio. The shaper owns composition and ordering only;
// filter math lives behind this interface so hosts can substitute their
// own engine. BiquadRenderer is the native implementation.
type ChainRenderer interface {
	RenderChain(buf audio.Buffer, stages []EQStage) (audio.Buffer, error)
}

// Voice preset identifiers accepted on segment requests.
const (
	VoiceMale   = "male"
	VoiceFemale = "female"
)

// Preset tunables. Frequencies sit around typical speech fundamentals
// and presence bands for each register.
const (
	maleLowShelfFreq  = 100.0  // Hz - warmth under the male fundamental
	maleLowShelfGain  = 2.0    // dB
	malePresenceFreq  = 2000.0 // Hz - articulation band
	malePresenceGain  = 3.0    // dB
	malePresenceQ     = 1.5
	maleHighShelfFreq = 8000.0 // Hz - air
	maleHighShelfGain = 1.0    // dB

	femaleLowShelfFreq  = 150.0   // Hz - warmth under the female fundamental
	femaleLowShelfGain  = 1.0     // dB
	femalePresenceFreq  = 3000.0  // Hz - articulation band
	femalePresenceGain  = 4.0     // dB
	femalePresenceQ     = 1.5
	femaleHighShelfFreq = 10000.0 // Hz - air
	femaleHighShelfGain = 2.0     // dB

	humNotchQ        = 30.0 // narrow enough to leave speech untouched
	humHarmonicCount = 4    // fundamental plus three harmonics
)

// VoicePreset returns the shaping chain for a voice register, or nil
// when voice is empty or unrecognised (the chain is simply skipped).
func VoicePreset(voice string) []EQStage {
	switch voice {
	case VoiceMale:
		return []EQStage{
			LowShelf(maleLowShelfFreq, maleLowShelfGain),
			Peaking(malePresenceFreq, malePresenceGain, malePresenceQ),
			HighShelf(maleHighShelfFreq, maleHighShelfGain),
		}
	case VoiceFemale:
		return []EQStage{
			LowShelf(femaleLowShelfFreq, femaleLowShelfGain),
			Peaking(femalePresenceFreq, femalePresenceGain, femalePresenceQ),
			HighShelf(femaleHighShelfFreq, femaleHighShelfGain),
		}
	default:
		return nil
	}
}

// HumNotchStages builds notch stages for a mains hum fundamental and
// its harmonics, skipping any harmonic at or above the Nyquist limit.
func HumNotchStages(fundamental float64, sampleRate int) []EQStage {
	if fundamental <= 0 {
		return nil
	}
	nyquist := float64(sampleRate) / 2
	stages := make([]EQStage, 0, humHarmonicCount)
	for i := 1; i <= humHarmonicCount; i++ {
		freq := fundamental * float64(i)
		if freq >= nyquist {
			break
		}
		stages = append(stages, Notch(freq, humNotchQ))
	}
	return stages
}
