package processor

import (
	"math"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// GateRequest configures the noise gate.
type GateRequest struct {
	ThresholdDB float64 // open threshold, dBFS
	AttackMs    float64 // envelope rise time once open
	ReleaseMs   float64 // envelope fall time once closed
}

const (
	// gateHysteresisRatio sets the close threshold as a fraction of
	// the open threshold (linear domain). The gap keeps the gate from
	// chattering when speech hovers around the open level.
	gateHysteresisRatio = 0.5

	msPerSecond = 1000.0
)

type gateState int

const (
	gateClosed gateState = iota
	gateOpen
)

// ApplyGate runs a downward expander over the buffer and returns the
// gated copy.
//
// Detection is per channel, sample by sample. A closed gate opens when
// the instantaneous level rises above the threshold; an open gate
// closes only when the level falls below half the threshold. A one-pole
// envelope smooths the transitions so opening takes roughly AttackMs
// and closing roughly ReleaseMs; the output is the input scaled by the
// envelope. Every channel starts closed with the envelope at zero.
func ApplyGate(buf audio.Buffer, req GateRequest) audio.Buffer {
	out := buf.Clone()

	openThreshold := DBToLinear(req.ThresholdDB)
	closeThreshold := openThreshold * gateHysteresisRatio
	attackSamples := req.AttackMs / msPerSecond * float64(out.SampleRate)
	releaseSamples := req.ReleaseMs / msPerSecond * float64(out.SampleRate)

	for _, ch := range out.Channels {
		state := gateClosed
		level := 0.0
		for i, s := range ch {
			abs := math.Abs(float64(s))
			switch state {
			case gateClosed:
				if abs > openThreshold {
					state = gateOpen
				}
			case gateOpen:
				if abs < closeThreshold {
					state = gateClosed
				}
			}

			target := 0.0
			window := releaseSamples
			if state == gateOpen {
				target = 1.0
				window = attackSamples
			}
			if window < 1 {
				// Window shorter than one sample: snap instead of
				// overshooting the one-pole step.
				level = target
			} else {
				level += (target - level) / window
			}

			ch[i] = float32(float64(s) * level)
		}
	}
	return out
}
