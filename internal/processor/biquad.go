package processor

import (
	"fmt"
	"math"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// Native EQ rendering: an RBJ biquad cascade in Direct Form I. Each
// chain stage becomes one second-order section; sections run in chain
// order with independent filter memory per channel.

const (
	// butterworthQ gives the high-pass a maximally flat passband with
	// no resonant bump at the cutoff.
	butterworthQ = math.Sqrt2 / 2

	// shelfSlope 1.0 is the cookbook's steepest slope that stays
	// monotonic over frequency.
	shelfSlope = 1.0
)

// biquadCoeffs holds one section's coefficients, normalised by a0.
type biquadCoeffs struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// biquadState carries one channel's filter memory.
type biquadState struct {
	x1, x2 float64
	y1, y2 float64
}

// process advances the section by one sample.
func (s *biquadState) process(c biquadCoeffs, x float64) float64 {
	y := c.b0*x + c.b1*s.x1 + c.b2*s.x2 - c.a1*s.y1 - c.a2*s.y2
	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y
	return y
}

// coefficientsFor derives Audio EQ Cookbook coefficients for one stage.
//
// Shelf stages use slope 1. The high-pass defaults to a Butterworth Q
// when the stage leaves Q zero; peaking and notch stages need an
// explicit positive Q because it sets their bandwidth.
func coefficientsFor(stage EQStage, sampleRate int) (biquadCoeffs, error) {
	nyquist := float64(sampleRate) / 2
	if stage.Frequency <= 0 || stage.Frequency >= nyquist {
		return biquadCoeffs{}, fmt.Errorf("frequency %.1f Hz outside (0, %.1f)", stage.Frequency, nyquist)
	}

	w := 2 * math.Pi * stage.Frequency / float64(sampleRate)
	sinw := math.Sin(w)
	cosw := math.Cos(w)
	amp := math.Pow(10, stage.GainDB/40)

	var b0, b1, b2, a0, a1, a2 float64
	switch stage.Type {
	case StageLowShelf:
		alpha := sinw / 2 * math.Sqrt((amp+1/amp)*(1/shelfSlope-1)+2)
		beta := 2 * math.Sqrt(amp) * alpha
		b0 = amp * ((amp + 1) - (amp-1)*cosw + beta)
		b1 = 2 * amp * ((amp - 1) - (amp+1)*cosw)
		b2 = amp * ((amp + 1) - (amp-1)*cosw - beta)
		a0 = (amp + 1) + (amp-1)*cosw + beta
		a1 = -2 * ((amp - 1) + (amp+1)*cosw)
		a2 = (amp + 1) + (amp-1)*cosw - beta

	case StageHighShelf:
		alpha := sinw / 2 * math.Sqrt((amp+1/amp)*(1/shelfSlope-1)+2)
		beta := 2 * math.Sqrt(amp) * alpha
		b0 = amp * ((amp + 1) + (amp-1)*cosw + beta)
		b1 = -2 * amp * ((amp - 1) + (amp+1)*cosw)
		b2 = amp * ((amp + 1) + (amp-1)*cosw - beta)
		a0 = (amp + 1) - (amp-1)*cosw + beta
		a1 = 2 * ((amp - 1) - (amp+1)*cosw)
		a2 = (amp + 1) - (amp-1)*cosw - beta

	case StagePeaking:
		if stage.Q <= 0 {
			return biquadCoeffs{}, fmt.Errorf("peaking stage at %.1f Hz needs a positive Q", stage.Frequency)
		}
		alpha := sinw / (2 * stage.Q)
		b0 = 1 + alpha*amp
		b1 = -2 * cosw
		b2 = 1 - alpha*amp
		a0 = 1 + alpha/amp
		a1 = b1
		a2 = 1 - alpha/amp

	case StageHighPass:
		q := stage.Q
		if q <= 0 {
			q = butterworthQ
		}
		alpha := sinw / (2 * q)
		b0 = (1 + cosw) / 2
		b1 = -(1 + cosw)
		b2 = b0
		a0 = 1 + alpha
		a1 = -2 * cosw
		a2 = 1 - alpha

	case StageNotch:
		if stage.Q <= 0 {
			return biquadCoeffs{}, fmt.Errorf("notch stage at %.1f Hz needs a positive Q", stage.Frequency)
		}
		alpha := sinw / (2 * stage.Q)
		b0 = 1
		b1 = -2 * cosw
		b2 = 1
		a0 = 1 + alpha
		a1 = b1
		a2 = 1 - alpha

	default:
		return biquadCoeffs{}, fmt.Errorf("unknown stage type %q", string(stage.Type))
	}

	return biquadCoeffs{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}, nil
}

// BiquadRenderer renders EQ chains with the native biquad cascade. The
// zero value is ready to use; filter memory starts at zero on every
// call, so identical inputs produce identical outputs.
type BiquadRenderer struct{}

// RenderChain applies each stage in order and returns a new buffer.
func (BiquadRenderer) RenderChain(buf audio.Buffer, stages []EQStage) (audio.Buffer, error) {
	out := buf.Clone()
	for _, stage := range stages {
		coeffs, err := coefficientsFor(stage, out.SampleRate)
		if err != nil {
			return audio.Buffer{}, fmt.Errorf("failed to render %s stage: %w", string(stage.Type), err)
		}
		for _, ch := range out.Channels {
			var state biquadState
			for i, s := range ch {
				ch[i] = float32(state.process(coeffs, float64(s)))
			}
		}
	}
	return out, nil
}
