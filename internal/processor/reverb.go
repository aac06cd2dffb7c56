package processor

import (
	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// ReverbRequest configures the ambience stage: one delayed copy of the
// signal mixed under the dry path. A spatial hint for promo stings, not
// a room model.
type ReverbRequest struct {
	DelayMs float64 // tap delay
	Mix     float64 // wet fraction, 0 to 1
}

// ApplyReverb mixes a single delayed tap under the dry signal:
//
//	out[n] = in[n]*(1-mix) + in[n-delay]*mix
//
// Samples before the tap arrives carry the dry fraction only, so the
// head of the buffer dips slightly in level. No feedback, no diffusion.
func ApplyReverb(buf audio.Buffer, req ReverbRequest) audio.Buffer {
	out := buf.Clone()

	delaySamples := int(req.DelayMs / msPerSecond * float64(out.SampleRate))
	mix := clamp(req.Mix, 0, 1)
	if delaySamples < 1 || mix == 0 {
		return out
	}

	dry := 1 - mix
	for c, ch := range out.Channels {
		src := buf.Channels[c]
		for i := range ch {
			wet := 0.0
			if i >= delaySamples {
				wet = float64(src[i-delaySamples])
			}
			ch[i] = float32(float64(src[i])*dry + wet*mix)
		}
	}
	return out
}
