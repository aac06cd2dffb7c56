package logging

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/facundoinfinure/youtubenews-sub001/internal/processor"
)

// Advisory is one actionable observation about a processed segment,
// derived from its input measurements and normalisation outcome. The
// advice targets the synthesis side: the processing chain can mask
// these problems but not remove their cause.
type Advisory struct {
	Priority int    // higher fires first (1-10)
	RuleID   string // stable identifier for tests and logs
	Message  string
}

// MaxAdvisories caps the advisories reported per segment.
const MaxAdvisories = 4

// SegmentAdvisories inspects the analysis measurements (and the
// normalisation result when the stage ran) and returns prioritised
// advisories, most important first.
func SegmentAdvisories(m *processor.AudioMeasurements, n *processor.NormalisationResult) []Advisory {
	if m == nil {
		return nil
	}

	// Digital silence makes every other measurement meaningless.
	if math.IsInf(m.LoudnessLUFS, -1) {
		return []Advisory{{
			Priority: 10,
			RuleID:   "segment_silent",
			Message:  "The segment is digitally silent - synthesis produced no audio, so there is nothing to process.",
		}}
	}

	rules := []func(*processor.AudioMeasurements, *processor.NormalisationResult) *Advisory{
		adviseClipping,
		adviseQuietSource,
		adviseHeavyGain,
		adviseNoiseFloor,
		adviseNarrowNoiseGap,
		adviseFlatDynamics,
		adviseDCOffset,
		adviseLimiter,
	}

	var advisories []Advisory
	fired := make(map[string]bool)
	for _, rule := range rules {
		if a := rule(m, n); a != nil {
			advisories = append(advisories, *a)
			fired[a.RuleID] = true
		}
	}

	advisories = applyExclusions(advisories, fired)

	sort.SliceStable(advisories, func(i, j int) bool {
		return advisories[i].Priority > advisories[j].Priority
	})
	if len(advisories) > MaxAdvisories {
		advisories = advisories[:MaxAdvisories]
	}
	return advisories
}

// applyExclusions drops advisories made redundant by a more specific
// one. The quiet-source advisories restate what heavy_gain already
// quantifies, and a high noise floor already explains a narrow
// speech-to-noise gap.
func applyExclusions(advisories []Advisory, fired map[string]bool) []Advisory {
	var result []Advisory
	for _, a := range advisories {
		switch a.RuleID {
		case "source_very_quiet", "source_quiet":
			if fired["heavy_gain"] {
				continue
			}
		case "narrow_noise_gap":
			if fired["noise_floor_high"] {
				continue
			}
		}
		result = append(result, a)
	}
	return result
}

// adviseClipping fires when the source already carries clipped samples,
// or when peaks sit within 1 dB of full scale.
func adviseClipping(m *processor.AudioMeasurements, _ *processor.NormalisationResult) *Advisory {
	if m.ClippedSamples > 0 {
		return &Advisory{
			Priority: 10,
			RuleID:   "source_clipped",
			Message: fmt.Sprintf("The source audio is clipped (%d samples at full scale) - the distortion survives processing, so re-render the segment at a lower synthesis level.",
				m.ClippedSamples),
		}
	}
	if m.PeakDB > -1.0 {
		return &Advisory{
			Priority: 9,
			RuleID:   "peak_near_full_scale",
			Message:  "Source peaks sit within 1 dB of full scale - leave more synthesis headroom so the limiter stays out of the signal.",
		}
	}
	return nil
}

// adviseQuietSource fires when the segment arrives well under a usable
// level. Below -30 LUFS the make-up gain starts lifting synthesis
// artefacts audibly; -30 to -24 LUFS is merely wasteful.
func adviseQuietSource(m *processor.AudioMeasurements, _ *processor.NormalisationResult) *Advisory {
	if m.LoudnessLUFS < -30.0 {
		return &Advisory{
			Priority: 8,
			RuleID:   "source_very_quiet",
			Message: fmt.Sprintf("The segment is very quiet (%.0f LUFS) - raise the synthesis output level; large make-up gain lifts synthesis artefacts with the voice.",
				m.LoudnessLUFS),
		}
	}
	if m.LoudnessLUFS < -24.0 {
		return &Advisory{
			Priority: 5,
			RuleID:   "source_quiet",
			Message: fmt.Sprintf("The segment is a bit quiet (%.0f LUFS) - a higher synthesis output level would reduce the gain the chain has to apply.",
				m.LoudnessLUFS),
		}
	}
	return nil
}

// adviseHeavyGain fires when normalisation had to lift the segment by
// more than 12 dB.
func adviseHeavyGain(_ *processor.AudioMeasurements, n *processor.NormalisationResult) *Advisory {
	if n == nil || n.Skipped || n.GainAppliedDB <= 12.0 {
		return nil
	}
	return &Advisory{
		Priority: 8,
		RuleID:   "heavy_gain",
		Message: fmt.Sprintf("Normalisation lifted the segment by %.1f dB - quantisation and synthesis noise come up with it; raise the synthesis output level instead.",
			n.GainAppliedDB),
	}
}

// adviseNoiseFloor fires when the noise bed under the speech is
// elevated. Thresholds match the adaptive gate tiers: above -45 dBFS
// the bed competes with quiet speech; above -55 dBFS it is audible on
// headphones.
func adviseNoiseFloor(m *processor.AudioMeasurements, _ *processor.NormalisationResult) *Advisory {
	if m.NoiseFloorDB > -45.0 {
		return &Advisory{
			Priority: 9,
			RuleID:   "noise_floor_high",
			Message: fmt.Sprintf("The noise bed sits at %.0f dBFS - synthesis or upstream encoding has added broadband noise the gate can only partly mask.",
				m.NoiseFloorDB),
		}
	}
	if m.NoiseFloorDB > -55.0 {
		return &Advisory{
			Priority: 6,
			RuleID:   "noise_floor_raised",
			Message: fmt.Sprintf("The noise bed is slightly raised (%.0f dBFS) - audible in quiet passages on headphones.",
				m.NoiseFloorDB),
		}
	}
	return nil
}

// adviseNarrowNoiseGap fires when speech RMS and the noise floor sit
// within 15 dB of each other, which is where gating starts clipping
// word endings. A floor at the -90 dBFS clamp means the measurement
// found no noise to speak of, so the gap is not meaningful.
func adviseNarrowNoiseGap(m *processor.AudioMeasurements, _ *processor.NormalisationResult) *Advisory {
	if !isFinite(m.RMSDB) || !isFinite(m.NoiseFloorDB) || m.NoiseFloorDB <= -89.5 {
		return nil
	}
	gap := m.RMSDB - m.NoiseFloorDB
	if gap >= 15.0 {
		return nil
	}
	return &Advisory{
		Priority: 7,
		RuleID:   "narrow_noise_gap",
		Message: fmt.Sprintf("Only %.0f dB separate the speech from the noise bed - gating at this ratio clips word endings; reduce the bed upstream.",
			gap),
	}
}

// adviseFlatDynamics fires when the crest factor is under 6 dB,
// meaning the synthesis output is already heavily compressed. A crest
// of exactly zero is an unmeasured or degenerate signal and is
// skipped.
func adviseFlatDynamics(m *processor.AudioMeasurements, _ *processor.NormalisationResult) *Advisory {
	if m.CrestFactorDB <= 0 || m.CrestFactorDB >= 6.0 {
		return nil
	}
	return &Advisory{
		Priority: 5,
		RuleID:   "flat_dynamics",
		Message: fmt.Sprintf("Crest factor is only %.1f dB - the synthesis output is already heavily compressed; keep the compression stage off for this voice.",
			m.CrestFactorDB),
	}
}

// adviseDCOffset fires when the waveform is displaced from zero by
// more than 1% of full scale. The high-pass stage removes the offset,
// but a synthesis chain should not produce one at all.
func adviseDCOffset(m *processor.AudioMeasurements, _ *processor.NormalisationResult) *Advisory {
	if math.Abs(m.DCOffset) <= 0.01 {
		return nil
	}
	return &Advisory{
		Priority: 6,
		RuleID:   "dc_offset",
		Message: fmt.Sprintf("The waveform carries a DC offset of %+.3f - the high-pass stage removes it, but check the synthesis chain for the cause.",
			m.DCOffset),
	}
}

// adviseLimiter fires when the safety limiter actually clamped
// samples.
func adviseLimiter(_ *processor.AudioMeasurements, n *processor.NormalisationResult) *Advisory {
	if n == nil || !n.LimiterEngaged {
		return nil
	}
	return &Advisory{
		Priority: 4,
		RuleID:   "limiter_engaged",
		Message:  "The safety limiter clamped peaks at the output ceiling - if this recurs, lower the loudness target or leave more synthesis headroom.",
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// wrapText wraps text at word boundaries to fit maxWidth columns,
// prefixing continuation lines with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}
