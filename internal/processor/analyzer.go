package processor

import (
	"math"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

const (
	// Analysis windowing
	analysisWindowMs = 50.0 // ms - phoneme scale; the quietest windows land between words

	// Noise floor estimation
	noiseFloorTroughOffset = 15.0  // dB - quiet speech sits 12-18dB under average RMS
	noiseFloorMinDB        = -90.0 // dBFS - digital silence clamp
	noiseFloorMaxDB        = -30.0 // dBFS - very noisy environment clamp

	// Clipping detection
	clipLevel = 0.999 // linear - samples at or past this count as clipped
)

// AudioMeasurements aggregates whole-buffer statistics for the adaptive
// tuner, the report layer, and the advisory checks.
type AudioMeasurements struct {
	LoudnessLUFS   float64 // approximate integrated loudness (LUFS)
	PeakDB         float64 // sample peak (dBFS)
	RMSDB          float64 // pooled RMS (dBFS)
	NoiseFloorDB   float64 // estimated noise floor (dBFS)
	RMSTroughDB    float64 // RMS of the quietest analysis window (dBFS)
	DynamicRangeDB float64 // peak minus noise floor (dB)
	CrestFactorDB  float64 // peak minus RMS (dB)
	ClippedSamples int     // samples at or beyond full scale
	DCOffset       float64 // mean sample value across all channels
}

// AnalyzeBuffer measures the buffer in one whole-buffer pass plus a
// windowed sweep.
//
// The noise floor derives from the quietest 50ms window: in speech the
// quiet windows fall between words and carry only the noise bed. When
// every window is digital silence the floor falls back to overall RMS
// minus 15dB, the typical gap between quiet segments and average
// speech level. The estimate is clamped to [-90, -30] dBFS.
func AnalyzeBuffer(buf audio.Buffer) *AudioMeasurements {
	m := &AudioMeasurements{
		LoudnessLUFS: ApproximateLoudnessLUFS(buf),
		PeakDB:       LinearToDB(Peak(buf)),
		RMSDB:        LinearToDB(RMS(buf)),
	}

	// Whole-buffer sweep for clipping and DC offset
	var sum float64
	var total int
	for _, ch := range buf.Channels {
		for _, s := range ch {
			f := float64(s)
			sum += f
			if math.Abs(f) >= clipLevel {
				m.ClippedSamples++
			}
		}
		total += len(ch)
	}
	if total > 0 {
		m.DCOffset = sum / float64(total)
	}

	// Windowed sweep for the RMS trough
	window := int(analysisWindowMs / msPerSecond * float64(buf.SampleRate))
	if window < 1 || window > buf.FrameCount {
		window = buf.FrameCount
	}
	trough := math.Inf(1)
	if window > 0 {
		for start := 0; start+window <= buf.FrameCount; start += window {
			var sumSquares float64
			var count int
			for _, ch := range buf.Channels {
				for _, s := range ch[start : start+window] {
					sumSquares += float64(s) * float64(s)
				}
				count += window
			}
			rmsDB := LinearToDB(math.Sqrt(sumSquares / float64(count)))
			if rmsDB < trough {
				trough = rmsDB
			}
		}
	}
	if math.IsInf(trough, 1) {
		// Buffer shorter than one window
		trough = m.RMSDB
	}
	m.RMSTroughDB = trough

	// Derive the noise floor, preferring the trough measurement over
	// the crest-factor estimate.
	if !math.IsInf(trough, -1) {
		m.NoiseFloorDB = trough
	} else if !math.IsInf(m.RMSDB, -1) {
		m.NoiseFloorDB = m.RMSDB - noiseFloorTroughOffset
	} else {
		m.NoiseFloorDB = noiseFloorMinDB
	}
	m.NoiseFloorDB = clamp(m.NoiseFloorDB, noiseFloorMinDB, noiseFloorMaxDB)

	if !math.IsInf(m.PeakDB, -1) {
		m.DynamicRangeDB = m.PeakDB - m.NoiseFloorDB
		if !math.IsInf(m.RMSDB, -1) {
			m.CrestFactorDB = m.PeakDB - m.RMSDB
		}
	}

	return m
}
