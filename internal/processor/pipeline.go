package processor

import (
	"fmt"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
)

// Stage names as they appear in ProcessingResult.StagesRun and
// progress callbacks.
const (
	StageNameAnalyze   = "analyze"
	StageNameHighPass  = "highpass"
	StageNameDehum     = "dehum"
	StageNameEQ        = "eq"
	StageNameGate      = "gate"
	StageNameNormalise = "normalise"
	StageNameReverb    = "reverb"
)

// ProgressFunc receives a notification after each stage completes.
type ProgressFunc func(stage string, completed, total int)

// ProcessingResult carries per-stage diagnostics and the metrics of the
// finished buffer.
type ProcessingResult struct {
	Measurements  *AudioMeasurements   // input analysis; nil unless AutoAdapt ran
	Normalisation *NormalisationResult // nil when the stage was disabled
	StagesRun     []string             // stage names in execution order

	PeakDB          float64 // final peak (dBFS)
	RMSDB           float64 // final pooled RMS (dBFS)
	LoudnessLUFS    float64 // final approximate loudness (LUFS)
	DurationSeconds float64
}

// Pipeline runs the fixed stage chain over one buffer. The chain order
// never changes; configuration only switches stages on and off:
//
//	high-pass -> dehum -> EQ -> gate -> normalise -> reverb
//
// EQ-shaped stages render through the injected ChainRenderer; gate,
// normalisation and reverb are native.
type Pipeline struct {
	renderer ChainRenderer
}

// NewPipeline returns a pipeline rendering EQ chains through renderer,
// or through the native biquad cascade when renderer is nil.
func NewPipeline(renderer ChainRenderer) *Pipeline {
	if renderer == nil {
		renderer = BiquadRenderer{}
	}
	return &Pipeline{renderer: renderer}
}

// Process runs the configured stages in chain order and returns the
// processed buffer with its diagnostics. The input buffer is validated
// first and never modified; progress may be nil.
func (p *Pipeline) Process(buf audio.Buffer, config PipelineConfig, progress ProgressFunc) (audio.Buffer, *ProcessingResult, error) {
	if err := buf.Validate(); err != nil {
		return audio.Buffer{}, nil, err
	}

	result := &ProcessingResult{}
	humStages := HumNotchStages(config.DehumFrequency, buf.SampleRate)

	total := 0
	if config.AutoAdapt {
		total++
	}
	if config.EnableHighPass {
		total++
	}
	if len(humStages) > 0 {
		total++
	}
	if len(config.EQStages) > 0 {
		total++
	}
	if config.EnableGate {
		total++
	}
	if config.EnableNormalisation {
		total++
	}
	if config.EnableReverb {
		total++
	}

	completed := 0
	record := func(stage string) {
		result.StagesRun = append(result.StagesRun, stage)
		completed++
		if progress != nil {
			progress(stage, completed, total)
		}
	}

	if config.AutoAdapt {
		result.Measurements = AnalyzeBuffer(buf)
		config = AdaptConfig(config, result.Measurements)
		record(StageNameAnalyze)
	}

	current := buf

	if config.EnableHighPass {
		out, err := p.renderer.RenderChain(current, []EQStage{HighPass(config.HighPassFreq)})
		if err != nil {
			return audio.Buffer{}, nil, fmt.Errorf("high-pass stage: %w", err)
		}
		current = out
		record(StageNameHighPass)
	}

	if len(humStages) > 0 {
		out, err := p.renderer.RenderChain(current, humStages)
		if err != nil {
			return audio.Buffer{}, nil, fmt.Errorf("dehum stage: %w", err)
		}
		current = out
		record(StageNameDehum)
	}

	if len(config.EQStages) > 0 {
		out, err := p.renderer.RenderChain(current, config.EQStages)
		if err != nil {
			return audio.Buffer{}, nil, fmt.Errorf("eq stage: %w", err)
		}
		current = out
		record(StageNameEQ)
	}

	if config.EnableGate {
		current = ApplyGate(current, config.Gate)
		record(StageNameGate)
	}

	if config.EnableNormalisation {
		out, nr := ApplyNormalisation(current, config.Normalisation)
		current = out
		result.Normalisation = &nr
		record(StageNameNormalise)
	}

	if config.EnableReverb {
		current = ApplyReverb(current, config.Reverb)
		record(StageNameReverb)
	}

	result.PeakDB = LinearToDB(Peak(current))
	result.RMSDB = LinearToDB(RMS(current))
	result.LoudnessLUFS = ApproximateLoudnessLUFS(current)
	result.DurationSeconds = current.Duration()

	return current, result, nil
}
