// Package segment is the public entry point of the post-processing
// subsystem: it takes base64 audio payloads, runs each through the
// processing pipeline, and returns data-URI WAVs with their metrics.
// Segments are independent of each other; a batch fans out one
// goroutine per segment and waits for all of them.
package segment

import (
	"sync"

	"github.com/facundoinfinure/youtubenews-sub001/internal/audio"
	"github.com/facundoinfinure/youtubenews-sub001/internal/processor"
)

// Segment is one unit of work: a synthesized speech clip with the
// voice register it was synthesized in.
type Segment struct {
	ID    string `json:"id"`
	Audio string `json:"audio"`           // base64, optional data: URI prefix
	Voice string `json:"voice,omitempty"` // "male", "female" or empty
}

// Result reports one processed segment. Err is set when the segment
// failed; the audio and metric fields are only meaningful when Err is
// nil.
type Result struct {
	ID              string  `json:"id"`
	Audio           string  `json:"audio,omitempty"` // data:audio/wav;base64,...
	DurationSeconds float64 `json:"durationSeconds"`
	PeakDB          float64 `json:"peakDb"`
	RMSDB           float64 `json:"rmsDb"`
	Normalised      bool    `json:"normalized"`

	// Diagnostics carries the pipeline's full per-stage record for the
	// report layer; not serialised with the result.
	Diagnostics *processor.ProcessingResult `json:"-"`
	Err         error                       `json:"-"`
}

// ProgressFunc receives stage-level progress for one segment of a
// batch. Calls arrive from the segment's own goroutine.
type ProgressFunc func(segmentIndex int, stage string, completed, total int)

// Processor binds a compressed-audio decoder and a pipeline
// configuration into a reusable batch entry point.
type Processor struct {
	decoder  audio.Decoder
	pipeline *processor.Pipeline
	config   processor.PipelineConfig
}

// NewProcessor returns a processor decoding payloads through decoder
// and rendering EQ chains through renderer (nil for the native biquad
// cascade).
func NewProcessor(decoder audio.Decoder, renderer processor.ChainRenderer, config processor.PipelineConfig) *Processor {
	return &Processor{
		decoder:  decoder,
		pipeline: processor.NewPipeline(renderer),
		config:   config,
	}
}

// ProcessSegment runs one segment through decode, pipeline and encode.
// Failures are recorded in the result rather than returned: a segment
// carries its own error so batch siblings are never affected.
func (p *Processor) ProcessSegment(seg Segment) Result {
	return p.process(seg, nil)
}

// ProcessBatch processes every segment concurrently and waits for all
// of them. Results keep input order regardless of completion order.
// There is no cancellation, timeout or retry: each segment either
// completes or records its error. progress may be nil.
func (p *Processor) ProcessBatch(segments []Segment, progress ProgressFunc) []Result {
	results := make([]Result, len(segments))

	var wg sync.WaitGroup
	for i, seg := range segments {
		wg.Add(1)
		go func(i int, seg Segment) {
			defer wg.Done()

			var stageProgress processor.ProgressFunc
			if progress != nil {
				stageProgress = func(stage string, completed, total int) {
					progress(i, stage, completed, total)
				}
			}
			results[i] = p.process(seg, stageProgress)
		}(i, seg)
	}
	wg.Wait()

	return results
}

func (p *Processor) process(seg Segment, progress processor.ProgressFunc) Result {
	result := Result{ID: seg.ID}

	if p.decoder == nil {
		result.Err = &audio.DecodeError{Reason: "no decoder configured"}
		return result
	}

	compressed, err := DecodePayload(seg.Audio)
	if err != nil {
		result.Err = err
		return result
	}

	buf, err := p.decoder.Decode(compressed)
	if err != nil {
		result.Err = err
		return result
	}
	if err := buf.Validate(); err != nil {
		result.Err = err
		return result
	}

	config := p.config
	if stages := processor.VoicePreset(seg.Voice); stages != nil {
		config.EQStages = stages
	}

	processed, diag, err := p.pipeline.Process(buf, config, progress)
	if err != nil {
		result.Err = err
		return result
	}

	wav, err := processor.EncodeWAV(processed)
	if err != nil {
		result.Err = err
		return result
	}

	result.Audio = EncodeDataURI(wav)
	result.DurationSeconds = diag.DurationSeconds
	result.PeakDB = diag.PeakDB
	result.RMSDB = diag.RMSDB
	result.Normalised = diag.Normalisation != nil && !diag.Normalisation.Skipped
	result.Diagnostics = diag
	return result
}
