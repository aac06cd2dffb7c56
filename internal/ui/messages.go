package ui

// SegmentStartMsg indicates a segment has been picked up by the batch
type SegmentStartMsg struct {
	Index int
	ID    string
}

// StageMsg reports one completed pipeline stage for a segment. Stage
// updates arrive from concurrent segment goroutines, so any segment
// may progress at any time.
type StageMsg struct {
	Index     int
	Stage     string // "highpass", "eq", "normalise", ...
	Completed int
	Total     int
}

// SegmentDoneMsg carries the outcome of one segment
type SegmentDoneMsg struct {
	Index           int
	OutputPath      string
	LoudnessLUFS    float64
	PeakDB          float64
	GainAppliedDB   float64
	DurationSeconds float64
	Err             error
}

// BatchDoneMsg indicates every segment has been processed
type BatchDoneMsg struct{}
