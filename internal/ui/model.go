// Package ui provides the Bubbletea terminal user interface for newscaster
package ui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var debugLog *os.File

func init() {
	debugLog, _ = os.OpenFile("newscaster-ui-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func log(format string, args ...interface{}) {
	if debugLog != nil {
		fmt.Fprintf(debugLog, format+"\n", args...)
	}
}

// SegmentStatus represents the processing state of a single segment
type SegmentStatus int

const (
	StatusQueued SegmentStatus = iota
	StatusRunning
	StatusDone
	StatusFailed
)

// SegmentProgress tracks one segment through the batch
type SegmentProgress struct {
	ID         string
	OutputPath string
	Status     SegmentStatus

	// Stage tracking
	Stage     string // last completed stage name
	Completed int
	Total     int

	StartTime   time.Time
	ElapsedTime time.Duration

	// Completion metrics
	LoudnessLUFS    float64
	PeakDB          float64
	GainAppliedDB   float64
	DurationSeconds float64

	// Error tracking
	Err error
}

// Model is the Bubbletea model for the batch processing UI
type Model struct {
	// Segment queue
	Segments []SegmentProgress
	Total    int
	Done     int
	Failed   int

	// Global state
	StartTime time.Time
	Finished  bool

	// Channel carrying stage updates from the segment goroutines
	ProgressChan chan tea.Msg

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a new UI model for the given segment IDs
func NewModel(ids []string) Model {
	segments := make([]SegmentProgress, len(ids))
	for i, id := range ids {
		segments[i] = SegmentProgress{
			ID:     id,
			Status: StatusQueued,
		}
	}

	return Model{
		Segments:     segments,
		Total:        len(ids),
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100), // Buffered channel
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return waitForProgress(m.ProgressChan)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		log("[DEBUG] Window size: %dx%d", m.Width, m.Height)

	case SegmentStartMsg:
		log("[DEBUG] SegmentStartMsg received: index=%d, id=%s", msg.Index, msg.ID)
		if msg.Index >= 0 && msg.Index < len(m.Segments) {
			m.Segments[msg.Index].Status = StatusRunning
			m.Segments[msg.Index].StartTime = time.Now()
		}

	case StageMsg:
		log("[DEBUG] StageMsg received: index=%d, stage=%s (%d/%d)", msg.Index, msg.Stage, msg.Completed, msg.Total)
		if msg.Index >= 0 && msg.Index < len(m.Segments) {
			m.Segments[msg.Index] = updateSegment(m.Segments[msg.Index], msg)
		}

		// Listen for the next stage update
		return m, waitForProgress(m.ProgressChan)

	case SegmentDoneMsg:
		log("[DEBUG] SegmentDoneMsg received: index=%d", msg.Index)
		if msg.Index >= 0 && msg.Index < len(m.Segments) {
			sp := &m.Segments[msg.Index]
			sp.OutputPath = msg.OutputPath
			sp.LoudnessLUFS = msg.LoudnessLUFS
			sp.PeakDB = msg.PeakDB
			sp.GainAppliedDB = msg.GainAppliedDB
			sp.DurationSeconds = msg.DurationSeconds
			sp.ElapsedTime = time.Since(sp.StartTime)
			sp.Err = msg.Err

			if msg.Err != nil {
				sp.Status = StatusFailed
				m.Failed++
			} else {
				sp.Status = StatusDone
				m.Done++
			}
		}

	case BatchDoneMsg:
		log("[DEBUG] BatchDoneMsg received")
		m.Finished = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	// Show basic info even before window size is set
	if m.Width == 0 {
		return fmt.Sprintf("Initializing...\nSegments: %d\nComplete: %d\n", m.Total, m.Done)
	}

	if m.Finished {
		return renderBatchSummary(m)
	}

	return renderBatchView(m)
}

// updateSegment updates a SegmentProgress based on a StageMsg
func updateSegment(sp SegmentProgress, msg StageMsg) SegmentProgress {
	// A stage update can outrun the start message; promote the
	// segment so the queue never shows a progressing entry as queued.
	if sp.Status == StatusQueued {
		sp.Status = StatusRunning
		sp.StartTime = time.Now()
	}

	sp.Stage = msg.Stage
	sp.Completed = msg.Completed
	sp.Total = msg.Total
	sp.ElapsedTime = time.Since(sp.StartTime)

	return sp
}

// waitForProgress creates a command that waits for stage updates
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
