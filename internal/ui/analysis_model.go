package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// AnalysisModel is the Bubbletea model for analysis-only mode, where
// segments are measured but not processed. The reports themselves
// print after the program exits; this model only shows liveness.
type AnalysisModel struct {
	// Segment being measured
	Current string
	Index   int
	Total   int

	// Progress tracking
	StartTime time.Time

	// Spinner state
	spinnerIndex int

	Done bool

	// Terminal dimensions
	Width  int
	Height int
}

// AnalyzeStartMsg signals a segment measurement has started
type AnalyzeStartMsg struct {
	Index int
	ID    string
}

// AnalyzeDoneMsg signals every segment has been measured
type AnalyzeDoneMsg struct{}

// tickMsg is sent for spinner/timer animation
type tickMsg time.Time

// NewAnalysisModel creates a new analysis UI model
func NewAnalysisModel(total int) AnalysisModel {
	return AnalysisModel{
		Total:     total,
		StartTime: time.Now(),
	}
}

// Init initializes the model
func (m AnalysisModel) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m AnalysisModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if !m.Done {
			// Advance spinner
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case AnalyzeStartMsg:
		m.Current = msg.ID
		m.Index = msg.Index
		return m, nil

	case AnalyzeDoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m AnalysisModel) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}

	var b strings.Builder

	// Header
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1A5FB4")).
		Render("Newscaster")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render("Analysis Mode")

	b.WriteString(title + " " + subtitle)
	b.WriteString("\n\n")

	if m.Current == "" {
		b.WriteString("Waiting...")
		return b.String()
	}

	// Segment being measured
	segmentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true)

	b.WriteString("Measuring: ")
	b.WriteString(segmentStyle.Render(m.Current))
	b.WriteString(fmt.Sprintf(" (%d/%d)", m.Index+1, m.Total))
	b.WriteString("\n\n")

	// Progress bar with spinner
	elapsed := time.Since(m.StartTime)
	spinnerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#1A5FB4"))
	spinner := spinnerStyle.Render(spinnerFrames[m.spinnerIndex])

	if m.Total > 1 && !m.Done {
		// Determinate bar over the segment count
		progress := float64(m.Index) / float64(m.Total)
		b.WriteString(spinner)
		b.WriteString(" ")
		b.WriteString(renderAnalysisProgressBar(progress, 40, elapsed))
	} else if !m.Done {
		// Indeterminate spinner
		b.WriteString(spinner)
		b.WriteString(" Measuring...")
		b.WriteString(fmt.Sprintf(" [%s]", formatElapsed(elapsed)))
	}

	b.WriteString("\n")

	return b.String()
}

// renderAnalysisProgressBar renders a progress bar with percentage and elapsed time
func renderAnalysisProgressBar(progress float64, width int, elapsed time.Duration) string {
	filled := int(progress * float64(width))
	empty := width - filled

	// Use Unicode box drawing characters for a cleaner look
	filledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#1A5FB4"))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))

	bar := filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("━", empty))

	percentage := int(progress * 100)

	return fmt.Sprintf("%s %3d%% [%s]", bar, percentage, formatElapsed(elapsed))
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
