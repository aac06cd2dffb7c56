package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderBatchView renders the live batch view
func renderBatchView(m Model) string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	// Segment queue
	b.WriteString(renderSegmentQueue(m))
	b.WriteString("\n")

	// Overall progress
	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1A5FB4")).
		Render("Newscaster 🗞 - News Segment Post-Processor")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Processing %d segment(s)", m.Total))

	return title + "\n" + subtitle
}

// renderSegmentQueue renders the list of segments with their status
func renderSegmentQueue(m Model) string {
	var b strings.Builder

	for _, sp := range m.Segments {
		b.WriteString(renderSegmentEntry(sp))
		b.WriteString("\n")
	}

	return b.String()
}

// renderSegmentEntry renders a single segment in the queue. Segments
// run concurrently, so several entries can be active at once; active
// entries stay on one line to keep the queue readable.
func renderSegmentEntry(sp SegmentProgress) string {
	switch sp.Status {
	case StatusDone:
		// ✓ completed segment with summary
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		summary := fmt.Sprintf("%.1f LUFS | Peak %.1f dBFS | Gain %+.1f dB",
			sp.LoudnessLUFS, sp.PeakDB, sp.GainAppliedDB)
		return fmt.Sprintf(" %s %s → %s\n   %s", icon, sp.ID, filepath.Base(sp.OutputPath), summary)

	case StatusRunning:
		// ⚙ active segment with stage progress
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		stage := sp.Stage
		if stage == "" {
			stage = "starting"
		}
		progress := 0.0
		if sp.Total > 0 {
			progress = float64(sp.Completed) / float64(sp.Total)
		}
		return fmt.Sprintf(" %s %s  %s %s", icon, sp.ID, renderProgressBar(progress, 24), stage)

	case StatusFailed:
		// ✗ failed segment
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, sp.ID, sp.Err)

	default:
		// ○ queued segment
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s  queued", icon, sp.ID)
	}
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	running := m.Total - m.Done - m.Failed
	content := fmt.Sprintf("Segments: %d running | %d complete | %d failed",
		running, m.Done, m.Failed)

	return box.Render(content)
}

// renderBatchSummary renders the final completion summary
func renderBatchSummary(m Model) string {
	var b strings.Builder

	// Completion header
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ Batch Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	// Summary for each segment
	for _, sp := range m.Segments {
		switch sp.Status {
		case StatusDone:
			b.WriteString(renderDoneSegment(sp))
		case StatusFailed:
			icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
			b.WriteString(fmt.Sprintf(" %s %s\n   Error: %v\n", icon, sp.ID, sp.Err))
		}
	}

	// Overall summary
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	if m.Failed == 0 {
		b.WriteString("All segments normalised and ready for assembly ✓\n")
	} else {
		b.WriteString(fmt.Sprintf("%d of %d segment(s) failed - details in newscaster-debug.log\n",
			m.Failed, m.Total))
	}

	return b.String()
}

// renderDoneSegment renders a summary line for a completed segment
func renderDoneSegment(sp SegmentProgress) string {
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")

	return fmt.Sprintf(" %s %s → %s\n"+
		"   %.1fs of audio | %.1f LUFS | Peak %.1f dBFS | Gain %+.1f dB\n",
		icon, sp.ID, filepath.Base(sp.OutputPath),
		sp.DurationSeconds, sp.LoudnessLUFS, sp.PeakDB, sp.GainAppliedDB)
}
