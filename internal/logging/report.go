package logging

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/facundoinfinure/youtubenews-sub001/internal/processor"
)

// ReportData carries everything the per-segment report needs.
type ReportData struct {
	SegmentID  string
	Voice      string // voice register, empty when none was requested
	OutputPath string // processed WAV path; the report sits beside it
	StartTime  time.Time
	EndTime    time.Time
	Config     processor.PipelineConfig
	Result     *processor.ProcessingResult
}

// GenerateReport writes a plain-text analysis report next to the
// processed WAV, named <output>.log.
//
// Report structure:
//  1. Header (segment, voice, timestamp, duration)
//  2. Processing summary (stages run, wall-clock time)
//  3. Normalisation outcome
//  4. Input/output measurement table
//  5. Quality advisories (when the analysis pass ran)
func GenerateReport(data ReportData) error {
	logPath := strings.TrimSuffix(data.OutputPath, filepath.Ext(data.OutputPath)) + ".log"

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeStageSummary(f, data)

	if data.Result != nil {
		writeNormalisationSection(f, data.Result.Normalisation, data.Config)
		writeMetricsTable(f, data.Result)
		writeAdvisories(f, data.Result)
	}

	return nil
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "Newscaster Segment Report")
	fmt.Fprintln(w, "=========================")
	fmt.Fprintf(w, "Segment:   %s\n", data.SegmentID)
	if data.Voice != "" {
		fmt.Fprintf(w, "Voice:     %s\n", data.Voice)
	}
	fmt.Fprintf(w, "Output:    %s\n", filepath.Base(data.OutputPath))
	fmt.Fprintf(w, "Processed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	if data.Result != nil {
		fmt.Fprintf(w, "Duration:  %s\n", formatDuration(time.Duration(data.Result.DurationSeconds*float64(time.Second))))
	}
	fmt.Fprintln(w, "")
}

// writeStageSummary lists the stages that ran and the wall-clock cost.
func writeStageSummary(w io.Writer, data ReportData) {
	writeSection(w, "Processing Summary")

	if data.Result != nil && len(data.Result.StagesRun) > 0 {
		fmt.Fprintf(w, "Stages: %s\n", strings.Join(data.Result.StagesRun, " -> "))
	}

	total := data.EndTime.Sub(data.StartTime)
	fmt.Fprintf(w, "Total:  %s", formatDuration(total))
	if data.Result != nil && data.Result.DurationSeconds > 0 && total > 0 {
		audioDuration := time.Duration(data.Result.DurationSeconds * float64(time.Second))
		fmt.Fprintf(w, " (%.0fx real-time)", float64(audioDuration)/float64(total))
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "")
}

func writeNormalisationSection(w io.Writer, result *processor.NormalisationResult, config processor.PipelineConfig) {
	writeSection(w, "Normalisation")

	if result == nil {
		fmt.Fprintln(w, "Status: DISABLED")
		fmt.Fprintln(w, "")
		return
	}
	if result.Skipped {
		fmt.Fprintln(w, "Status: SKIPPED (signal unmeasurable; no gain applied)")
		fmt.Fprintln(w, "")
		return
	}

	fmt.Fprintln(w, "Status: APPLIED")
	fmt.Fprintf(w, "  Target:       %.1f LUFS, ceiling %.1f dBFS\n",
		config.Normalisation.TargetLoudnessLUFS, config.Normalisation.TruePeakLimitDB)
	fmt.Fprintf(w, "  Gain applied: %s dB\n", formatMetricSigned(result.GainAppliedDB, 2))
	if result.Compressed {
		fmt.Fprintf(w, "  Compression:  %.1f:1 above %.1f dBFS\n",
			config.Normalisation.CompressionRatio, config.Normalisation.CompressionThresholdDB)
	}
	fmt.Fprintln(w, "")

	deviation := math.Abs(result.OutputLoudnessLUFS - config.Normalisation.TargetLoudnessLUFS)
	switch {
	case result.PeakLimited:
		fmt.Fprintf(w, "Result: ⚠ peak safety capped the gain %.2f LU short of target\n", deviation)
	case result.LimiterEngaged:
		fmt.Fprintf(w, "Result: ✓ on target (deviation %.2f LU); limiter clamped peaks at the ceiling\n", deviation)
	default:
		fmt.Fprintf(w, "Result: ✓ on target (deviation %.2f LU)\n", deviation)
	}
	fmt.Fprintln(w, "")
}

// writeMetricsTable renders the input/output comparison. Input values
// come from the analysis pass when it ran, otherwise from the
// normalisation stage's own measurements.
func writeMetricsTable(w io.Writer, result *processor.ProcessingResult) {
	writeSection(w, "Measurements")

	table := NewMetricTable()

	inLoudness, inPeak, inRMS := math.NaN(), math.NaN(), math.NaN()
	if m := result.Measurements; m != nil {
		inLoudness, inPeak, inRMS = m.LoudnessLUFS, m.PeakDB, m.RMSDB
	} else if n := result.Normalisation; n != nil {
		inLoudness, inPeak = n.InputLoudnessLUFS, n.InputPeakDB
	}

	peakNote := ""
	if n := result.Normalisation; n != nil && n.LimiterEngaged {
		peakNote = "limiter engaged"
	}

	table.AddRow("Loudness", []string{formatMetricDB(inLoudness, 2), formatMetricDB(result.LoudnessLUFS, 2)}, "LUFS", "")
	table.AddRow("Peak", []string{formatMetricDB(inPeak, 2), formatMetricDB(result.PeakDB, 2)}, "dBFS", peakNote)
	table.AddRow("RMS", []string{formatMetricDB(inRMS, 2), formatMetricDB(result.RMSDB, 2)}, "dBFS", "")

	if m := result.Measurements; m != nil {
		table.AddRow("Noise floor", []string{formatMetricDB(m.NoiseFloorDB, 1), ""}, "dBFS", "")
		table.AddRow("Dynamic range", []string{formatMetric(m.DynamicRangeDB, 1), ""}, "dB", "")
		table.AddRow("Crest factor", []string{formatMetric(m.CrestFactorDB, 1), ""}, "dB", "")
		if m.ClippedSamples > 0 {
			table.AddRow("Clipped samples", []string{fmt.Sprintf("%d", m.ClippedSamples), ""}, "", "")
		}
		if math.Abs(m.DCOffset) > 0.001 {
			table.AddRow("DC offset", []string{formatMetric(m.DCOffset, 4), ""}, "", "")
		}
	}

	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

// writeAdvisories lists quality advisories; only meaningful when the
// analysis pass ran.
func writeAdvisories(w io.Writer, result *processor.ProcessingResult) {
	if result.Measurements == nil {
		return
	}
	writeSection(w, "Advisories")

	advisories := SegmentAdvisories(result.Measurements, result.Normalisation)
	if len(advisories) == 0 {
		fmt.Fprintln(w, "None - the segment measures clean.")
		fmt.Fprintln(w, "")
		return
	}
	for _, a := range advisories {
		fmt.Fprintf(w, "  * %s\n", wrapText(a.Message, 70, "    "))
	}
	fmt.Fprintln(w, "")
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// channelName returns a human-readable channel layout name.
func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}
