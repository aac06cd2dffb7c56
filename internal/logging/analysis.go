package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/facundoinfinure/youtubenews-sub001/internal/processor"
)

// DisplaySegmentAnalysis prints a segment's measurements to the
// console without processing it. Analyze-only mode uses this for rapid
// inspection of a manifest before committing to a full run.
func DisplaySegmentAnalysis(w io.Writer, id string, sampleRate, channels int, durationSeconds float64, m *processor.AudioMeasurements) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "ANALYSIS: %s\n", id)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "Duration:    %s\n", formatDuration(time.Duration(durationSeconds*float64(time.Second))))
	fmt.Fprintf(w, "Sample Rate: %d Hz\n", sampleRate)
	fmt.Fprintf(w, "Channels:    %s\n", channelName(channels))
	fmt.Fprintln(w)

	writeAnalysisSection(w, "LEVELS")
	fmt.Fprintf(w, "  Loudness:       %s LUFS\n", formatMetricDB(m.LoudnessLUFS, 2))
	fmt.Fprintf(w, "  Peak:           %s dBFS\n", formatMetricDB(m.PeakDB, 2))
	fmt.Fprintf(w, "  RMS:            %s dBFS\n", formatMetricDB(m.RMSDB, 2))
	fmt.Fprintln(w)

	writeAnalysisSection(w, "QUALITY")
	fmt.Fprintf(w, "  Noise Floor:    %s dBFS\n", formatMetricDB(m.NoiseFloorDB, 1))
	fmt.Fprintf(w, "  RMS Trough:     %s dBFS\n", formatMetricDB(m.RMSTroughDB, 1))
	fmt.Fprintf(w, "  Dynamic Range:  %s dB\n", formatMetric(m.DynamicRangeDB, 1))
	fmt.Fprintf(w, "  Crest Factor:   %s dB\n", formatMetric(m.CrestFactorDB, 1))
	fmt.Fprintf(w, "  Clipped:        %d samples\n", m.ClippedSamples)
	fmt.Fprintf(w, "  DC Offset:      %s\n", formatMetric(m.DCOffset, 4))
	fmt.Fprintln(w)

	writeAnalysisSection(w, "ADVISORIES")
	advisories := SegmentAdvisories(m, nil)
	if len(advisories) == 0 {
		fmt.Fprintln(w, "  None - the segment measures clean.")
	}
	for _, a := range advisories {
		fmt.Fprintf(w, "  * %s\n", wrapText(a.Message, 54, "    "))
	}
	fmt.Fprintln(w)
}

func writeAnalysisSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
}
