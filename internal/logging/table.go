// Package logging renders segment analysis output: the per-segment
// report written beside each processed WAV, the aligned metric tables
// inside it, and the quality advisories derived from measurements.
package logging

import (
	"fmt"
	"math"
	"strings"
)

// MetricRow is a single row of a comparison table. Values are
// pre-formatted strings so rows can mix precisions and placeholders.
type MetricRow struct {
	Label  string   // row label, e.g. "Loudness"
	Values []string // one value per column
	Unit   string   // unit suffix, e.g. "LUFS", "dBFS"; empty for unitless
	Note   string   // optional annotation, only rendered if any row has one
}

// MetricTable lays out label, value columns, unit and note with
// consistent widths. Labels are left-aligned, values right-aligned.
type MetricTable struct {
	Headers []string
	Rows    []MetricRow
}

// NewMetricTable returns a table with the standard Input/Output
// columns.
func NewMetricTable() *MetricTable {
	return &MetricTable{
		Headers: []string{"Input", "Output"},
	}
}

// AddRow appends a row with pre-formatted values.
func (t *MetricTable) AddRow(label string, values []string, unit, note string) {
	t.Rows = append(t.Rows, MetricRow{Label: label, Values: values, Unit: unit, Note: note})
}

// AddMetricRow appends a row formatting the two numeric values itself.
// Pass math.NaN() for a missing value; it renders as "-".
func (t *MetricTable) AddMetricRow(label string, input, output float64, decimals int, unit, note string) {
	t.Rows = append(t.Rows, MetricRow{
		Label:  label,
		Values: []string{formatMetric(input, decimals), formatMetric(output, decimals)},
		Unit:   unit,
		Note:   note,
	})
}

// String renders the table. Missing values display as "-"; the Note
// column only appears when at least one row carries a note.
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	hasNote := false
	for _, row := range t.Rows {
		if row.Note != "" {
			hasNote = true
			break
		}
	}

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	unitWidth := 0
	for _, row := range t.Rows {
		if len(row.Unit) > unitWidth {
			unitWidth = len(row.Unit)
		}
	}

	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
	}
	if unitWidth > 0 {
		sb.WriteString(strings.Repeat(" ", unitWidth+1))
	}
	if hasNote {
		sb.WriteString("Note")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))

		for i := 0; i < len(t.Headers); i++ {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}

		if unitWidth > 0 {
			sb.WriteString(fmt.Sprintf("%-*s ", unitWidth, row.Unit))
		}
		if hasNote {
			sb.WriteString(row.Note)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// MissingValue is the placeholder for unavailable measurements.
const MissingValue = "-"

// DigitalSilenceThreshold is the dBFS level at or below which a
// measurement is treated as digital silence. The level helpers report
// -Inf for true zero; anything under -120 dBFS is indistinguishable
// from it.
const DigitalSilenceThreshold = -120.0

// isDigitalSilence reports whether value represents digital silence.
func isDigitalSilence(value float64) bool {
	return math.IsInf(value, -1) || value <= DigitalSilenceThreshold
}

// formatMetric formats a numeric value: fixed decimals normally,
// scientific notation below 0.0001, "-" for NaN and infinities.
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}
	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value)
}

// formatMetricDB formats a dB value, showing "< -120" for digital
// silence instead of -Inf.
func formatMetricDB(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 1) {
		return MissingValue
	}
	if isDigitalSilence(value) {
		return "< -120"
	}
	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value)
}

// formatMetricSigned formats a value with an explicit sign, for gain
// changes like "+7.7" or "-1.2".
func formatMetricSigned(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	format := fmt.Sprintf("%%+.%df", decimals)
	return fmt.Sprintf(format, value)
}
