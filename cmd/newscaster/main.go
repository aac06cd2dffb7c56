package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	ffmpeg "github.com/csnewman/ffmpeg-go"

	"github.com/facundoinfinure/youtubenews-sub001/internal/cli"
	"github.com/facundoinfinure/youtubenews-sub001/internal/logging"
	"github.com/facundoinfinure/youtubenews-sub001/internal/mains"
	"github.com/facundoinfinure/youtubenews-sub001/internal/media"
	"github.com/facundoinfinure/youtubenews-sub001/internal/processor"
	"github.com/facundoinfinure/youtubenews-sub001/internal/segment"
	"github.com/facundoinfinure/youtubenews-sub001/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool    `short:"v" help:"Show version information"`
	Output  string  `short:"o" type:"path" default:"." help:"Directory for processed segment WAVs"`
	Voice   string  `help:"Voice preset for segments that carry none: male or female"`
	Target  float64 `default:"-16" help:"Loudness target in LUFS"`
	Ceiling float64 `default:"-1.5" help:"Output peak ceiling in dBFS"`
	Gate    bool    `help:"Enable the noise gate"`
	Reverb  bool    `help:"Enable the ambience tap"`
	Auto    bool    `help:"Measure each segment first and adapt gate and compression to it"`
	Dehum   string  `default:"off" help:"Mains-hum notching: off, auto, 50 or 60"`
	Logs    bool    `help:"Write an analysis report beside each WAV"`
	Analyze bool    `help:"Measure segments and print their analysis without processing"`

	Manifest string `arg:"" name:"manifest" help:"JSON manifest of segments to process" type:"existingfile" optional:""`
}

func main() {
	// Suppress FFmpeg info/verbose logging to keep console clean
	ffmpeg.AVLogSetLevel(ffmpeg.AVLogError)

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("newscaster"),
		kong.Description("Broadcast-ready post-processing for synthesised news segments"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if cliArgs.Manifest == "" {
		cli.PrintError("No manifest specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	segments, err := loadManifest(cliArgs.Manifest)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	if len(segments) == 0 {
		cli.PrintError("Manifest contains no segments")
		os.Exit(1)
	}

	config, err := buildConfig(cliArgs)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	// Open debug log file
	debugLog, _ := os.Create("newscaster-debug.log")
	defer debugLog.Close()
	log := func(format string, args ...interface{}) {
		if debugLog != nil {
			fmt.Fprintf(debugLog, format+"\n", args...)
		}
	}

	if cliArgs.Analyze {
		runAnalysis(segments, log)
		return
	}

	runBatch(cliArgs, segments, config, log)
}

// manifestEntry is one segment in the input manifest. Audio carries
// base64 (optionally as a data URI); File names an audio file to read
// instead. Audio wins when both are set.
type manifestEntry struct {
	ID    string `json:"id"`
	Audio string `json:"audio,omitempty"`
	File  string `json:"file,omitempty"`
	Voice string `json:"voice,omitempty"`
}

// loadManifest reads the JSON manifest and resolves file entries into
// base64 payloads.
func loadManifest(path string) ([]segment.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	segments := make([]segment.Segment, 0, len(entries))
	for i, entry := range entries {
		if entry.ID == "" {
			entry.ID = fmt.Sprintf("segment-%03d", i+1)
		}

		audio := entry.Audio
		if audio == "" && entry.File != "" {
			raw, err := os.ReadFile(entry.File)
			if err != nil {
				return nil, fmt.Errorf("failed to read audio for %q: %w", entry.ID, err)
			}
			audio = base64.StdEncoding.EncodeToString(raw)
		}
		if audio == "" {
			return nil, fmt.Errorf("manifest entry %q has neither audio nor file", entry.ID)
		}

		segments = append(segments, segment.Segment{
			ID:    entry.ID,
			Audio: audio,
			Voice: entry.Voice,
		})
	}

	return segments, nil
}

// buildConfig turns CLI flags into a pipeline configuration.
func buildConfig(cliArgs *CLI) (processor.PipelineConfig, error) {
	config := processor.DefaultPipelineConfig()
	config.Normalisation.TargetLoudnessLUFS = cliArgs.Target
	config.Normalisation.TruePeakLimitDB = cliArgs.Ceiling
	config.EnableGate = cliArgs.Gate
	config.EnableReverb = cliArgs.Reverb
	config.AutoAdapt = cliArgs.Auto

	if cliArgs.Voice != "" {
		stages := processor.VoicePreset(cliArgs.Voice)
		if stages == nil {
			return config, fmt.Errorf("unknown voice preset %q: want male or female", cliArgs.Voice)
		}
		config.EQStages = stages
	}

	switch strings.ToLower(cliArgs.Dehum) {
	case "", "off":
		// notching disabled
	case "auto":
		config.DehumFrequency = float64(mains.Frequency())
	default:
		hz, err := strconv.Atoi(cliArgs.Dehum)
		if err != nil || (hz != 50 && hz != 60) {
			return config, fmt.Errorf("invalid dehum value %q: want off, auto, 50 or 60", cliArgs.Dehum)
		}
		config.DehumFrequency = float64(hz)
	}

	return config, nil
}

// runBatch processes every manifest segment through the pipeline with
// the batch UI in front.
func runBatch(cliArgs *CLI, segments []segment.Segment, config processor.PipelineConfig, log func(string, ...interface{})) {
	if err := os.MkdirAll(cliArgs.Output, 0755); err != nil {
		cli.PrintError(fmt.Sprintf("Cannot create output directory: %v", err))
		os.Exit(1)
	}

	proc := segment.NewProcessor(&media.Decoder{}, nil, config)

	ids := make([]string, len(segments))
	for i, seg := range segments {
		ids[i] = seg.ID
	}

	// Create the Bubbletea UI model
	model := ui.NewModel(ids)
	progressChan := model.ProgressChan

	// Start the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Start processing in background
	go func() {
		batchStart := time.Now()

		for i, seg := range segments {
			log("[MAIN] Queueing segment %d: %s", i, seg.ID)
			p.Send(ui.SegmentStartMsg{Index: i, ID: seg.ID})
		}

		// Stage updates arrive from concurrent segment goroutines;
		// drop them rather than stall the pipeline when the UI lags.
		progress := func(index int, stage string, completed, total int) {
			log("[MAIN] Segment %d stage %s (%d/%d)", index, stage, completed, total)
			select {
			case progressChan <- ui.StageMsg{Index: index, Stage: stage, Completed: completed, Total: total}:
			default:
			}
		}

		log("[MAIN] Starting batch of %d segment(s)", len(segments))
		results := proc.ProcessBatch(segments, progress)
		batchEnd := time.Now()

		for i, result := range results {
			if result.Err != nil {
				log("[MAIN] Segment %s failed: %v", result.ID, result.Err)
				p.Send(ui.SegmentDoneMsg{Index: i, Err: result.Err})
				continue
			}

			outputPath := filepath.Join(cliArgs.Output, result.ID+".wav")
			if err := writeSegmentWAV(outputPath, result.Audio); err != nil {
				log("[MAIN] Segment %s write failed: %v", result.ID, err)
				p.Send(ui.SegmentDoneMsg{Index: i, Err: err})
				continue
			}

			// Generate analysis report if --logs flag is set
			if cliArgs.Logs {
				reportData := logging.ReportData{
					SegmentID:  result.ID,
					Voice:      segments[i].Voice,
					OutputPath: outputPath,
					StartTime:  batchStart,
					EndTime:    batchEnd,
					Config:     config,
					Result:     result.Diagnostics,
				}
				if err := logging.GenerateReport(reportData); err != nil {
					log("[MAIN] Failed to generate report for %s: %v", result.ID, err)
				}
			}

			gain := 0.0
			loudness := 0.0
			if result.Diagnostics != nil {
				loudness = result.Diagnostics.LoudnessLUFS
				if result.Diagnostics.Normalisation != nil {
					gain = result.Diagnostics.Normalisation.GainAppliedDB
				}
			}

			log("[MAIN] Segment %s complete: %s", result.ID, outputPath)
			p.Send(ui.SegmentDoneMsg{
				Index:           i,
				OutputPath:      outputPath,
				LoudnessLUFS:    loudness,
				PeakDB:          result.PeakDB,
				GainAppliedDB:   gain,
				DurationSeconds: result.DurationSeconds,
			})
		}

		// Signal batch complete
		log("[MAIN] Sending BatchDoneMsg")
		p.Send(ui.BatchDoneMsg{})
	}()

	// Run the program
	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
}

// analysisOutcome holds one segment's measurements for printing after
// the TUI exits.
type analysisOutcome struct {
	id           string
	sampleRate   int
	channels     int
	duration     float64
	measurements *processor.AudioMeasurements
	err          error
}

// runAnalysis measures every manifest segment without processing and
// prints the reports once the TUI has closed.
func runAnalysis(segments []segment.Segment, log func(string, ...interface{})) {
	model := ui.NewAnalysisModel(len(segments))
	p := tea.NewProgram(model, tea.WithAltScreen())

	outcomes := make([]analysisOutcome, len(segments))

	go func() {
		decoder := &media.Decoder{}
		for i, seg := range segments {
			log("[MAIN] Measuring segment %d: %s", i, seg.ID)
			p.Send(ui.AnalyzeStartMsg{Index: i, ID: seg.ID})
			outcomes[i] = measureSegment(decoder, seg)
		}
		log("[MAIN] Sending AnalyzeDoneMsg")
		p.Send(ui.AnalyzeDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}

	for _, outcome := range outcomes {
		if outcome.err != nil {
			cli.PrintError(fmt.Sprintf("%s: %v", outcome.id, outcome.err))
			continue
		}
		logging.DisplaySegmentAnalysis(os.Stdout, outcome.id,
			outcome.sampleRate, outcome.channels, outcome.duration, outcome.measurements)
		fmt.Println()
	}
}

// measureSegment decodes one segment and measures it.
func measureSegment(decoder *media.Decoder, seg segment.Segment) analysisOutcome {
	outcome := analysisOutcome{id: seg.ID}

	compressed, err := segment.DecodePayload(seg.Audio)
	if err != nil {
		outcome.err = err
		return outcome
	}

	buf, err := decoder.Decode(compressed)
	if err != nil {
		outcome.err = err
		return outcome
	}
	if err := buf.Validate(); err != nil {
		outcome.err = err
		return outcome
	}

	outcome.sampleRate = buf.SampleRate
	outcome.channels = buf.NumChannels()
	outcome.duration = buf.Duration()
	outcome.measurements = processor.AnalyzeBuffer(buf)
	return outcome
}

// writeSegmentWAV strips the data-URI wrapper and writes the WAV bytes.
func writeSegmentWAV(path, dataURI string) error {
	wav, err := base64.StdEncoding.DecodeString(segment.StripDataURI(dataURI))
	if err != nil {
		return fmt.Errorf("failed to decode segment audio: %w", err)
	}
	if err := os.WriteFile(path, wav, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
