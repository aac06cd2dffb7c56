package processor

// PipelineConfig selects and parameterises the stages of the
// processing chain. Field order mirrors chain order.
type PipelineConfig struct {
	EnableHighPass bool    // rumble filter ahead of everything else
	HighPassFreq   float64 // Hz

	DehumFrequency float64 // mains fundamental (Hz); 0 disables notching

	EQStages []EQStage // spectral shaping chain; empty skips EQ

	EnableGate bool // noise gate between EQ and dynamics
	Gate       GateRequest

	EnableNormalisation bool // loudness targeting plus the hard limiter
	Normalisation       NormalisationRequest

	EnableReverb bool // placeholder ambience tap
	Reverb       ReverbRequest

	// AutoAdapt measures the buffer first and tunes gate threshold and
	// compression to it. Off by default so identical requests stay
	// byte-for-byte reproducible across differing inputs.
	AutoAdapt bool
}

// DefaultPipelineConfig returns the stock news-segment chain:
// high-pass and normalisation on; gate, reverb, dehum and compression
// off.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		EnableHighPass: true,
		HighPassFreq:   defaultHighpassFreq,

		EnableGate: false,
		Gate: GateRequest{
			ThresholdDB: defaultGateThresholdDB,
			AttackMs:    defaultGateAttackMs,
			ReleaseMs:   defaultGateReleaseMs,
		},

		EnableNormalisation: true,
		Normalisation: NormalisationRequest{
			TargetLoudnessLUFS:     defaultTargetLUFS,
			TruePeakLimitDB:        defaultPeakLimitDB,
			ApplyCompression:       false,
			CompressionRatio:       defaultCompRatio,
			CompressionThresholdDB: defaultCompThreshold,
		},

		EnableReverb: false,
		Reverb: ReverbRequest{
			DelayMs: defaultReverbDelayMs,
			Mix:     defaultReverbMix,
		},
	}
}
