package tonal

import (
	"math"

	"github.com/chordsense/chordsense/logging"
)

// TempoResult is the estimated tempo of a piece of audio
type TempoResult struct {
	BPM           float64 `json:"bpm"`
	Confidence    float64 `json:"confidence"`
	TimeSignature string  `json:"time_signature"`
}

// DefaultTempo is the fallback when no periodicity can be measured
func DefaultTempo() TempoResult {
	return TempoResult{BPM: 120, Confidence: 0, TimeSignature: "4/4"}
}

// TempoConfig holds tempo estimation parameters
type TempoConfig struct {
	FrameSeconds float64 `json:"frame_seconds"` // energy frame length
	HopFraction  float64 `json:"hop_fraction"`  // hop as a fraction of frame
	MinBPM       float64 `json:"min_bpm"`
	MaxBPM       float64 `json:"max_bpm"`
}

// DefaultTempoConfig returns estimation defaults
func DefaultTempoConfig() TempoConfig {
	return TempoConfig{
		FrameSeconds: 0.1,
		HopFraction:  0.25,
		MinBPM:       60,
		MaxBPM:       180,
	}
}

// TempoEstimator estimates tempo from the periodicity of the energy envelope
type TempoEstimator struct {
	cfg    TempoConfig
	logger logging.Logger
}

// NewTempoEstimator creates a tempo estimator
func NewTempoEstimator(cfg TempoConfig) *TempoEstimator {
	return &TempoEstimator{
		cfg:    cfg,
		logger: logging.WithFields(logging.Fields{"component": "tempo_estimator"}),
	}
}

// Estimate computes an RMS energy envelope and autocorrelates it, picking
// the strongest lag inside the BPM band. This is a total function: audio
// too short or too flat for a periodicity estimate yields the default
// 120 BPM result with zero confidence.
func (te *TempoEstimator) Estimate(signal []float64, sampleRate int) TempoResult {
	if len(signal) == 0 || sampleRate <= 0 {
		return DefaultTempo()
	}

	frameSize := int(te.cfg.FrameSeconds * float64(sampleRate))
	hopSize := int(float64(frameSize) * te.cfg.HopFraction)
	if frameSize <= 0 || hopSize <= 0 || len(signal) < frameSize {
		return DefaultTempo()
	}

	envelope := rmsEnvelope(signal, frameSize, hopSize)
	if len(envelope) < 4 {
		return DefaultTempo()
	}

	// Remove the mean so the autocorrelation reflects rhythm, not loudness
	mean := 0.0
	for _, e := range envelope {
		mean += e
	}
	mean /= float64(len(envelope))
	for i := range envelope {
		envelope[i] -= mean
	}

	// Envelope frames per second
	envelopeRate := float64(sampleRate) / float64(hopSize)

	// Lag bounds for the BPM band: beat period = 60/bpm seconds
	minLag := int(60.0 / te.cfg.MaxBPM * envelopeRate)
	maxLag := int(60.0 / te.cfg.MinBPM * envelopeRate)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(envelope) {
		maxLag = len(envelope) - 1
	}
	if minLag >= maxLag {
		return DefaultTempo()
	}

	zeroLag := autocorrelation(envelope, 0)
	if zeroLag <= 1e-12 {
		// Flat envelope, e.g. silence or a constant tone
		return DefaultTempo()
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		corr := autocorrelation(envelope, lag) / zeroLag
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr <= 0 {
		return DefaultTempo()
	}

	bpm := 60.0 * envelopeRate / float64(bestLag)
	confidence := math.Min(bestCorr, 1.0)

	te.logger.Debug("tempo estimated", logging.Fields{
		"bpm":        bpm,
		"confidence": confidence,
		"lag":        bestLag,
	})

	return TempoResult{
		BPM:           math.Round(bpm*10) / 10,
		Confidence:    confidence,
		TimeSignature: "4/4",
	}
}

// rmsEnvelope computes per-frame RMS energy of the signal
func rmsEnvelope(signal []float64, frameSize, hopSize int) []float64 {
	numFrames := (len(signal)-frameSize)/hopSize + 1
	if numFrames <= 0 {
		return nil
	}

	envelope := make([]float64, numFrames)
	for i := range numFrames {
		start := i * hopSize
		sum := 0.0
		for _, sample := range signal[start : start+frameSize] {
			sum += sample * sample
		}
		envelope[i] = math.Sqrt(sum / float64(frameSize))
	}

	return envelope
}

// autocorrelation computes the raw autocorrelation of x at the given lag
func autocorrelation(x []float64, lag int) float64 {
	sum := 0.0
	for i := 0; i+lag < len(x); i++ {
		sum += x[i] * x[i+lag]
	}
	return sum
}
