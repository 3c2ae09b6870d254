package chroma

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/chordsense/chordsense/logging"
)

// ChromaBins is the number of pitch classes in an octave-folded representation
const ChromaBins = 12

// Config holds chromagram extraction parameters
type Config struct {
	SampleRate          int     `json:"sample_rate"`
	FrameSize           int     `json:"frame_size"`
	HopSize             int     `json:"hop_size"`
	MinFreq             float64 `json:"min_freq"`
	MaxFreq             float64 `json:"max_freq"`
	TuningFreq          float64 `json:"tuning_freq"`
	Workers             int     `json:"workers"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	MinSegmentFrames    int     `json:"min_segment_frames"`
	MinConfidence       float64 `json:"min_confidence"`
}

// DefaultConfig returns extraction defaults for the canonical 22050 Hz
// mono input the pipeline produces.
func DefaultConfig() Config {
	return Config{
		SampleRate:          22050,
		FrameSize:           4096,
		HopSize:             2048,
		MinFreq:             80.0,
		MaxFreq:             1000.0,
		TuningFreq:          440.0,
		Workers:             0, // sized to workload
		SimilarityThreshold: 0.7,
		MinSegmentFrames:    4,
		MinConfidence:       0.4,
	}
}

// Frame is one chroma vector with the time of its first sample
type Frame struct {
	Vector    []float64 `json:"vector"`
	StartTime float64   `json:"start_time"`
}

// Chromagram computes octave-folded pitch class profiles from audio
//
// Each STFT frame's magnitude spectrum is folded into 12 semitone bins
// (C, C#, D, D#, E, F, F#, G, G#, A, A#, B). Frequencies map to bins via
// MIDI note number 69 + 12*log2(f/tuning), modulo 12.
type Chromagram struct {
	cfg    Config
	window *Hamming
	logger logging.Logger
}

// NewChromagram creates a chromagram calculator
func NewChromagram(cfg Config) *Chromagram {
	return &Chromagram{
		cfg:    cfg,
		window: NewHamming(cfg.FrameSize, true),
		logger: logging.WithFields(logging.Fields{"component": "chromagram"}),
	}
}

// Compute converts a mono signal into a sequence of unit-sum chroma frames
func (c *Chromagram) Compute(signal []float64) ([]Frame, error) {
	if len(signal) < c.cfg.FrameSize {
		return nil, nil
	}

	spec, err := ComputeSpectrogram(signal, c.cfg.FrameSize, c.cfg.HopSize, c.cfg.SampleRate, c.cfg.Workers, c.window)
	if err != nil {
		return nil, err
	}

	mapping := c.chromaMapping(spec.FreqBins, spec.FreqResolution)

	frames := make([]Frame, spec.TimeFrames)
	for t := 0; t < spec.TimeFrames; t++ {
		vector := make([]float64, ChromaBins)

		for f := 0; f < spec.FreqBins; f++ {
			bin := mapping[f]
			if bin < 0 {
				continue
			}

			magnitude := spec.Magnitude[t][f]
			// Magnitude squared for energy
			vector[bin] += magnitude * magnitude
		}

		normalizeUnitSum(vector)

		frames[t] = Frame{
			Vector:    vector,
			StartTime: float64(t) * spec.TimeResolution,
		}
	}

	c.logger.Debug("chromagram computed", logging.Fields{
		"frames":      len(frames),
		"frame_size":  c.cfg.FrameSize,
		"hop_size":    c.cfg.HopSize,
		"sample_rate": c.cfg.SampleRate,
	})

	return frames, nil
}

// FrameDuration returns the hop interval in seconds
func (c *Chromagram) FrameDuration() float64 {
	return float64(c.cfg.HopSize) / float64(c.cfg.SampleRate)
}

// chromaMapping maps FFT bins to chroma bins; bins outside the configured
// frequency band map to -1.
func (c *Chromagram) chromaMapping(freqBins int, freqResolution float64) []int {
	mapping := make([]int, freqBins)

	for f := range freqBins {
		frequency := float64(f) * freqResolution

		if frequency < c.cfg.MinFreq || frequency > c.cfg.MaxFreq {
			mapping[f] = -1
			continue
		}

		midiNote := frequencyToMIDI(frequency, c.cfg.TuningFreq)
		// Euclidean modulo keeps the bin non-negative for sub-audio
		// frequencies whose MIDI number is below zero
		mapping[f] = ((int(math.Round(midiNote)) % ChromaBins) + ChromaBins) % ChromaBins
	}

	return mapping
}

// frequencyToMIDI converts frequency to MIDI note number.
// A4 (tuning frequency, default 440 Hz) = MIDI note 69.
func frequencyToMIDI(frequency, tuningFreq float64) float64 {
	if frequency <= 0 {
		return 0
	}
	return 69.0 + 12.0*math.Log2(frequency/tuningFreq)
}

// normalizeUnitSum scales a chroma vector to unit sum.
// A silent (zero) frame stays zero.
func normalizeUnitSum(vector []float64) {
	total := floats.Sum(vector)
	if total > 1e-10 {
		floats.Scale(1.0/total, vector)
	}
}

// MeanChroma averages chroma frames into a single profile
func MeanChroma(frames []Frame) []float64 {
	mean := make([]float64, ChromaBins)
	if len(frames) == 0 {
		return mean
	}

	for _, frame := range frames {
		floats.Add(mean, frame.Vector)
	}
	floats.Scale(1.0/float64(len(frames)), mean)

	return mean
}
