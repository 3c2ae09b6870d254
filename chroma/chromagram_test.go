package chroma

import (
	"math"
	"testing"
)

// makeChordSignal synthesizes a mix of sine tones at the given frequencies
func makeChordSignal(freqs []float64, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	signal := make([]float64, n)
	for _, freq := range freqs {
		for i := range signal {
			signal[i] += 0.3 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		}
	}
	return signal
}

func TestChromagramPitchClasses(t *testing.T) {
	cfg := DefaultConfig()
	cg := NewChromagram(cfg)

	// A3 = 220 Hz, pitch class A (bin 9)
	signal := makeChordSignal([]float64{220.0}, 2.0, cfg.SampleRate)

	frames, err := cg.Compute(signal)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(frames) == 0 {
		t.Fatal("no frames produced")
	}

	mean := MeanChroma(frames)
	maxBin := 0
	for bin, energy := range mean {
		if energy > mean[maxBin] {
			maxBin = bin
		}
	}
	if maxBin != 9 {
		t.Errorf("dominant pitch class = %d (%s), want 9 (A)", maxBin, NoteNames[maxBin])
	}
}

func TestChromagramUnitSum(t *testing.T) {
	cfg := DefaultConfig()
	cg := NewChromagram(cfg)

	signal := makeChordSignal([]float64{164.81, 207.65, 246.94}, 1.0, cfg.SampleRate)

	frames, err := cg.Compute(signal)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	for i, frame := range frames {
		sum := 0.0
		for _, energy := range frame.Vector {
			sum += energy
		}
		if math.Abs(sum-1.0) > 1e-6 {
			t.Fatalf("frame %d chroma sum = %f, want 1.0", i, sum)
		}
	}
}

func TestChromagramSilenceStaysZero(t *testing.T) {
	cfg := DefaultConfig()
	cg := NewChromagram(cfg)

	signal := make([]float64, cfg.SampleRate)

	frames, err := cg.Compute(signal)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	for i, frame := range frames {
		for bin, energy := range frame.Vector {
			if energy != 0 {
				t.Fatalf("frame %d bin %d = %f for silent input, want 0", i, bin, energy)
			}
		}
	}
}

func TestChromagramShortSignal(t *testing.T) {
	cfg := DefaultConfig()
	cg := NewChromagram(cfg)

	frames, err := cg.Compute(make([]float64, cfg.FrameSize/2))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if frames != nil {
		t.Errorf("signal shorter than one frame produced %d frames, want none", len(frames))
	}
}

func TestChromaMappingSubAudioFrequencies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinFreq = 1.0 // admits FFT bins whose MIDI number is negative
	cg := NewChromagram(cfg)

	resolution := float64(cfg.SampleRate) / float64(cfg.FrameSize)
	mapping := cg.chromaMapping(cfg.FrameSize/2, resolution)

	for f, bin := range mapping {
		if bin < -1 || bin >= ChromaBins {
			t.Fatalf("fft bin %d mapped to chroma bin %d, want -1..%d", f, bin, ChromaBins-1)
		}
	}
}

func TestEngineDetectsChordProgression(t *testing.T) {
	cfg := DefaultConfig()
	engine := NewEngine(cfg)

	// E major (E3, G#3, B3) then A minor (A3, C4, E4) then back to E major
	eMajor := []float64{164.81, 207.65, 246.94}
	aMinor := []float64{220.00, 261.63, 329.63}

	signal := makeChordSignal(eMajor, 4.0, cfg.SampleRate)
	signal = append(signal, makeChordSignal(aMinor, 4.0, cfg.SampleRate)...)
	signal = append(signal, makeChordSignal(eMajor, 4.0, cfg.SampleRate)...)

	detections, err := engine.Analyze(signal)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(detections) < 2 {
		t.Fatalf("got %d detections, want at least 2", len(detections))
	}

	for _, det := range detections {
		if det.Confidence <= 0.4 {
			t.Errorf("detection %s kept with confidence %f <= 0.4", det.Chord, det.Confidence)
		}
		if det.End <= det.Start {
			t.Errorf("detection %s has non-positive span [%f, %f]", det.Chord, det.Start, det.End)
		}
	}

	// Ordered, non-overlapping
	for i := 1; i < len(detections); i++ {
		if detections[i].Start < detections[i-1].End {
			t.Errorf("detections %d and %d overlap", i-1, i)
		}
	}

	labels := make(map[string]bool)
	for _, det := range detections {
		labels[det.Chord] = true
	}
	if !labels["E"] {
		t.Errorf("expected an E major detection, got %v", detections)
	}
	if !labels["Am"] {
		t.Errorf("expected an A minor detection, got %v", detections)
	}
}
