package chroma

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrogram holds framed magnitude spectra of a signal
type Spectrogram struct {
	Magnitude      [][]float64 // Time x Frequency magnitude matrix
	TimeFrames     int         // Number of time frames
	FreqBins       int         // Number of frequency bins (positive half)
	SampleRate     int         // Sample rate
	WindowSize     int         // FFT window size
	HopSize        int         // Hop size between frames
	FreqResolution float64     // Frequency resolution (Hz/bin)
	TimeResolution float64     // Time resolution (seconds/frame)
}

// ComputeSpectrogram slices the signal into overlapping frames, windows each
// frame and computes the magnitude of its real FFT. Frames are processed by a
// worker pool sized to the workload.
func ComputeSpectrogram(signal []float64, windowSize, hopSize, sampleRate, workers int, window *Hamming) (*Spectrogram, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}

	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	if numFrames <= 0 {
		return nil, fmt.Errorf("signal too short for given window size and hop size")
	}

	// Positive frequencies only
	freqBins := windowSize / 2

	magnitude := make([][]float64, numFrames)
	for i := range numFrames {
		magnitude[i] = make([]float64, freqBins)
	}

	if workers <= 0 {
		workers = optimalWorkerCount(numFrames)
	}

	type frameJob struct {
		frameIdx int
		startIdx int
		endIdx   int
	}

	jobs := make(chan frameJob, numFrames)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for job := range jobs {
				if job.endIdx > len(signal) {
					continue
				}

				copy(frameBuffer, signal[job.startIdx:job.endIdx])

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						continue
					}
				}

				fftResult := fft.FFTReal(frameBuffer)

				for i := range freqBins {
					magnitude[job.frameIdx][i] = cmplx.Abs(fftResult[i])
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for frameIdx := range numFrames {
			startIdx := frameIdx * hopSize
			endIdx := startIdx + windowSize

			if endIdx <= len(signal) {
				jobs <- frameJob{
					frameIdx: frameIdx,
					startIdx: startIdx,
					endIdx:   endIdx,
				}
			}
		}
	}()

	wg.Wait()

	return &Spectrogram{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// optimalWorkerCount sizes the pool to the workload
func optimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
